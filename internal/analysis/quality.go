package analysis

import (
	"strings"

	"runsight/internal/store"
)

// Minimum size of a session before the analyzers trust it.
const (
	minAnalysisDurationSec = 600
	minAnalysisDistanceM   = 1000.0
)

// IsRunSport reports whether a sport type counts as running.
// Matching is case-insensitive (Run, VirtualRun, TrailRun).
func IsRunSport(sportType string) bool {
	switch strings.ToLower(sportType) {
	case "run", "virtualrun", "trailrun":
		return true
	}
	return false
}

// DataQuality describes which capabilities an activity's data supports.
// Every analyzer checks it before computing anything; missing
// capabilities degrade to explanatory empty results, never errors.
type DataQuality struct {
	HasHeartrate bool
	HasSplits    bool
	HasDistance  bool
	HasDuration  bool
	IsRun        bool
}

// EvaluateQuality inspects an activity and its splits.
func EvaluateQuality(a *store.Activity, splits []store.Split) DataQuality {
	return DataQuality{
		HasHeartrate: a.HasHeartrate && a.AverageHeartrate != nil,
		HasSplits:    len(splits) >= 2,
		HasDistance:  a.Distance >= minAnalysisDistanceM,
		HasDuration:  a.MovingTime >= minAnalysisDurationSec,
		IsRun:        IsRunSport(a.SportType),
	}
}

// CanUseHeartrateMetrics gates the heart-rate based analyzers.
func (q DataQuality) CanUseHeartrateMetrics() bool {
	return q.HasHeartrate && q.IsRun
}

// CanUseSplitMetrics gates the per-kilometer analyzers.
func (q DataQuality) CanUseSplitMetrics() bool {
	return q.HasSplits && q.HasDistance && q.IsRun
}

// CanClassify gates the session classifier.
func (q DataQuality) CanClassify() bool {
	return q.IsRun && (q.HasDuration || q.HasDistance)
}

// MissingReasons lists, in Spanish, why analysis is limited.
func (q DataQuality) MissingReasons() []string {
	var reasons []string
	if !q.HasHeartrate {
		reasons = append(reasons, "No hay datos de frecuencia cardíaca")
	}
	if !q.HasSplits {
		reasons = append(reasons, "No hay splits por kilómetro")
	}
	if !q.HasDuration {
		reasons = append(reasons, "Duración insuficiente para análisis")
	}
	if !q.HasDistance {
		reasons = append(reasons, "Distancia insuficiente para análisis")
	}
	if !q.IsRun {
		reasons = append(reasons, "Solo aplicable a actividades de carrera")
	}
	return reasons
}
