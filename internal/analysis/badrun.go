package analysis

import "runsight/internal/store"

const (
	hrAboveExpectedMargin = 0.08
	driftThresholdBpm     = 8.0
	erraticPaceCV         = 0.12
	estimatedMaxHR        = 190.0
)

// BadRunSeverity grades how hard a supposedly easy run turned out.
type BadRunSeverity string

const (
	BadRunLow    BadRunSeverity = "low"
	BadRunMedium BadRunSeverity = "medium"
	BadRunHigh   BadRunSeverity = "high"
)

// DisplayName returns the Spanish label.
func (s BadRunSeverity) DisplayName() string {
	switch s {
	case BadRunHigh:
		return "Alta"
	case BadRunMedium:
		return "Moderada"
	default:
		return "Leve"
	}
}

// BadRunInsight flags a session that was harder than it should have
// been, with the observed signals and a suggested follow-up.
type BadRunInsight struct {
	Severity        BadRunSeverity
	Causes          []string
	SuggestedAction string
	Summary         string
}

// HasIssue reports whether anything noteworthy was detected.
func (b BadRunInsight) HasIssue() bool {
	return b.Severity != BadRunLow || len(b.Causes) > 0
}

// EvaluateBadRun checks four signals on a single run: heart rate above
// what the pace predicts, erratic per-kilometer pace, heart-rate drift
// between halves, and elevated heart rate against the previous day's
// session. Non-running activities yield an empty insight.
func EvaluateBadRun(a *store.Activity, splits []store.Split, profile *store.RunnerProfile, previousDay *store.Activity) BadRunInsight {
	quality := EvaluateQuality(a, splits)
	if !quality.IsRun {
		return BadRunInsight{Severity: BadRunLow}
	}

	var causes []string
	score := 0

	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}

	// 1. Heart rate too high for the pace.
	if quality.CanUseHeartrateMetrics() && a.AverageHeartrate != nil && easyPaceMs > 0 {
		expectedFactor := 0.85 + 0.15*(a.AverageSpeed/easyPaceMs)
		expectedHR := estimatedMaxHR * expectedFactor * 0.75
		if *a.AverageHeartrate > expectedHR*(1+hrAboveExpectedMargin) {
			causes = append(causes, "FC más alta de lo esperado para este ritmo")
			score += 2
		}
	}

	// 2. Erratic pace across splits.
	if quality.CanUseSplitMetrics() && len(splits) >= 3 {
		var paces []float64
		for _, s := range splits {
			km := s.Distance / 1000
			if km <= 0 {
				continue
			}
			paces = append(paces, float64(s.ElapsedTime)/km)
		}
		if len(paces) >= 3 && coefficientOfVariation(paces) > erraticPaceCV {
			causes = append(causes, "Ritmo muy variable entre kilómetros")
			score++
		}
	}

	// 3. Heart-rate drift between halves.
	if len(splits) >= 4 {
		mid := len(splits) / 2
		var first, second []float64
		for _, s := range splits[:mid] {
			if s.AverageHeartrate != nil {
				first = append(first, *s.AverageHeartrate)
			}
		}
		for _, s := range splits[mid:] {
			if s.AverageHeartrate != nil {
				second = append(second, *s.AverageHeartrate)
			}
		}
		if len(first) > 0 && len(second) > 0 {
			if mean(second)-mean(first) > driftThresholdBpm {
				causes = append(causes, "Deriva de FC alta (segunda mitad más exigente)")
				score += 2
			}
		}
	}

	// 4. Poor recovery from yesterday's session.
	if previousDay != nil && previousDay.AverageSpeed > 0 && a.AverageSpeed > 0 {
		if previousDay.AverageHeartrate != nil && a.AverageHeartrate != nil {
			prevPace := 1000 / previousDay.AverageSpeed
			todayPace := 1000 / a.AverageSpeed
			if todayPace >= prevPace*0.98 && *a.AverageHeartrate > *previousDay.AverageHeartrate+5 {
				causes = append(causes, "FC elevada respecto al entrenamiento de ayer")
				score += 2
			}
		}
	}

	var severity BadRunSeverity
	switch {
	case score >= 4:
		severity = BadRunHigh
	case score >= 2:
		severity = BadRunMedium
	default:
		severity = BadRunLow
	}

	var action string
	switch severity {
	case BadRunHigh:
		action = "Considera un día de descanso o rodaje muy suave mañana."
	case BadRunMedium:
		action = "Prioriza recuperación: próximo entreno fácil."
	}

	var summary string
	if len(causes) > 0 {
		summary = "Este rodaje fue más exigente de lo esperado. Probable fatiga acumulada."
	}

	return BadRunInsight{Severity: severity, Causes: causes, SuggestedAction: action, Summary: summary}
}
