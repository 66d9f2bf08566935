package analysis

import (
	"sort"

	"runsight/internal/store"
)

// RunType is the classified kind of a running session.
type RunType string

const (
	RunRecovery  RunType = "recovery"
	RunEasy      RunType = "easy"
	RunLong      RunType = "long"
	RunTempo     RunType = "tempo"
	RunIntervals RunType = "intervals"
	RunRace      RunType = "race"
	RunUnknown   RunType = "unknown"
)

// DisplayName returns the Spanish label shown to the user.
func (t RunType) DisplayName() string {
	switch t {
	case RunRecovery:
		return "Recuperación"
	case RunEasy:
		return "Rodaje"
	case RunLong:
		return "Largo"
	case RunTempo:
		return "Ritmo"
	case RunIntervals:
		return "Series"
	case RunRace:
		return "Carrera"
	default:
		return "Sin clasificar"
	}
}

// minConfidenceToShow hides low-confidence classifications.
const minConfidenceToShow = 0.4

// Classification is a run type with its confidence and the reasons
// behind it. Reasons accumulate from every rule that fired, not just
// the winning one.
type Classification struct {
	Type       RunType
	Confidence float64
	Reasons    []string
}

// ShouldShow reports whether the classification is confident enough to
// surface in the UI.
func (c Classification) ShouldShow() bool {
	return c.Type != RunUnknown && c.Confidence >= minConfidenceToShow
}

type candidate struct {
	runType    RunType
	confidence float64
}

// Classify applies the rule set to one activity. Profile paces (m/s)
// may be zero when no profile exists; the profile-relative rules are
// skipped then. Ties keep rule order (stable sort by confidence).
func Classify(a *store.Activity, splits []store.Split, laps []store.Lap, easyPaceMs, thresholdPaceMs float64) Classification {
	quality := EvaluateQuality(a, splits)
	if !quality.CanClassify() {
		return Classification{Type: RunUnknown, Confidence: 0, Reasons: quality.MissingReasons()}
	}

	durationMin := float64(a.MovingTime) / 60
	distanceKm := a.Distance / 1000
	speed := a.AverageSpeed
	paceSecPerKm := 0.0
	if speed > 0 {
		paceSecPerKm = 1000 / speed
	}

	var reasons []string
	var candidates []candidate

	variability := splitPaceVariability(splits)

	// Several marked laps usually mean a structured interval workout.
	if len(laps) > 2 {
		candidates = append(candidates, candidate{RunIntervals, 0.85})
		reasons = append(reasons, "Varios intervalos marcados")
	}

	// Very short and fast: race effort or broken intervals.
	if durationMin < 25 && speed > 0 {
		if thresholdPaceMs > 0 && speed > thresholdPaceMs*1.05 {
			candidates = append(candidates, candidate{RunRace, 0.7})
			reasons = append(reasons, "Duración corta y ritmo por encima del umbral")
		} else if variability > 0.15 {
			candidates = append(candidates, candidate{RunIntervals, 0.65})
			reasons = append(reasons, "Duración corta con ritmo variable")
		}
	}

	// Long run by duration or distance.
	if durationMin >= 85 || distanceKm >= 18 {
		score := 0.6
		if durationMin >= 120 {
			score = 0.9
		} else if durationMin >= 90 {
			score = 0.8
		}
		candidates = append(candidates, candidate{RunLong, score})
		reasons = append(reasons, "Duración o distancia de largo")
	}

	// Speed relative to the profile's easy and threshold paces.
	if easyPaceMs > 0 && thresholdPaceMs > 0 {
		switch {
		case speed <= easyPaceMs*0.92:
			candidates = append(candidates, candidate{RunRecovery, 0.75})
			reasons = append(reasons, "Ritmo más lento que rodaje cómodo")
		case speed >= thresholdPaceMs*0.95 && speed <= thresholdPaceMs*1.08:
			candidates = append(candidates, candidate{RunTempo, 0.7})
			reasons = append(reasons, "Ritmo en zona de umbral")
		case speed > thresholdPaceMs*1.1:
			if durationMin < 40 {
				candidates = append(candidates, candidate{RunRace, 0.65})
				reasons = append(reasons, "Ritmo muy por encima del umbral en sesión corta")
			} else {
				candidates = append(candidates, candidate{RunIntervals, 0.5})
			}
		case speed > easyPaceMs && speed < thresholdPaceMs*0.92:
			if durationMin >= 45 {
				candidates = append(candidates, candidate{RunEasy, 0.7})
				reasons = append(reasons, "Ritmo entre fácil y umbral, duración moderada")
			}
		}
	}

	// Elevated heart rate at slow pace hints at fatigue.
	if a.AverageHeartrate != nil && paceSecPerKm > 0 && paceSecPerKm < 600 {
		if paceSecPerKm/60 > 6.0 && *a.AverageHeartrate > 140 {
			candidates = append(candidates, candidate{RunRecovery, 0.55})
			reasons = append(reasons, "FC elevada para ritmo lento (posible fatiga)")
		}
	}

	// Defaults when no rule fired.
	if len(candidates) == 0 {
		if durationMin >= 25 && durationMin <= 90 {
			candidates = append(candidates, candidate{RunEasy, 0.5})
			reasons = append(reasons, "Duración típica de rodaje")
		} else if durationMin < 20 {
			candidates = append(candidates, candidate{RunUnknown, 0.3})
			reasons = append(reasons, "Duración insuficiente para clasificar")
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	best := candidate{RunUnknown, 0}
	if len(candidates) > 0 {
		best = candidates[0]
	}
	if len(reasons) == 0 {
		reasons = []string{"Datos insuficientes para clasificar"}
	}

	return Classification{Type: best.runType, Confidence: best.confidence, Reasons: reasons}
}

// splitPaceVariability is the coefficient of variation of per-split
// paces (elapsed seconds per km). Below 3 splits there is no signal.
func splitPaceVariability(splits []store.Split) float64 {
	if len(splits) < 3 {
		return 0
	}
	var paces []float64
	for _, s := range splits {
		km := s.Distance / 1000
		if km <= 0 {
			continue
		}
		paces = append(paces, float64(s.ElapsedTime)/km)
	}
	if len(paces) < 2 {
		return 0
	}
	return coefficientOfVariation(paces)
}
