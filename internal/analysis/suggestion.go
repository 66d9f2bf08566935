package analysis

import (
	"sort"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	suggestionRecentDays = 7
	suggestionGapDays    = 2
	maintenancePrefix    = "Modo mantenimiento. "
)

// Suggestion is a next-workout proposal, not a rigid plan. Duration is
// a range in minutes.
type Suggestion struct {
	Type        string
	DurationMin int
	DurationMax int
	Intensity   string
	Reason      string
	FullText    string
}

// SuggestNextWorkout picks the first matching rule over the last 7
// days of runs. Without a race goal everything carries the maintenance
// prefix: the engine only keeps the base steady.
func SuggestNextWorkout(
	activities []store.Activity,
	profile *store.RunnerProfile,
	fatigue *FatigueDiagnosis,
	now time.Time,
	cal *calendar.Calendar,
) Suggestion {
	recentStart := cal.AddDays(now, -suggestionRecentDays)
	var recent []store.Activity
	for _, a := range activities {
		if !a.StartDate.Before(recentStart) {
			recent = append(recent, a)
		}
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].StartDate.After(recent[j].StartDate)
	})

	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}

	hardCount := 0
	var easyTime, totalTime int
	for _, a := range recent {
		totalTime += a.MovingTime
		if easyPaceMs > 0 && a.AverageSpeed > easyPaceMs*1.08 {
			hardCount++
		}
		if easyPaceMs > 0 && a.AverageSpeed <= easyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}
	}
	easyRatio := 0.5
	if totalTime > 0 {
		easyRatio = float64(easyTime) / float64(totalTime)
	}

	daysSinceLastRun := 0
	if len(recent) > 0 {
		daysSinceLastRun = cal.DaysBetween(recent[0].StartDate, now)
	}

	fatigueHigh := fatigue != nil && fatigue.Level == FatigueHigh
	fatigueMedium := fatigue != nil && fatigue.Level == FatigueMedium
	manyHard := hardCount >= 2
	lowEasyRatio := easyRatio < 0.5

	switch {
	case fatigueHigh || manyHard:
		reason := "Dos o más sesiones exigentes recientes."
		motive := "varias sesiones intensas recientes"
		if fatigueHigh {
			reason = "Fatiga acumulada alta."
			motive = "fatiga acumulada"
		}
		return Suggestion{
			Type:        "Rodaje Z2",
			DurationMin: 35,
			DurationMax: 50,
			Intensity:   "fácil",
			Reason:      maintenancePrefix + reason,
			FullText:    maintenancePrefix + "Rodaje 35–50' en Z2, terreno llano. Motivo: " + motive + ". Prioriza recuperación.",
		}
	case fatigueMedium && lowEasyRatio:
		return Suggestion{
			Type:        "Rodaje fácil",
			DurationMin: 40,
			DurationMax: 55,
			Intensity:   "fácil",
			Reason:      maintenancePrefix + "Fatiga moderada y poca proporción fácil reciente.",
			FullText:    maintenancePrefix + "Rodaje 40–55' fácil, terreno llano. Motivo: fatiga moderada y baja proporción de volumen fácil.",
		}
	case daysSinceLastRun >= 5:
		return Suggestion{
			Type:        "Rodaje moderado",
			DurationMin: 35,
			DurationMax: 50,
			Intensity:   "moderado",
			Reason:      maintenancePrefix + "Varios días sin entrenar. Volver con calma.",
			FullText:    maintenancePrefix + "Rodaje 35–50' a ritmo moderado. Motivo: varios días sin entrenar; no forzar.",
		}
	case daysSinceLastRun >= suggestionGapDays && len(recent) > 0:
		return Suggestion{
			Type:        "Rodaje Z2",
			DurationMin: 40,
			DurationMax: 60,
			Intensity:   "fácil",
			Reason:      maintenancePrefix + "Un par de días sin entrenar. Rodaje cómodo.",
			FullText:    maintenancePrefix + "Rodaje 40–60' en Z2. Motivo: retomar con volumen fácil.",
		}
	case lowEasyRatio && !manyHard:
		return Suggestion{
			Type:        "Rodaje fácil",
			DurationMin: 45,
			DurationMax: 60,
			Intensity:   "fácil",
			Reason:      maintenancePrefix + "Proporción fácil/duro desviada. Compensar con volumen fácil.",
			FullText:    maintenancePrefix + "Rodaje 45–60' fácil. Motivo: compensar proporción fácil/duro.",
		}
	default:
		return Suggestion{
			Type:        "Rodaje Z2",
			DurationMin: 40,
			DurationMax: 55,
			Intensity:   "fácil",
			Reason:      maintenancePrefix + "Mantener base. Rodaje cómodo.",
			FullText:    maintenancePrefix + "Rodaje 40–55' en Z2, terreno llano. Motivo: mantener base y consistencia.",
		}
	}
}
