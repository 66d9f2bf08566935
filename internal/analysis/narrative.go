package analysis

import (
	"fmt"
	"sort"
	"strings"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

// WeeklyNarrative composes a short, honest Spanish summary of the
// current week from its runs plus the cross-cutting diagnoses. The
// input must already be limited to this week's running activities.
func WeeklyNarrative(
	weekActivities []store.Activity,
	profile *store.RunnerProfile,
	consistency *ConsistencyBreakdown,
	fatigue *FatigueDiagnosis,
	trend TrendDirection,
	cal *calendar.Calendar,
) string {
	if len(weekActivities) == 0 {
		return "Sin actividades de carrera esta semana."
	}

	var parts []string

	sessionCount := len(weekActivities)
	var totalDistanceKm, totalTimeHours float64
	var totalTime int
	for _, a := range weekActivities {
		totalDistanceKm += a.Distance / 1000
		totalTime += a.MovingTime
	}
	totalTimeHours = float64(totalTime) / 3600

	var summary []string
	if sessionCount == 1 {
		summary = append(summary, "1 sesión")
	} else {
		summary = append(summary, fmt.Sprintf("%d sesiones", sessionCount))
	}
	if totalDistanceKm > 0 {
		summary = append(summary, fmt.Sprintf("%.1f km", totalDistanceKm))
	}
	if totalTimeHours > 0 {
		summary = append(summary, fmt.Sprintf("%.1f h", totalTimeHours))
	}
	parts = append(parts, strings.Join(summary, ", ")+".")

	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}
	var easyTime int
	hardSessions := 0
	for _, a := range weekActivities {
		if easyPaceMs > 0 && a.AverageSpeed <= easyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}
		if easyPaceMs > 0 && a.AverageSpeed > easyPaceMs*1.08 {
			hardSessions++
		}
	}
	easyRatio := 0.0
	if totalTime > 0 {
		easyRatio = float64(easyTime) / float64(totalTime)
	}

	sorted := make([]store.Activity, len(weekActivities))
	copy(sorted, weekActivities)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})
	consecutiveHard := 0
	maxConsecutiveHard := 0
	for _, a := range sorted {
		if easyPaceMs > 0 && a.AverageSpeed > easyPaceMs*1.08 {
			consecutiveHard++
			if consecutiveHard > maxConsecutiveHard {
				maxConsecutiveHard = consecutiveHard
			}
		} else {
			consecutiveHard = 0
		}
	}

	if consistency != nil {
		if consistency.ConsecutiveWeeks >= 4 {
			parts = append(parts, "Semana consistente.")
		} else if consistency.ConsecutiveWeeks == 0 {
			parts = append(parts, "Semana irregular.")
		}
	}

	// Gaps only between sessions inside this week.
	if len(sorted) >= 2 {
		gapInWeek := 0
		for i := 1; i < len(sorted); i++ {
			if cal.DaysBetween(sorted[i-1].StartDate, sorted[i].StartDate) > 4 {
				gapInWeek++
			}
		}
		if gapInWeek > 0 {
			parts = append(parts, "Hay un hueco de más de 4 días entre sesiones esta semana.")
		}
	}

	if easyRatio < 0.5 && totalTime > 3600 {
		parts = append(parts, "Poco volumen fácil.")
	} else if easyRatio >= 0.75 {
		parts = append(parts, "Buena proporción de rodaje fácil.")
	}

	if hardSessions >= 2 && maxConsecutiveHard >= 2 {
		parts = append(parts, "Dos o más sesiones exigentes seguidas.")
	} else if hardSessions == 0 && len(weekActivities) >= 2 {
		if easyPaceMs > 0 {
			parts = append(parts, "Solo rodajes suaves esta semana (ritmo ≤ ritmo cómodo + 8%).")
		} else {
			parts = append(parts, "Solo rodajes suaves esta semana.")
		}
	}

	if trend == TrendDeclining {
		parts = append(parts, "La eficiencia baja ligeramente.")
	}

	if fatigue != nil {
		if fatigue.Level == FatigueHigh {
			parts = append(parts, "Probablemente por fatiga acumulada.")
		} else if fatigue.Level == FatigueMedium {
			parts = append(parts, "Posible fatiga moderada.")
		}
	}

	return strings.Join(parts, " ")
}
