package analysis

import (
	"fmt"
	"sort"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	consistencyWeeks  = 12
	gapThresholdDays  = 4
	targetEasyRatio   = 0.75
	consistencyBase   = 70
	easySpeedFactor   = 1.02
	streakBonusCap    = 15
	gapPenaltyPerGap  = 5
	gapPenaltyCap     = 15
)

// ConsistencyBreakdown is the explainable regularity score.
type ConsistencyBreakdown struct {
	ConsecutiveWeeks    int
	GapsOver4Days       int
	WeeklyLoadVariation float64
	EasyHardDeviation   float64
	Score               int
	Reasons             []string
}

// Consistency measures training regularity over the last 12 Madrid
// weeks: streak of active weeks, gaps over 4 days between sessions,
// weekly load variation and the easy/hard time balance. The score
// starts at 70 and is adjusted per component, clamped to 0..100.
func Consistency(activities []store.Activity, profile *store.RunnerProfile, now time.Time, cal *calendar.Calendar) ConsistencyBreakdown {
	weekStart := cal.StartOfWeek(now)
	windowStart := cal.AddWeeks(weekStart, -consistencyWeeks)

	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}

	var inWindow []store.Activity
	for _, a := range activities {
		if !a.StartDate.Before(windowStart) {
			inWindow = append(inWindow, a)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool {
		return inWindow[i].StartDate.Before(inWindow[j].StartDate)
	})

	weeksWithActivity := make(map[int64]bool)
	weekLoads := make(map[int64]float64)
	gapsOver4 := 0
	var easyTime, totalTime int

	for i, a := range inWindow {
		week := cal.StartOfWeek(a.StartDate).Unix()
		weeksWithActivity[week] = true
		weekLoads[week] += float64(a.MovingTime) / 3600

		totalTime += a.MovingTime
		if easyPaceMs > 0 && a.AverageSpeed <= easyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}

		if i > 0 {
			if cal.DaysBetween(inWindow[i-1].StartDate, a.StartDate) > gapThresholdDays {
				gapsOver4++
			}
		}
	}

	// Streak walks back from the current week, or from the last active
	// week when the current one is still empty.
	streakStart := weekStart
	if !weeksWithActivity[weekStart.Unix()] {
		var last int64
		for week := range weeksWithActivity {
			if week > last {
				last = week
			}
		}
		if last > 0 {
			streakStart = time.Unix(last, 0)
		}
	}
	consecutiveWeeks := 0
	current := streakStart
	for i := 0; i < consistencyWeeks; i++ {
		if !weeksWithActivity[cal.StartOfWeek(current).Unix()] {
			break
		}
		consecutiveWeeks++
		current = cal.AddWeeks(current, -1)
	}

	loads := make([]float64, 0, len(weekLoads))
	for _, l := range weekLoads {
		loads = append(loads, l)
	}
	weeklyVariation := coefficientOfVariation(loads)

	easyRatio := 0.5
	if totalTime > 0 {
		easyRatio = float64(easyTime) / float64(totalTime)
	}
	easyHardDeviation := easyRatio - targetEasyRatio
	if easyHardDeviation < 0 {
		easyHardDeviation = -easyHardDeviation
	}

	score := consistencyBase
	var reasons []string

	switch {
	case consecutiveWeeks >= 4:
		bonus := consecutiveWeeks
		if bonus > streakBonusCap {
			bonus = streakBonusCap
		}
		score += bonus
		reasons = append(reasons, fmt.Sprintf("Racha: %d semanas", consecutiveWeeks))
	case consecutiveWeeks > 0:
		reasons = append(reasons, fmt.Sprintf("Racha: %d semanas", consecutiveWeeks))
	default:
		score -= 20
		reasons = append(reasons, "Sin racha reciente")
	}

	if gapsOver4 == 0 {
		score += 5
		reasons = append(reasons, "Sin huecos largos sin entrenar")
	} else {
		penalty := gapsOver4 * gapPenaltyPerGap
		if penalty > gapPenaltyCap {
			penalty = gapPenaltyCap
		}
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("%d huecos de más de %d días", gapsOver4, gapThresholdDays))
	}

	if weeklyVariation < 0.4 {
		score += 5
		reasons = append(reasons, "Carga semanal estable")
	} else if weeklyVariation > 0.8 {
		score -= 10
		reasons = append(reasons, "Carga semanal muy variable")
	}

	if easyHardDeviation <= 0.15 {
		score += 5
		reasons = append(reasons, "Buena proporción fácil/duro")
	} else if easyHardDeviation > 0.3 {
		score -= 10
		reasons = append(reasons, "Proporción fácil/duro desviada")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return ConsistencyBreakdown{
		ConsecutiveWeeks:    consecutiveWeeks,
		GapsOver4Days:       gapsOver4,
		WeeklyLoadVariation: weeklyVariation,
		EasyHardDeviation:   easyHardDeviation,
		Score:               score,
		Reasons:             reasons,
	}
}
