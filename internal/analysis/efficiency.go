package analysis

import (
	"sort"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	efficiencyWeeks          = 6
	efficiencyMinRunSec      = 900
	efficiencyPaceChangePct  = 0.03
	efficiencyHRDriftBpm     = 3
)

// TrendDirection is the direction of the efficiency trend.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// EfficiencyTrendResult is the trend with its confidence and reasons.
type EfficiencyTrendResult struct {
	Direction  TrendDirection
	Confidence float64
	Reasons    []string
}

// EfficiencyTrend compares easy-run pace and heart rate across the last
// 6 Madrid weeks: the most recent week's median pace against the last
// week before the two most recent ones. A 3% pace change or a 3 bpm
// heart-rate rise moves the score. High fatigue softens a declining
// signal instead of blaming fitness.
func EfficiencyTrend(activities []store.Activity, fatigue *FatigueDiagnosis, now time.Time, cal *calendar.Calendar) EfficiencyTrendResult {
	weekStart := cal.StartOfWeek(now)

	var runs []store.Activity
	for _, a := range activities {
		if IsRunSport(a.SportType) && a.MovingTime >= efficiencyMinRunSec && a.AverageSpeed > 0 {
			runs = append(runs, a)
		}
	}

	weeklyPaces := make(map[int64][]float64)
	weeklyHR := make(map[int64][]float64)
	for i := 0; i < efficiencyWeeks; i++ {
		wStart := cal.AddWeeks(weekStart, -i)
		wEnd := cal.AddDays(wStart, 7)
		key := wStart.Unix()
		for _, a := range runs {
			if a.StartDate.Before(wStart) || !a.StartDate.Before(wEnd) {
				continue
			}
			weeklyPaces[key] = append(weeklyPaces[key], 1000/a.AverageSpeed)
			if a.AverageHeartrate != nil {
				weeklyHR[key] = append(weeklyHR[key], *a.AverageHeartrate)
			}
		}
	}

	sortedWeeks := make([]int64, 0, len(weeklyPaces))
	for w := range weeklyPaces {
		sortedWeeks = append(sortedWeeks, w)
	}
	sort.Slice(sortedWeeks, func(i, j int) bool { return sortedWeeks[i] < sortedWeeks[j] })

	if len(sortedWeeks) < 2 {
		return EfficiencyTrendResult{
			Direction:  TrendStable,
			Confidence: 0,
			Reasons:    []string{"Datos insuficientes para calcular tendencia"},
		}
	}

	var reasons []string
	improving := 0
	declining := 0

	recentWeek := sortedWeeks[len(sortedWeeks)-1]
	var olderWeek int64
	hasOlder := len(sortedWeeks) > 2
	if hasOlder {
		olderWeek = sortedWeeks[len(sortedWeeks)-3]
	}

	if hasOlder {
		recentPace, _ := median(weeklyPaces[recentWeek])
		olderPace, _ := median(weeklyPaces[olderWeek])
		if olderPace > 0 {
			change := (recentPace - olderPace) / olderPace
			if change < -efficiencyPaceChangePct {
				improving += 2
				reasons = append(reasons, "Ritmo en rodajes mejorando")
			} else if change > efficiencyPaceChangePct {
				declining += 2
				reasons = append(reasons, "Ritmo en rodajes más lento")
			}
		}

		hrRecent := weeklyHR[recentWeek]
		hrOlder := weeklyHR[olderWeek]
		if len(hrRecent) > 0 && len(hrOlder) > 0 {
			if mean(hrRecent) > mean(hrOlder)+efficiencyHRDriftBpm {
				declining++
				reasons = append(reasons, "FC media más alta recientemente")
			}
		}
	}

	// High fatigue explains a one-off dip; don't pin it on fitness.
	if fatigue != nil && fatigue.Level == FatigueHigh {
		declining--
		if declining < 0 {
			declining = 0
		}
		reasons = append(reasons, "Fatiga alta puede explicar bajada puntual")
	}

	direction := TrendStable
	if improving > declining {
		direction = TrendImproving
	} else if declining > improving {
		direction = TrendDeclining
	}

	confidence := float64(len(sortedWeeks)) / 4.0
	if confidence > 1 {
		confidence = 1
	}
	confidence *= 0.8

	if len(reasons) == 0 {
		reasons = append(reasons, "Tendencia estable con los datos disponibles")
	}

	return EfficiencyTrendResult{Direction: direction, Confidence: confidence, Reasons: reasons}
}
