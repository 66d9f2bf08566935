package analysis

import (
	"fmt"
	"sort"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	volumeTolerance    = 0.15
	easyRatioTolerance = 0.12
	// MaxWeeksToSearch bounds the equivalent-week lookback.
	MaxWeeksToSearch = 52
)

// WeekSummary condenses one Madrid week of running for comparison.
type WeekSummary struct {
	WeekStart           time.Time
	TotalDistanceKm     float64
	TotalTimeHours      float64
	SessionCount        int
	EasyRatio           float64
	AveragePaceSecPerKm *float64
	AverageHeartrate    *float64
}

// FormattedDistance renders the distance for display.
func (w WeekSummary) FormattedDistance() string {
	return fmt.Sprintf("%.1f km", w.TotalDistanceKm)
}

// FormattedTime renders the time for display.
func (w WeekSummary) FormattedTime() string {
	return fmt.Sprintf("%.1f h", w.TotalTimeHours)
}

// WeekCriterion selects how a reference week must resemble the
// current one.
type WeekCriterion string

const (
	CriterionSimilarVolume    WeekCriterion = "similarVolume"
	CriterionSameSessionCount WeekCriterion = "sameSessionCount"
	CriterionSimilarEasyRatio WeekCriterion = "similarEasyRatio"
)

// WeekComparison pairs the current week with a structurally equivalent
// past week and the generated insights.
type WeekComparison struct {
	Current   WeekSummary
	Reference WeekSummary
	Criterion WeekCriterion
	Insights  []string
}

// SummarizeWeek builds the summary of the week containing date from
// running activities.
func SummarizeWeek(date time.Time, activities []store.Activity, profile *store.RunnerProfile, cal *calendar.Calendar) WeekSummary {
	weekStart := cal.StartOfWeek(date)
	weekEnd := cal.StartOfNextWeek(date)

	var runs []store.Activity
	for _, a := range activities {
		if IsRunSport(a.SportType) && !a.StartDate.Before(weekStart) && a.StartDate.Before(weekEnd) {
			runs = append(runs, a)
		}
	}

	var totalKm float64
	var totalSec int
	for _, a := range runs {
		totalKm += a.Distance / 1000
		totalSec += a.MovingTime
	}

	easyPaceMs := 0.0
	if profile != nil {
		easyPaceMs = profile.EasyPaceMs
	}
	var easyTime int
	for _, a := range runs {
		if easyPaceMs > 0 && a.AverageSpeed <= easyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}
	}
	easyRatio := 0.5
	if totalSec > 0 {
		easyRatio = float64(easyTime) / float64(totalSec)
	}

	var avgPace *float64
	var paceSum float64
	paceCount := 0
	for _, a := range runs {
		if a.AverageSpeed > 0 {
			paceSum += 1000 / a.AverageSpeed
			paceCount++
		}
	}
	if paceCount > 0 {
		p := paceSum / float64(paceCount)
		avgPace = &p
	}

	var avgHR *float64
	var hrs []float64
	for _, a := range runs {
		if a.AverageHeartrate != nil {
			hrs = append(hrs, *a.AverageHeartrate)
		}
	}
	if len(hrs) > 0 {
		h := mean(hrs)
		avgHR = &h
	}

	return WeekSummary{
		WeekStart:           weekStart,
		TotalDistanceKm:     totalKm,
		TotalTimeHours:      float64(totalSec) / 3600,
		SessionCount:        len(runs),
		EasyRatio:           easyRatio,
		AveragePaceSecPerKm: avgPace,
		AverageHeartrate:    avgHR,
	}
}

// PastWeekSummaries returns one summary per week with running
// activity, newest week first, capped at upToWeeks.
func PastWeekSummaries(activities []store.Activity, profile *store.RunnerProfile, upToWeeks int, cal *calendar.Calendar) []WeekSummary {
	var runs []store.Activity
	for _, a := range activities {
		if IsRunSport(a.SportType) {
			runs = append(runs, a)
		}
	}

	weeks := make(map[int64]time.Time)
	for _, a := range runs {
		ws := cal.StartOfWeek(a.StartDate)
		weeks[ws.Unix()] = ws
	}
	starts := make([]time.Time, 0, len(weeks))
	for _, ws := range weeks {
		starts = append(starts, ws)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].After(starts[j]) })
	if len(starts) > upToWeeks {
		starts = starts[:upToWeeks]
	}

	summaries := make([]WeekSummary, 0, len(starts))
	for _, ws := range starts {
		summaries = append(summaries, SummarizeWeek(ws, runs, profile, cal))
	}
	return summaries
}

// FindEquivalentWeek returns the first past summary matching the
// criterion, or nil.
func FindEquivalentWeek(current WeekSummary, past []WeekSummary, criterion WeekCriterion) *WeekSummary {
	for i := range past {
		s := past[i]
		switch criterion {
		case CriterionSimilarVolume:
			if s.TotalDistanceKm <= 0 {
				continue
			}
			ratio := s.TotalDistanceKm / current.TotalDistanceKm
			if ratio >= 1-volumeTolerance && ratio <= 1+volumeTolerance {
				return &s
			}
		case CriterionSameSessionCount:
			if s.SessionCount == current.SessionCount {
				return &s
			}
		case CriterionSimilarEasyRatio:
			diff := s.EasyRatio - current.EasyRatio
			if diff < 0 {
				diff = -diff
			}
			if diff <= easyRatioTolerance {
				return &s
			}
		}
	}
	return nil
}

// CompareWeeks generates the Spanish insight lines for a pair of
// weeks: volume, session count, pace, and easy-ratio differences.
func CompareWeeks(current, reference WeekSummary) []string {
	var insights []string

	if reference.TotalDistanceKm > 0 {
		diff := (current.TotalDistanceKm - reference.TotalDistanceKm) / reference.TotalDistanceKm * 100
		abs := diff
		if abs < 0 {
			abs = -abs
		}
		if abs >= 10 {
			word := "menor"
			if diff > 0 {
				word = "mayor"
			}
			insights = append(insights, fmt.Sprintf("Volumen %.0f%% %s respecto a la semana de referencia.", abs, word))
		}
	}

	if current.SessionCount != reference.SessionCount {
		insights = append(insights, fmt.Sprintf("Sesiones: %d vs %d en la semana de referencia.", current.SessionCount, reference.SessionCount))
	}

	if current.AveragePaceSecPerKm != nil && reference.AveragePaceSecPerKm != nil && *reference.AveragePaceSecPerKm > 0 {
		diffSec := *current.AveragePaceSecPerKm - *reference.AveragePaceSecPerKm
		abs := diffSec
		if abs < 0 {
			abs = -abs
		}
		if abs >= 10 {
			word := "más rápido"
			if diffSec > 0 {
				word = "más lento"
			}
			insights = append(insights, fmt.Sprintf("Ritmo medio %s %.0f s/km.", word, abs))
		}
	}

	ratioDiff := current.EasyRatio - reference.EasyRatio
	if ratioDiff < 0 {
		ratioDiff = -ratioDiff
	}
	if ratioDiff >= 0.1 {
		insights = append(insights, fmt.Sprintf("Proporción fácil: %.0f%% vs %.0f%%.", current.EasyRatio*100, reference.EasyRatio*100))
	}

	return insights
}
