package analysis

import (
	"fmt"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	peakWindowWeeks       = 2
	peakThresholdSecPerKm = 20.0
	peakMinActivities     = 2
	peakMinRunSec         = 1200
)

// SuspiciousPeakResult flags a pace improvement too fast to be real
// adaptation. The message is deliberately non-alarmist.
type SuspiciousPeakResult struct {
	Detected            bool
	Message             string
	ImprovementSecPerKm *float64
	WindowWeeks         int
}

// SuspiciousPeak compares the median pace of this week's runs against
// the week two weeks back. An improvement of 20 s/km or more within
// two weeks is suspicious. Both windows need at least two runs of 20
// minutes or longer.
func SuspiciousPeak(activities []store.Activity, now time.Time, cal *calendar.Calendar) SuspiciousPeakResult {
	weekStart := cal.StartOfWeek(now)
	weekEnd := cal.AddDays(weekStart, 7)
	previousWeekStart := cal.AddWeeks(weekStart, -1)
	twoWeeksAgoStart := cal.AddWeeks(weekStart, -2)

	var current, older []float64
	for _, a := range activities {
		if !IsRunSport(a.SportType) || a.MovingTime < peakMinRunSec || a.AverageSpeed <= 0 {
			continue
		}
		pace := 1000 / a.AverageSpeed
		if !a.StartDate.Before(weekStart) && a.StartDate.Before(weekEnd) {
			current = append(current, pace)
		}
		if !a.StartDate.Before(twoWeeksAgoStart) && a.StartDate.Before(previousWeekStart) {
			older = append(older, pace)
		}
	}

	empty := SuspiciousPeakResult{WindowWeeks: peakWindowWeeks}
	if len(current) < peakMinActivities || len(older) < peakMinActivities {
		return empty
	}

	currentPace, _ := median(current)
	olderPace, _ := median(older)
	if olderPace <= 0 {
		return empty
	}

	improvement := olderPace - currentPace
	result := SuspiciousPeakResult{
		ImprovementSecPerKm: &improvement,
		WindowWeeks:         peakWindowWeeks,
	}
	if improvement >= peakThresholdSecPerKm {
		result.Detected = true
		result.Message = fmt.Sprintf(
			"Has mejorado unos %.0f s/km en 2 semanas. Puede ser efecto del descanso o de las condiciones, no solo adaptación.",
			improvement,
		)
	}
	return result
}
