package analysis

import (
	"strings"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	// MinProfileRuns is the minimum number of runs before a profile
	// can be derived.
	MinProfileRuns = 5

	// ProfileRecomputeIntervalDays is how long a stored profile stays
	// fresh.
	ProfileRecomputeIntervalDays = 7

	minEasyDurationMin      = 25.0
	maxEasyDurationMin      = 95.0
	thresholdDurationMinLow = 20.0
	thresholdDurationMinHi  = 65.0
)

// ComputeProfile derives a runner profile from plain "Run" activities.
// Returns false when fewer than MinProfileRuns runs exist; the caller
// should then drop any stored profile.
//
// Easy pace is the median speed of stable runs (25 to 95 minutes, under
// 5 m/s). Threshold is the best sustained speed over 20 to 65 minutes,
// falling back to easy*0.85. Weekly variability is the CV of weekly km
// grouped by Madrid week. The easy/hard time ratio counts moving time
// at or below easy*0.98 as easy. Confidence grows with sample size,
// halved when no stable easy runs exist.
func ComputeProfile(activities []store.Activity, cal *calendar.Calendar) (store.RunnerProfile, bool) {
	var eligible []store.Activity
	for _, a := range activities {
		if strings.ToLower(a.SportType) == "run" {
			eligible = append(eligible, a)
		}
	}
	if len(eligible) < MinProfileRuns {
		return store.RunnerProfile{}, false
	}

	var runs []store.Activity
	for _, a := range eligible {
		if a.MovingTime >= minAnalysisDurationSec && a.AverageSpeed > 0 {
			runs = append(runs, a)
		}
	}

	var easySpeeds []float64
	for _, a := range runs {
		min := float64(a.MovingTime) / 60
		if min >= minEasyDurationMin && min <= maxEasyDurationMin && a.AverageSpeed < 5.0 {
			easySpeeds = append(easySpeeds, a.AverageSpeed)
		}
	}
	easyPaceMs, _ := median(easySpeeds)

	var bestSpeed float64
	for _, a := range runs {
		min := float64(a.MovingTime) / 60
		if min < thresholdDurationMinLow || min > thresholdDurationMinHi {
			continue
		}
		if a.AverageSpeed > bestSpeed {
			bestSpeed = a.AverageSpeed
		}
	}
	thresholdPaceMs := bestSpeed
	if thresholdPaceMs <= 0 {
		thresholdPaceMs = easyPaceMs * 0.85
	}

	weeklyKm := make(map[int64]float64)
	for _, a := range runs {
		week := cal.StartOfWeek(a.StartDate).Unix()
		weeklyKm[week] += a.Distance / 1000
	}
	volumes := make([]float64, 0, len(weeklyKm))
	for _, km := range weeklyKm {
		volumes = append(volumes, km)
	}
	weeklyVariability := coefficientOfVariation(volumes)

	easyThreshold := easyPaceMs * 0.98
	var easyTime, totalTime int
	for _, a := range runs {
		totalTime += a.MovingTime
		if a.AverageSpeed <= easyThreshold {
			easyTime += a.MovingTime
		}
	}
	easyHardRatio := 0.5
	if totalTime > 0 {
		easyHardRatio = float64(easyTime) / float64(totalTime)
	}

	confidence := float64(len(runs)) / 30.0
	if confidence > 1 {
		confidence = 1
	}
	if len(easySpeeds) == 0 {
		confidence *= 0.5
	}

	return store.RunnerProfile{
		SportType:         "Run",
		EasyPaceMs:        easyPaceMs,
		ThresholdPaceMs:   thresholdPaceMs,
		WeeklyVariability: weeklyVariability,
		EasyHardRatio:     easyHardRatio,
		Confidence:        confidence,
	}, true
}
