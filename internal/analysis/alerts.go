package analysis

import (
	"strings"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

const (
	alertRecentWeeks        = 4
	alertLoadSpikeFactor    = 1.5
	alertEasyRatioBroken    = 0.4
	alertTrendMinConfidence = 0.5
)

// AlertSeverity ranks a silent alert.
type AlertSeverity string

const (
	AlertInfo    AlertSeverity = "info"
	AlertWarning AlertSeverity = "warning"
	AlertHigh    AlertSeverity = "high"
)

// Alert is an in-app notice. These only appear when opening the app;
// nothing is ever pushed.
type Alert struct {
	ID       string
	Title    string
	Message  string
	Severity AlertSeverity
}

// SilentAlerts evaluates the four alert rules in fixed order: load
// spike, persistent declining trend, broken week (too little easy
// volume) and high fatigue.
func SilentAlerts(
	activities []store.Activity,
	profile *store.RunnerProfile,
	trend *EfficiencyTrendResult,
	fatigue *FatigueDiagnosis,
	now time.Time,
	cal *calendar.Calendar,
) []Alert {
	var alerts []Alert

	var runs []store.Activity
	for _, a := range activities {
		if IsRunSport(a.SportType) {
			runs = append(runs, a)
		}
	}

	if a := evaluateLoadSpike(runs, now, cal); a != nil {
		alerts = append(alerts, *a)
	}

	if trend != nil && trend.Direction == TrendDeclining && trend.Confidence >= alertTrendMinConfidence {
		first := ""
		if len(trend.Reasons) > 0 {
			first = trend.Reasons[0]
		}
		alerts = append(alerts, Alert{
			ID:       "trend_declining",
			Title:    "Tendencia de eficiencia",
			Message:  "La eficiencia va a la baja en las últimas semanas. " + first,
			Severity: AlertWarning,
		})
	}

	if a := evaluateWeekBroken(runs, profile, now, cal); a != nil {
		alerts = append(alerts, *a)
	}

	if fatigue != nil && fatigue.Level == FatigueHigh {
		causes := fatigue.Causes
		if len(causes) > 2 {
			causes = causes[:2]
		}
		alerts = append(alerts, Alert{
			ID:       "fatigue_high",
			Title:    "Fatiga acumulada",
			Message:  strings.Join(causes, ". ") + ". " + fatigue.RecommendedAction,
			Severity: AlertWarning,
		})
	}

	return alerts
}

// evaluateLoadSpike compares this week's hours against the mean of the
// three previous weeks inside the 4-week window.
func evaluateLoadSpike(runs []store.Activity, now time.Time, cal *calendar.Calendar) *Alert {
	weekStart := cal.StartOfWeek(now)

	weeklyLoad := make(map[int64]float64)
	for i := 0; i < alertRecentWeeks; i++ {
		wStart := cal.AddWeeks(weekStart, -i)
		wEnd := cal.AddDays(wStart, 7)
		var hours float64
		for _, a := range runs {
			if !a.StartDate.Before(wStart) && a.StartDate.Before(wEnd) {
				hours += float64(a.MovingTime) / 3600
			}
		}
		weeklyLoad[wStart.Unix()] = hours
	}

	current := weeklyLoad[weekStart.Unix()]
	var previous []float64
	for i := 0; i < alertRecentWeeks; i++ {
		key := cal.AddWeeks(weekStart, -i-1).Unix()
		if load, ok := weeklyLoad[key]; ok {
			previous = append(previous, load)
		}
	}
	if len(previous) == 0 {
		return nil
	}
	baseline := mean(previous)
	if baseline > 0 && current > baseline*alertLoadSpikeFactor {
		return &Alert{
			ID:       "load_spike",
			Title:    "Carga elevada",
			Message:  "Esta semana la carga es notablemente mayor que tu media reciente. Considera no subir más el volumen.",
			Severity: AlertWarning,
		}
	}
	return nil
}

// evaluateWeekBroken flags the current week when at least two runs
// exist but easy volume falls under 40% of moving time.
func evaluateWeekBroken(runs []store.Activity, profile *store.RunnerProfile, now time.Time, cal *calendar.Calendar) *Alert {
	if profile == nil || profile.EasyPaceMs <= 0 {
		return nil
	}
	weekStart := cal.StartOfWeek(now)
	weekEnd := cal.AddDays(weekStart, 7)

	var weekRuns []store.Activity
	for _, a := range runs {
		if !a.StartDate.Before(weekStart) && a.StartDate.Before(weekEnd) {
			weekRuns = append(weekRuns, a)
		}
	}
	if len(weekRuns) < 2 {
		return nil
	}

	var easyTime, totalTime int
	for _, a := range weekRuns {
		totalTime += a.MovingTime
		if a.AverageSpeed <= profile.EasyPaceMs*easySpeedFactor {
			easyTime += a.MovingTime
		}
	}
	if totalTime == 0 {
		return nil
	}
	if float64(easyTime)/float64(totalTime) < alertEasyRatioBroken {
		return &Alert{
			ID:       "week_broken",
			Title:    "Semana con poco fácil",
			Message:  "Esta semana hay poca proporción de volumen fácil. Prioriza rodajes suaves en los próximos días.",
			Severity: AlertInfo,
		}
	}
	return nil
}
