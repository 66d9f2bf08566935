package service

import (
	"errors"
	"sort"

	"runsight/internal/analysis"
	"runsight/internal/calendar"
	"runsight/internal/clock"
	"runsight/internal/store"
)

// IntelligenceService composes the stored history with the pure
// analyzers. All date arithmetic goes through the Madrid calendar and
// the injected clock, so results are reproducible in tests.
type IntelligenceService struct {
	store *store.Store
	clock clock.Clock
	cal   *calendar.Calendar
}

// NewIntelligenceService creates an intelligence service.
func NewIntelligenceService(st *store.Store, clk clock.Clock, cal *calendar.Calendar) *IntelligenceService {
	return &IntelligenceService{store: st, clock: clk, cal: cal}
}

// Insights is everything the dashboard needs for one render.
type Insights struct {
	Profile     *store.RunnerProfile
	Consistency analysis.ConsistencyBreakdown
	Fatigue     analysis.FatigueDiagnosis
	Trend       analysis.EfficiencyTrendResult
	Peak        analysis.SuspiciousPeakResult
	Alerts      []analysis.Alert
	Suggestion  analysis.Suggestion
	Narrative   string
	Week        analysis.WeekSummary
}

// Insights runs the full analyzer chain over the stored history. The
// profile refreshes first because almost everything downstream reads
// it; analyzer inputs that fail to load degrade to empty instead of
// aborting the render.
func (s *IntelligenceService) Insights() (*Insights, error) {
	now := s.clock.Now()

	all, err := s.store.AllActivities()
	if err != nil {
		return nil, err
	}
	var runs []store.Activity
	for _, a := range all {
		if analysis.IsRunSport(a.SportType) {
			runs = append(runs, a)
		}
	}

	profile, err := s.RecomputeProfileIfNeeded()
	if err != nil {
		profile = nil
	}
	if profile != nil && !profile.IsValid() {
		profile = nil
	}

	reflections, err := s.store.AllReflections()
	if err != nil {
		reflections = nil
	}

	fatigue := analysis.Fatigue(runs, profile, reflections, now, s.cal)
	trend := analysis.EfficiencyTrend(runs, &fatigue, now, s.cal)
	consistency := analysis.Consistency(runs, profile, now, s.cal)
	peak := analysis.SuspiciousPeak(runs, now, s.cal)
	alerts := analysis.SilentAlerts(runs, profile, &trend, &fatigue, now, s.cal)
	suggestion := analysis.SuggestNextWorkout(runs, profile, &fatigue, now, s.cal)

	weekStart := s.cal.StartOfWeek(now)
	weekEnd := s.cal.StartOfNextWeek(now)
	var weekRuns []store.Activity
	for _, a := range runs {
		if !a.StartDate.Before(weekStart) && a.StartDate.Before(weekEnd) {
			weekRuns = append(weekRuns, a)
		}
	}
	narrative := analysis.WeeklyNarrative(weekRuns, profile, &consistency, &fatigue, trend.Direction, s.cal)
	week := analysis.SummarizeWeek(now, runs, profile, s.cal)

	return &Insights{
		Profile:     profile,
		Consistency: consistency,
		Fatigue:     fatigue,
		Trend:       trend,
		Peak:        peak,
		Alerts:      alerts,
		Suggestion:  suggestion,
		Narrative:   narrative,
		Week:        week,
	}, nil
}

// RecomputeProfileIfNeeded returns the stored profile when it is still
// fresh, recomputing it otherwise. A nil profile with nil error means
// there is not enough history yet.
func (s *IntelligenceService) RecomputeProfileIfNeeded() (*store.RunnerProfile, error) {
	p, err := s.store.ProfileForSport(ProfileSport)
	if errors.Is(err, store.ErrNoProfile) {
		return s.RecomputeProfile()
	}
	if err != nil {
		return nil, err
	}
	if s.cal.DaysBetween(p.LastComputedAt, s.clock.Now()) < analysis.ProfileRecomputeIntervalDays {
		return p, nil
	}
	return s.RecomputeProfile()
}

// RecomputeProfile rebuilds the runner profile from the full history
// and persists it. With fewer runs than the minimum the stored profile
// is dropped and nil is returned.
func (s *IntelligenceService) RecomputeProfile() (*store.RunnerProfile, error) {
	all, err := s.store.AllActivities()
	if err != nil {
		return nil, err
	}
	p, ok := analysis.ComputeProfile(all, s.cal)
	if !ok {
		if err := s.store.DeleteProfile(ProfileSport); err != nil {
			return nil, err
		}
		return nil, nil
	}
	p.LastComputedAt = s.clock.Now()
	if err := s.store.ReplaceProfile(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ActivityEvaluation is the per-activity analysis bundle.
type ActivityEvaluation struct {
	Activity       store.Activity
	Splits         []store.Split
	Laps           []store.Lap
	Quality        analysis.DataQuality
	Classification analysis.Classification
	BadRun         analysis.BadRunInsight
}

// EvaluateActivity classifies one activity and checks it for bad-run
// signals, comparing against the previous day's run when one exists.
func (s *IntelligenceService) EvaluateActivity(id int64) (*ActivityEvaluation, error) {
	a, err := s.store.GetActivity(id)
	if err != nil {
		return nil, err
	}
	splits, err := s.store.SplitsForActivity(id)
	if err != nil {
		return nil, err
	}
	laps, err := s.store.LapsForActivity(id)
	if err != nil {
		return nil, err
	}

	profile := s.storedProfile()
	easy, threshold := 0.0, 0.0
	if profile != nil {
		easy = profile.EasyPaceMs
		threshold = profile.ThresholdPaceMs
	}

	previous, err := s.previousDayRun(a)
	if err != nil {
		previous = nil
	}

	return &ActivityEvaluation{
		Activity:       *a,
		Splits:         splits,
		Laps:           laps,
		Quality:        analysis.EvaluateQuality(a, splits),
		Classification: analysis.Classify(a, splits, laps, easy, threshold),
		BadRun:         analysis.EvaluateBadRun(a, splits, profile, previous),
	}, nil
}

// previousDayRun finds the latest run started exactly one Madrid day
// before the given activity.
func (s *IntelligenceService) previousDayRun(a *store.Activity) (*store.Activity, error) {
	recent, err := s.store.RecentRunningActivities(RecentRunsLimit)
	if err != nil {
		return nil, err
	}
	var best *store.Activity
	for i := range recent {
		r := recent[i]
		if r.ID == a.ID {
			continue
		}
		if s.cal.DaysBetween(r.StartDate, a.StartDate) != 1 {
			continue
		}
		if best == nil || r.StartDate.After(best.StartDate) {
			best = &r
		}
	}
	return best, nil
}

// ThisWeekRuns returns the current Madrid week's running activities,
// newest first.
func (s *IntelligenceService) ThisWeekRuns() ([]store.Activity, error) {
	recent, err := s.store.RecentRunningActivities(RecentRunsLimit)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	weekStart := s.cal.StartOfWeek(now)
	weekEnd := s.cal.StartOfNextWeek(now)

	var runs []store.Activity
	for _, a := range recent {
		if !a.StartDate.Before(weekStart) && a.StartDate.Before(weekEnd) {
			runs = append(runs, a)
		}
	}
	return runs, nil
}

// RecentRuns returns the latest running activities, newest first.
func (s *IntelligenceService) RecentRuns(limit int) ([]store.Activity, error) {
	return s.store.RecentRunningActivities(limit)
}

// CompareCurrentWeek finds a structurally equivalent past week under
// the criterion and generates the comparison insights. Returns nil when
// no past week qualifies.
func (s *IntelligenceService) CompareCurrentWeek(criterion analysis.WeekCriterion) (*analysis.WeekComparison, error) {
	all, err := s.store.AllActivities()
	if err != nil {
		return nil, err
	}
	profile := s.storedProfile()
	now := s.clock.Now()

	current := analysis.SummarizeWeek(now, all, profile, s.cal)
	past := analysis.PastWeekSummaries(all, profile, analysis.MaxWeeksToSearch, s.cal)

	filtered := past[:0:0]
	for _, w := range past {
		if !w.WeekStart.Equal(current.WeekStart) {
			filtered = append(filtered, w)
		}
	}

	reference := analysis.FindEquivalentWeek(current, filtered, criterion)
	if reference == nil {
		return nil, nil
	}
	return &analysis.WeekComparison{
		Current:   current,
		Reference: *reference,
		Criterion: criterion,
		Insights:  analysis.CompareWeeks(current, *reference),
	}, nil
}

// WeeklyVolumes returns up to ChartWeeks week summaries, oldest first,
// for the volume chart.
func (s *IntelligenceService) WeeklyVolumes() ([]analysis.WeekSummary, error) {
	all, err := s.store.AllActivities()
	if err != nil {
		return nil, err
	}
	weeks := analysis.PastWeekSummaries(all, s.storedProfile(), ChartWeeks, s.cal)
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart.Before(weeks[j].WeekStart) })
	return weeks, nil
}

// CurrentWeekMetrics reduces this week's runs to the numbers the
// simulator starts from: distinct training days, total hours and the
// count of hard sessions.
func (s *IntelligenceService) CurrentWeekMetrics() (days int, hours float64, hard int, err error) {
	runs, err := s.ThisWeekRuns()
	if err != nil {
		return 0, 0, 0, err
	}
	profile := s.storedProfile()
	easy := 0.0
	if profile != nil {
		easy = profile.EasyPaceMs
	}

	seen := make(map[int64]bool)
	for _, a := range runs {
		seen[s.cal.StartOfDay(a.StartDate).Unix()] = true
		hours += float64(a.MovingTime) / 3600
		if easy > 0 && a.AverageSpeed > easy*1.08 {
			hard++
		}
	}
	return len(seen), hours, hard, nil
}

// Simulate projects a what-if scenario against the current week.
func (s *IntelligenceService) Simulate(input analysis.SimulatorInput) (analysis.SimulatorResult, error) {
	days, hours, hard, err := s.CurrentWeekMetrics()
	if err != nil {
		return analysis.SimulatorResult{}, err
	}
	return analysis.Simulate(days, hours, hard, input), nil
}

// RecordReflection stores the subjective feedback for an activity,
// dated at the activity's start.
func (s *IntelligenceService) RecordReflection(activityID int64, feelingScore int, pushedTooHard, wouldRepeatToday bool) error {
	a, err := s.store.GetActivity(activityID)
	if err != nil {
		return err
	}
	return s.store.UpsertReflection(&store.Reflection{
		ActivityID:       activityID,
		Date:             a.StartDate,
		FeelingScore:     feelingScore,
		PushedTooHard:    pushedTooHard,
		WouldRepeatToday: wouldRepeatToday,
	})
}

// storedProfile reads the persisted profile without recomputing,
// returning nil unless it exists and is usable.
func (s *IntelligenceService) storedProfile() *store.RunnerProfile {
	p, err := s.store.ProfileForSport(ProfileSport)
	if err != nil || !p.IsValid() {
		return nil
	}
	return p
}
