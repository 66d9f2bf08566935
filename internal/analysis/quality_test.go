package analysis

import (
	"testing"
	"time"

	"runsight/internal/store"
)

func TestEvaluateQuality(t *testing.T) {
	start := madrid(2024, time.March, 25, 9, 0)

	tests := []struct {
		name    string
		setup   func() (*store.Activity, []store.Split)
		checkFn func(t *testing.T, q DataQuality)
	}{
		{
			name: "full run with hr and splits",
			setup: func() (*store.Activity, []store.Split) {
				a := makeRun(1, start, 2400, 2.9)
				a.HasHeartrate = true
				a.AverageHeartrate = floatPtr(148)
				splits := []store.Split{
					{ActivityID: 1, SplitIndex: 1, Distance: 1000, ElapsedTime: 345},
					{ActivityID: 1, SplitIndex: 2, Distance: 1000, ElapsedTime: 350},
				}
				return &a, splits
			},
			checkFn: func(t *testing.T, q DataQuality) {
				if !q.CanUseHeartrateMetrics() || !q.CanUseSplitMetrics() || !q.CanClassify() {
					t.Errorf("all capabilities should be available, got %+v", q)
				}
				if len(q.MissingReasons()) != 0 {
					t.Errorf("no missing reasons expected, got %v", q.MissingReasons())
				}
			},
		},
		{
			name: "hr flag without average is not usable",
			setup: func() (*store.Activity, []store.Split) {
				a := makeRun(2, start, 2400, 2.9)
				a.HasHeartrate = true
				return &a, nil
			},
			checkFn: func(t *testing.T, q DataQuality) {
				if q.HasHeartrate {
					t.Error("heartrate should require an average value")
				}
				assertContains(t, q.MissingReasons(), "No hay datos de frecuencia cardíaca")
			},
		},
		{
			name: "single split is not enough",
			setup: func() (*store.Activity, []store.Split) {
				a := makeRun(3, start, 2400, 2.9)
				return &a, []store.Split{{ActivityID: 3, SplitIndex: 1, Distance: 1000, ElapsedTime: 345}}
			},
			checkFn: func(t *testing.T, q DataQuality) {
				if q.HasSplits {
					t.Error("one split should not count as split data")
				}
				assertContains(t, q.MissingReasons(), "No hay splits por kilómetro")
			},
		},
		{
			name: "too short and too close",
			setup: func() (*store.Activity, []store.Split) {
				a := makeRun(4, start, 400, 2.9)
				a.Distance = 800
				return &a, nil
			},
			checkFn: func(t *testing.T, q DataQuality) {
				if q.CanClassify() {
					t.Error("short run under both minimums should not classify")
				}
				assertContains(t, q.MissingReasons(), "Duración insuficiente para análisis")
				assertContains(t, q.MissingReasons(), "Distancia insuficiente para análisis")
			},
		},
		{
			name: "ride is not a run",
			setup: func() (*store.Activity, []store.Split) {
				a := makeRun(5, start, 3600, 8.0)
				a.SportType = "Ride"
				a.HasHeartrate = true
				a.AverageHeartrate = floatPtr(135)
				return &a, nil
			},
			checkFn: func(t *testing.T, q DataQuality) {
				if q.IsRun || q.CanUseHeartrateMetrics() || q.CanClassify() {
					t.Errorf("ride should disable run analysis, got %+v", q)
				}
				assertContains(t, q.MissingReasons(), "Solo aplicable a actividades de carrera")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, splits := tt.setup()
			tt.checkFn(t, EvaluateQuality(a, splits))
		})
	}
}

func TestIsRunSport(t *testing.T) {
	for _, sport := range []string{"Run", "run", "VirtualRun", "TrailRun", "trailrun"} {
		if !IsRunSport(sport) {
			t.Errorf("IsRunSport(%q) = false, want true", sport)
		}
	}
	for _, sport := range []string{"Ride", "Swim", "Walk", ""} {
		if IsRunSport(sport) {
			t.Errorf("IsRunSport(%q) = true, want false", sport)
		}
	}
}
