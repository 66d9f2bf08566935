package analysis

import (
	"testing"
	"time"

	"runsight/internal/calendar"
	"runsight/internal/store"
)

var testCal = calendar.Madrid()

// madrid builds an instant from Madrid wall-clock components.
func madrid(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, testCal.Location())
}

func floatPtr(f float64) *float64 { return &f }

// makeRun builds a run of the given moving time and average speed;
// distance follows from both.
func makeRun(id int64, start time.Time, movingTime int, speed float64) store.Activity {
	return store.Activity{
		ID:           id,
		Name:         "Rodaje",
		SportType:    "Run",
		StartDate:    start,
		Distance:     speed * float64(movingTime),
		MovingTime:   movingTime,
		ElapsedTime:  movingTime,
		AverageSpeed: speed,
		MaxSpeed:     speed * 1.2,
		SyncedAt:     start,
	}
}

func runProfile(easy, threshold float64) *store.RunnerProfile {
	return &store.RunnerProfile{
		SportType:       "Run",
		EasyPaceMs:      easy,
		ThresholdPaceMs: threshold,
		Confidence:      0.6,
		LastComputedAt:  madrid(2024, time.March, 20, 10, 0),
	}
}

func approx(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func assertContains(t *testing.T, haystack []string, want string) {
	t.Helper()
	for _, s := range haystack {
		if s == want {
			return
		}
	}
	t.Errorf("missing %q in %v", want, haystack)
}
