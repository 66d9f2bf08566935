package analysis

import (
	"testing"
	"time"

	"runsight/internal/store"
)

func evenSplits(activityID int64, n int, elapsed int, hr []float64) []store.Split {
	splits := make([]store.Split, 0, n)
	for i := 0; i < n; i++ {
		s := store.Split{
			ActivityID:  activityID,
			SplitIndex:  i + 1,
			Distance:    1000,
			ElapsedTime: elapsed,
			MovingTime:  elapsed,
		}
		if hr != nil {
			s.AverageHeartrate = floatPtr(hr[i])
		}
		splits = append(splits, s)
	}
	return splits
}

func TestEvaluateBadRunHeartrateAboveExpected(t *testing.T) {
	a := makeRun(1, madrid(2024, time.March, 25, 9, 0), 2400, 3.0)
	a.HasHeartrate = true
	// Easy pace equals the run speed, so expected HR is 190*1.0*0.75
	// = 142.5; anything over 153.9 trips the signal.
	a.AverageHeartrate = floatPtr(160)

	got := EvaluateBadRun(&a, nil, runProfile(3.0, 3.5), nil)

	if got.Severity != BadRunMedium {
		t.Errorf("Severity = %s, want medium (causes %v)", got.Severity, got.Causes)
	}
	assertContains(t, got.Causes, "FC más alta de lo esperado para este ritmo")
	if got.SuggestedAction != "Prioriza recuperación: próximo entreno fácil." {
		t.Errorf("unexpected action %q", got.SuggestedAction)
	}
	if got.Summary == "" {
		t.Error("summary expected when causes exist")
	}
	if !got.HasIssue() {
		t.Error("HasIssue should be true")
	}
}

func TestEvaluateBadRunHeartrateDrift(t *testing.T) {
	a := makeRun(2, madrid(2024, time.March, 25, 9, 0), 2400, 3.0)
	splits := evenSplits(2, 4, 300, []float64{140, 142, 155, 158})

	got := EvaluateBadRun(&a, splits, nil, nil)

	if got.Severity != BadRunMedium {
		t.Errorf("Severity = %s, want medium (causes %v)", got.Severity, got.Causes)
	}
	assertContains(t, got.Causes, "Deriva de FC alta (segunda mitad más exigente)")
}

func TestEvaluateBadRunErraticPace(t *testing.T) {
	a := makeRun(3, madrid(2024, time.March, 25, 9, 0), 2400, 3.0)
	splits := []store.Split{
		{ActivityID: 3, SplitIndex: 1, Distance: 1000, ElapsedTime: 240},
		{ActivityID: 3, SplitIndex: 2, Distance: 1000, ElapsedTime: 360},
		{ActivityID: 3, SplitIndex: 3, Distance: 1000, ElapsedTime: 250},
	}

	got := EvaluateBadRun(&a, splits, nil, nil)

	if got.Severity != BadRunLow {
		t.Errorf("Severity = %s, want low", got.Severity)
	}
	assertContains(t, got.Causes, "Ritmo muy variable entre kilómetros")
	if got.SuggestedAction != "" {
		t.Errorf("low severity should carry no action, got %q", got.SuggestedAction)
	}
	if !got.HasIssue() {
		t.Error("causes without severity still count as an issue")
	}
}

func TestEvaluateBadRunPoorRecovery(t *testing.T) {
	prev := makeRun(4, madrid(2024, time.March, 24, 9, 0), 2400, 3.0)
	prev.AverageHeartrate = floatPtr(150)

	a := makeRun(5, madrid(2024, time.March, 25, 9, 0), 2400, 2.95)
	a.AverageHeartrate = floatPtr(160)

	got := EvaluateBadRun(&a, nil, nil, &prev)

	if got.Severity != BadRunMedium {
		t.Errorf("Severity = %s, want medium (causes %v)", got.Severity, got.Causes)
	}
	assertContains(t, got.Causes, "FC elevada respecto al entrenamiento de ayer")
}

func TestEvaluateBadRunHighSeverity(t *testing.T) {
	a := makeRun(6, madrid(2024, time.March, 25, 9, 0), 2400, 3.0)
	a.HasHeartrate = true
	a.AverageHeartrate = floatPtr(165)
	splits := evenSplits(6, 4, 300, []float64{150, 152, 168, 172})

	got := EvaluateBadRun(&a, splits, runProfile(3.0, 3.5), nil)

	if got.Severity != BadRunHigh {
		t.Errorf("Severity = %s, want high (causes %v)", got.Severity, got.Causes)
	}
	if got.SuggestedAction != "Considera un día de descanso o rodaje muy suave mañana." {
		t.Errorf("unexpected action %q", got.SuggestedAction)
	}
}

func TestEvaluateBadRunNonRun(t *testing.T) {
	a := makeRun(7, madrid(2024, time.March, 25, 9, 0), 3600, 8.0)
	a.SportType = "Ride"
	a.HasHeartrate = true
	a.AverageHeartrate = floatPtr(170)

	got := EvaluateBadRun(&a, nil, runProfile(3.0, 3.5), nil)

	if got.HasIssue() {
		t.Errorf("rides should never flag, got %+v", got)
	}
}
