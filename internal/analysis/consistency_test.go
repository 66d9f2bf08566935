package analysis

import (
	"testing"
	"time"

	"runsight/internal/store"
)

func TestConsistencySteadyFourWeeks(t *testing.T) {
	// Four identical weeks: easy run every Monday, hard run every
	// Thursday. The largest session gap is four days, never more.
	now := madrid(2024, time.March, 28, 12, 0)
	var acts []store.Activity
	id := int64(1)
	for w := 0; w < 4; w++ {
		monday := madrid(2024, time.March, 4+7*w, 9, 0)
		acts = append(acts, makeRun(id, monday, 3000, 2.9))
		id++
		acts = append(acts, makeRun(id, monday.Add(72*time.Hour), 1000, 3.5))
		id++
	}

	got := Consistency(acts, runProfile(3.0, 3.5), now, testCal)

	if got.ConsecutiveWeeks != 4 {
		t.Errorf("ConsecutiveWeeks = %d, want 4", got.ConsecutiveWeeks)
	}
	if got.GapsOver4Days != 0 {
		t.Errorf("GapsOver4Days = %d, want 0", got.GapsOver4Days)
	}
	if got.WeeklyLoadVariation != 0 {
		t.Errorf("WeeklyLoadVariation = %v, want 0", got.WeeklyLoadVariation)
	}
	if !approx(got.EasyHardDeviation, 0) {
		t.Errorf("EasyHardDeviation = %v, want 0", got.EasyHardDeviation)
	}
	// 70 base + 4 streak + 5 no gaps + 5 stable load + 5 balance.
	if got.Score != 89 {
		t.Errorf("Score = %d, want 89", got.Score)
	}
	assertContains(t, got.Reasons, "Racha: 4 semanas")
	assertContains(t, got.Reasons, "Sin huecos largos sin entrenar")
	assertContains(t, got.Reasons, "Carga semanal estable")
	assertContains(t, got.Reasons, "Buena proporción fácil/duro")
}

func TestConsistencyNoActivities(t *testing.T) {
	now := madrid(2024, time.March, 28, 12, 0)
	got := Consistency(nil, nil, now, testCal)

	if got.ConsecutiveWeeks != 0 {
		t.Errorf("ConsecutiveWeeks = %d, want 0", got.ConsecutiveWeeks)
	}
	// 70 base - 20 no streak + 5 no gaps + 5 stable load; the neutral
	// 0.5 easy ratio deviates 0.25 from target, which adjusts nothing.
	if got.Score != 60 {
		t.Errorf("Score = %d, want 60", got.Score)
	}
	assertContains(t, got.Reasons, "Sin racha reciente")
}

func TestConsistencyGapsPenalized(t *testing.T) {
	now := madrid(2024, time.March, 25, 12, 0)
	acts := []store.Activity{
		makeRun(1, madrid(2024, time.March, 1, 9, 0), 3600, 2.9),
		makeRun(2, madrid(2024, time.March, 10, 9, 0), 3600, 2.9),
		makeRun(3, madrid(2024, time.March, 20, 9, 0), 3600, 2.9),
	}

	got := Consistency(acts, nil, now, testCal)

	if got.GapsOver4Days != 2 {
		t.Errorf("GapsOver4Days = %d, want 2", got.GapsOver4Days)
	}
	// Current week is empty, so the streak walks back from the last
	// active week and stops at its empty predecessor.
	if got.ConsecutiveWeeks != 1 {
		t.Errorf("ConsecutiveWeeks = %d, want 1", got.ConsecutiveWeeks)
	}
	// Without a profile no time counts as easy: ratio 0, deviation 0.75.
	// 70 + 0 streak - 10 gaps + 5 stable load - 10 imbalance.
	if got.Score != 55 {
		t.Errorf("Score = %d, want 55", got.Score)
	}
	assertContains(t, got.Reasons, "2 huecos de más de 4 días")
	assertContains(t, got.Reasons, "Proporción fácil/duro desviada")
}

func TestConsistencyScoreClamped(t *testing.T) {
	// A lone session months of gaps apart from others would push the
	// score down; verify it never goes below zero with heavy penalties.
	now := madrid(2024, time.March, 25, 12, 0)
	var acts []store.Activity
	for i := 0; i < 5; i++ {
		acts = append(acts, makeRun(int64(i+1), madrid(2024, time.January, 2+i*14, 9, 0), 3600, 3.5))
	}
	got := Consistency(acts, runProfile(3.0, 3.5), now, testCal)
	if got.Score < 0 || got.Score > 100 {
		t.Errorf("Score = %d, want within 0..100", got.Score)
	}
}
