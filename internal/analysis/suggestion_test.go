package analysis

import (
	"testing"
	"time"

	"runsight/internal/store"
)

func TestSuggestNextWorkout(t *testing.T) {
	now := madrid(2024, time.March, 28, 18, 0)
	profile := runProfile(3.0, 3.5)
	lowFatigue := &FatigueDiagnosis{Level: FatigueLow}

	tests := []struct {
		name     string
		setup    func() ([]store.Activity, *FatigueDiagnosis)
		wantText string
	}{
		{
			name: "high fatigue forces easy z2",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 27, 9, 0), 2400, 2.9)}
				return acts, &FatigueDiagnosis{Level: FatigueHigh}
			},
			wantText: "Modo mantenimiento. Rodaje 35–50' en Z2, terreno llano. Motivo: fatiga acumulada. Prioriza recuperación.",
		},
		{
			name: "two hard sessions force easy z2",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{
					makeRun(1, madrid(2024, time.March, 26, 9, 0), 2400, 3.5),
					makeRun(2, madrid(2024, time.March, 27, 9, 0), 2400, 3.5),
				}
				return acts, lowFatigue
			},
			wantText: "Modo mantenimiento. Rodaje 35–50' en Z2, terreno llano. Motivo: varias sesiones intensas recientes. Prioriza recuperación.",
		},
		{
			name: "medium fatigue with little easy volume",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 27, 9, 0), 2400, 3.5)}
				return acts, &FatigueDiagnosis{Level: FatigueMedium}
			},
			wantText: "Modo mantenimiento. Rodaje 40–55' fácil, terreno llano. Motivo: fatiga moderada y baja proporción de volumen fácil.",
		},
		{
			name: "long layoff comes back slowly",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 22, 9, 0), 2400, 2.9)}
				return acts, lowFatigue
			},
			wantText: "Modo mantenimiento. Rodaje 35–50' a ritmo moderado. Motivo: varios días sin entrenar; no forzar.",
		},
		{
			name: "short gap resumes with easy volume",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 25, 9, 0), 2400, 2.9)}
				return acts, lowFatigue
			},
			wantText: "Modo mantenimiento. Rodaje 40–60' en Z2. Motivo: retomar con volumen fácil.",
		},
		{
			name: "skewed ratio compensated with easy running",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 27, 9, 0), 2400, 3.5)}
				return acts, lowFatigue
			},
			wantText: "Modo mantenimiento. Rodaje 45–60' fácil. Motivo: compensar proporción fácil/duro.",
		},
		{
			name: "steady week keeps the base",
			setup: func() ([]store.Activity, *FatigueDiagnosis) {
				acts := []store.Activity{makeRun(1, madrid(2024, time.March, 27, 9, 0), 2400, 2.9)}
				return acts, lowFatigue
			},
			wantText: "Modo mantenimiento. Rodaje 40–55' en Z2, terreno llano. Motivo: mantener base y consistencia.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts, fatigue := tt.setup()
			got := SuggestNextWorkout(acts, profile, fatigue, now, testCal)
			if got.FullText != tt.wantText {
				t.Errorf("FullText = %q, want %q", got.FullText, tt.wantText)
			}
			if got.Reason == "" || got.Reason[:len(maintenancePrefix)] != maintenancePrefix {
				t.Errorf("Reason %q should carry the maintenance prefix", got.Reason)
			}
		})
	}
}

func TestSuggestNextWorkoutNoRecentRuns(t *testing.T) {
	now := madrid(2024, time.March, 28, 18, 0)
	got := SuggestNextWorkout(nil, nil, nil, now, testCal)
	if got.Type != "Rodaje Z2" || got.DurationMin != 40 || got.DurationMax != 55 {
		t.Errorf("empty history should fall through to the base suggestion, got %+v", got)
	}
}
