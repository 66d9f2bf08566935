package store

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewTestStore()
	if err != nil {
		t.Fatalf("NewTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func floatPtr(f float64) *float64 { return &f }

func makeActivity(id int64, sportType string, start time.Time) *Activity {
	return &Activity{
		ID:           id,
		Name:         "Rodaje",
		SportType:    sportType,
		StartDate:    start,
		Distance:     8000,
		MovingTime:   2400,
		ElapsedTime:  2500,
		AverageSpeed: 8000.0 / 2400,
		MaxSpeed:     4.0,
		HasHeartrate: false,
		SyncedAt:     start.Add(time.Hour),
	}
}

func TestUpsertAndGetActivity(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 3, 25, 6, 0, 0, 0, time.UTC)
	local := time.Date(2024, 3, 25, 7, 0, 0, 0, time.UTC)
	a := makeActivity(1, "Run", start)
	a.StartDateLocal = &local
	a.AverageHeartrate = floatPtr(148)
	a.HasHeartrate = true

	if err := s.UpsertActivity(a); err != nil {
		t.Fatalf("UpsertActivity: %v", err)
	}

	got, err := s.GetActivity(1)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.StartDateLocal == nil || !got.StartDateLocal.Equal(local) {
		t.Errorf("StartDateLocal = %v, want %v", got.StartDateLocal, local)
	}
	if got.AverageHeartrate == nil || *got.AverageHeartrate != 148 {
		t.Errorf("AverageHeartrate = %v, want 148", got.AverageHeartrate)
	}
	if !got.HasHeartrate {
		t.Error("HasHeartrate should round-trip as true")
	}

	// Upsert with the same ID replaces
	a.Name = "Rodaje suave"
	if err := s.UpsertActivity(a); err != nil {
		t.Fatalf("second UpsertActivity: %v", err)
	}
	got, err = s.GetActivity(1)
	if err != nil {
		t.Fatalf("GetActivity after upsert: %v", err)
	}
	if got.Name != "Rodaje suave" {
		t.Errorf("Name = %q, want %q", got.Name, "Rodaje suave")
	}
	count, err := s.CountActivities()
	if err != nil {
		t.Fatalf("CountActivities: %v", err)
	}
	if count != 1 {
		t.Errorf("CountActivities = %d, want 1", count)
	}
}

func TestGetActivityNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetActivity(42)
	if !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("GetActivity(42) error = %v, want ErrActivityNotFound", err)
	}
}

func TestRecentRunningActivitiesFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, sport := range []string{"Run", "Ride", "TrailRun", "VirtualRun", "Swim"} {
		a := makeActivity(int64(i+1), sport, base.AddDate(0, 0, i))
		if err := s.UpsertActivity(a); err != nil {
			t.Fatalf("UpsertActivity(%d): %v", i+1, err)
		}
	}

	runs, err := s.RecentRunningActivities(10)
	if err != nil {
		t.Fatalf("RecentRunningActivities: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	// Newest first: VirtualRun (day 3), TrailRun (day 2), Run (day 0)
	wantIDs := []int64{4, 3, 1}
	for i, want := range wantIDs {
		if runs[i].ID != want {
			t.Errorf("runs[%d].ID = %d, want %d", i, runs[i].ID, want)
		}
	}

	limited, err := s.RecentRunningActivities(2)
	if err != nil {
		t.Fatalf("RecentRunningActivities limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d rows", len(limited))
	}
}

func TestReplaceLapsAndSplits(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 3, 25, 6, 0, 0, 0, time.UTC)
	if err := s.UpsertActivity(makeActivity(7, "Run", start)); err != nil {
		t.Fatalf("UpsertActivity: %v", err)
	}

	name := "Serie 1"
	laps := []Lap{
		{ActivityID: 7, LapIndex: 1, Name: &name, Distance: 1000, MovingTime: 240, ElapsedTime: 250, AverageSpeed: 1000.0 / 240},
		{ActivityID: 7, LapIndex: 2, Distance: 1000, MovingTime: 245, ElapsedTime: 255, AverageSpeed: 1000.0 / 245},
	}
	if err := s.ReplaceLaps(7, laps); err != nil {
		t.Fatalf("ReplaceLaps: %v", err)
	}
	gotLaps, err := s.LapsForActivity(7)
	if err != nil {
		t.Fatalf("LapsForActivity: %v", err)
	}
	if len(gotLaps) != 2 {
		t.Fatalf("got %d laps, want 2", len(gotLaps))
	}
	if gotLaps[0].Name == nil || *gotLaps[0].Name != "Serie 1" {
		t.Errorf("lap name = %v, want Serie 1", gotLaps[0].Name)
	}
	if gotLaps[1].Name != nil {
		t.Errorf("unnamed lap should stay nil, got %v", *gotLaps[1].Name)
	}

	// Replacing drops the previous set
	if err := s.ReplaceLaps(7, laps[:1]); err != nil {
		t.Fatalf("second ReplaceLaps: %v", err)
	}
	gotLaps, _ = s.LapsForActivity(7)
	if len(gotLaps) != 1 {
		t.Errorf("after replace got %d laps, want 1", len(gotLaps))
	}

	splits := []Split{
		{ActivityID: 7, SplitIndex: 1, Distance: 1000, MovingTime: 300, ElapsedTime: 305, AverageSpeed: 1000.0 / 300, AverageHeartrate: floatPtr(150), ElevationDifference: 12},
		{ActivityID: 7, SplitIndex: 2, Distance: 290, MovingTime: 85, ElapsedTime: 89, AverageSpeed: 290.0 / 85, ElevationDifference: -3},
	}
	if err := s.ReplaceSplits(7, splits); err != nil {
		t.Fatalf("ReplaceSplits: %v", err)
	}
	gotSplits, err := s.SplitsForActivity(7)
	if err != nil {
		t.Fatalf("SplitsForActivity: %v", err)
	}
	if len(gotSplits) != 2 {
		t.Fatalf("got %d splits, want 2", len(gotSplits))
	}
	if gotSplits[0].AverageHeartrate == nil || *gotSplits[0].AverageHeartrate != 150 {
		t.Errorf("split HR = %v, want 150", gotSplits[0].AverageHeartrate)
	}
	if gotSplits[1].ElevationDifference != -3 {
		t.Errorf("split elevation = %v, want -3", gotSplits[1].ElevationDifference)
	}
}

func TestLapsCascadeOnActivityDelete(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 3, 25, 6, 0, 0, 0, time.UTC)
	if err := s.UpsertActivity(makeActivity(9, "Run", start)); err != nil {
		t.Fatalf("UpsertActivity: %v", err)
	}
	if err := s.ReplaceLaps(9, []Lap{{ActivityID: 9, LapIndex: 1, Distance: 400, MovingTime: 90, ElapsedTime: 92}}); err != nil {
		t.Fatalf("ReplaceLaps: %v", err)
	}

	if err := s.DeleteAllData(); err != nil {
		t.Fatalf("DeleteAllData: %v", err)
	}
	laps, err := s.LapsForActivity(9)
	if err != nil {
		t.Fatalf("LapsForActivity: %v", err)
	}
	if len(laps) != 0 {
		t.Errorf("laps should cascade on delete, got %d", len(laps))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ProfileForSport("Run"); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}

	p := &RunnerProfile{
		SportType:         "Run",
		EasyPaceMs:        2.8,
		ThresholdPaceMs:   3.4,
		WeeklyVariability: 0.25,
		EasyHardRatio:     0.72,
		Confidence:        0.6,
		LastComputedAt:    time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC),
	}
	if err := s.ReplaceProfile(p); err != nil {
		t.Fatalf("ReplaceProfile: %v", err)
	}

	got, err := s.ProfileForSport("Run")
	if err != nil {
		t.Fatalf("ProfileForSport: %v", err)
	}
	if got.EasyPaceMs != 2.8 || got.ThresholdPaceMs != 3.4 {
		t.Errorf("profile paces = %v/%v, want 2.8/3.4", got.EasyPaceMs, got.ThresholdPaceMs)
	}
	if !got.LastComputedAt.Equal(p.LastComputedAt) {
		t.Errorf("LastComputedAt = %v, want %v", got.LastComputedAt, p.LastComputedAt)
	}

	// Replace keeps a single row
	p.EasyPaceMs = 2.9
	if err := s.ReplaceProfile(p); err != nil {
		t.Fatalf("second ReplaceProfile: %v", err)
	}
	got, _ = s.ProfileForSport("Run")
	if got.EasyPaceMs != 2.9 {
		t.Errorf("EasyPaceMs after replace = %v, want 2.9", got.EasyPaceMs)
	}
}

func TestReflectionClampsFeelingScore(t *testing.T) {
	s := newTestStore(t)

	start := time.Date(2024, 3, 25, 6, 0, 0, 0, time.UTC)
	if err := s.UpsertActivity(makeActivity(3, "Run", start)); err != nil {
		t.Fatalf("UpsertActivity: %v", err)
	}

	r := &Reflection{ActivityID: 3, Date: start, FeelingScore: 9, PushedTooHard: true}
	if err := s.UpsertReflection(r); err != nil {
		t.Fatalf("UpsertReflection: %v", err)
	}
	got, err := s.ReflectionForActivity(3)
	if err != nil {
		t.Fatalf("ReflectionForActivity: %v", err)
	}
	if got == nil {
		t.Fatal("reflection missing")
	}
	if got.FeelingScore != 5 {
		t.Errorf("FeelingScore = %d, want clamped 5", got.FeelingScore)
	}
	if !got.PushedTooHard {
		t.Error("PushedTooHard should round-trip as true")
	}

	missing, err := s.ReflectionForActivity(99)
	if err != nil {
		t.Fatalf("ReflectionForActivity(99): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil reflection for unknown activity, got %+v", missing)
	}
}

func TestSyncState(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSyncState("last_import_at")
	if err != nil {
		t.Fatalf("GetSyncState: %v", err)
	}
	if v != "" {
		t.Errorf("missing key should return empty string, got %q", v)
	}

	if err := s.SetSyncState("last_import_at", "2024-03-25T10:00:00Z"); err != nil {
		t.Fatalf("SetSyncState: %v", err)
	}
	if err := s.SetSyncState("last_import_at", "2024-03-26T10:00:00Z"); err != nil {
		t.Fatalf("SetSyncState update: %v", err)
	}
	v, _ = s.GetSyncState("last_import_at")
	if v != "2024-03-26T10:00:00Z" {
		t.Errorf("GetSyncState = %q, want updated value", v)
	}
}
