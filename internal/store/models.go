package store

import "time"

// Activity is one recorded session. Distances are meters, times are
// seconds, speeds are m/s. StartDate is UTC; StartDateLocal carries the
// recording device's wall clock (stored with a UTC offset so the wall
// clock round-trips unchanged).
type Activity struct {
	ID                 int64
	Name               string
	SportType          string
	StartDate          time.Time
	StartDateLocal     *time.Time
	Distance           float64
	MovingTime         int
	ElapsedTime        int
	TotalElevationGain float64
	AverageSpeed       float64
	MaxSpeed           float64
	AverageHeartrate   *float64
	MaxHeartrate       *float64
	AverageWatts       *float64
	DeviceName         *string
	Description        *string
	HasHeartrate       bool
	HasLaps            bool
	HasSplits          bool
	DetailsFetched     bool
	SyncedAt           time.Time
}

// DistanceKm returns the distance in kilometers.
func (a *Activity) DistanceKm() float64 {
	return a.Distance / 1000
}

// PaceSecPerKm returns the average pace in seconds per kilometer,
// or 0 when the average speed is missing.
func (a *Activity) PaceSecPerKm() float64 {
	if a.AverageSpeed <= 0 {
		return 0
	}
	return 1000 / a.AverageSpeed
}

// Lap is a manually marked segment of an activity.
type Lap struct {
	ActivityID         int64
	LapIndex           int
	Name               *string
	Distance           float64
	MovingTime         int
	ElapsedTime        int
	AverageSpeed       float64
	MaxSpeed           float64
	AverageHeartrate   *float64
	TotalElevationGain float64
}

// Split is an automatic per-kilometer segment of an activity.
type Split struct {
	ActivityID          int64
	SplitIndex          int
	Distance            float64
	MovingTime          int
	ElapsedTime         int
	AverageSpeed        float64
	AverageHeartrate    *float64
	ElevationDifference float64
	PaceZone            *int
}

// RunnerProfile holds the derived training profile for one sport type.
// Paces are speeds in m/s.
type RunnerProfile struct {
	SportType         string
	EasyPaceMs        float64
	ThresholdPaceMs   float64
	WeeklyVariability float64
	EasyHardRatio     float64
	Confidence        float64
	LastComputedAt    time.Time
}

// IsValid reports whether the profile is usable by the analyzers.
func (p *RunnerProfile) IsValid() bool {
	return p.EasyPaceMs > 0 && p.ThresholdPaceMs > 0 && p.Confidence >= 0.3
}

// EasyPaceSecPerKm converts the easy speed to seconds per kilometer.
func (p *RunnerProfile) EasyPaceSecPerKm() float64 {
	if p.EasyPaceMs <= 0 {
		return 0
	}
	return 1000 / p.EasyPaceMs
}

// ThresholdPaceSecPerKm converts the threshold speed to seconds per kilometer.
func (p *RunnerProfile) ThresholdPaceSecPerKm() float64 {
	if p.ThresholdPaceMs <= 0 {
		return 0
	}
	return 1000 / p.ThresholdPaceMs
}

// Reflection is a subjective post-activity note. FeelingScore is 1..5.
type Reflection struct {
	ActivityID       int64
	Date             time.Time
	FeelingScore     int
	PushedTooHard    bool
	WouldRepeatToday bool
}
