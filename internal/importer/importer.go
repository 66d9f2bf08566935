// Package importer loads activity JSON files into the local store.
// Files carry full activity detail with nested laps and kilometer
// splits, as produced by the companion sync tooling.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"runsight/internal/clock"
	"runsight/internal/store"
)

// SyncKeyLastImport is the sync_state key recording the last import.
const SyncKeyLastImport = "last_import_at"

// Activity is the wire form of one activity.
type Activity struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	SportType          string     `json:"sport_type"`
	StartDate          time.Time  `json:"start_date"`
	StartDateLocal     *time.Time `json:"start_date_local"`
	Distance           float64    `json:"distance"`             // meters
	MovingTime         int        `json:"moving_time"`          // seconds
	ElapsedTime        int        `json:"elapsed_time"`         // seconds
	TotalElevationGain float64    `json:"total_elevation_gain"` // meters
	AverageSpeed       float64    `json:"average_speed"`        // m/s
	MaxSpeed           float64    `json:"max_speed"`            // m/s
	AverageHeartrate   *float64   `json:"average_heartrate"`
	MaxHeartrate       *float64   `json:"max_heartrate"`
	AverageWatts       *float64   `json:"average_watts"`
	DeviceName         *string    `json:"device_name"`
	Description        *string    `json:"description"`
	HasHeartrate       bool       `json:"has_heartrate"`
	Laps               []Lap      `json:"laps"`
	SplitsMetric       []Split    `json:"splits_metric"`
}

// Lap is the wire form of a manually marked lap.
type Lap struct {
	Name               *string  `json:"name"`
	Distance           float64  `json:"distance"`
	MovingTime         int      `json:"moving_time"`
	ElapsedTime        int      `json:"elapsed_time"`
	AverageSpeed       float64  `json:"average_speed"`
	MaxSpeed           float64  `json:"max_speed"`
	AverageHeartrate   *float64 `json:"average_heartrate"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
}

// Split is the wire form of an automatic kilometer split.
type Split struct {
	Distance            float64  `json:"distance"`
	MovingTime          int      `json:"moving_time"`
	ElapsedTime         int      `json:"elapsed_time"`
	AverageSpeed        float64  `json:"average_speed"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
	ElevationDifference float64  `json:"elevation_difference"`
	PaceZone            *int     `json:"pace_zone"`
}

// Importer writes activity files into the store.
type Importer struct {
	store *store.Store
	clock clock.Clock
}

// New creates an importer.
func New(st *store.Store, clk clock.Clock) *Importer {
	return &Importer{store: st, clock: clk}
}

// ImportFile reads a JSON array of activities from path and upserts
// everything, returning how many activities were imported.
func (im *Importer) ImportFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	var activities []Activity
	if err := json.Unmarshal(data, &activities); err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return im.Import(activities)
}

// Import upserts the activities with their laps and splits, then
// records the import time in sync_state. Re-importing the same file is
// safe: rows are replaced, never duplicated.
func (im *Importer) Import(activities []Activity) (int, error) {
	imported := 0
	for _, in := range activities {
		if in.ID == 0 {
			return imported, fmt.Errorf("activity %q has no id", in.Name)
		}

		a := toStoreActivity(in, im.clock.Now())
		if err := im.store.UpsertActivity(a); err != nil {
			return imported, fmt.Errorf("upserting activity %d: %w", in.ID, err)
		}
		if len(in.Laps) > 0 {
			if err := im.store.ReplaceLaps(in.ID, toStoreLaps(in.ID, in.Laps)); err != nil {
				return imported, fmt.Errorf("replacing laps for %d: %w", in.ID, err)
			}
		}
		if len(in.SplitsMetric) > 0 {
			if err := im.store.ReplaceSplits(in.ID, toStoreSplits(in.ID, in.SplitsMetric)); err != nil {
				return imported, fmt.Errorf("replacing splits for %d: %w", in.ID, err)
			}
		}
		imported++
	}

	stamp := im.clock.Now().UTC().Format(time.RFC3339)
	if err := im.store.SetSyncState(SyncKeyLastImport, stamp); err != nil {
		return imported, fmt.Errorf("recording import time: %w", err)
	}
	return imported, nil
}

func toStoreActivity(in Activity, now time.Time) *store.Activity {
	speed := in.AverageSpeed
	if speed == 0 && in.MovingTime > 0 {
		speed = in.Distance / float64(in.MovingTime)
	}
	return &store.Activity{
		ID:                 in.ID,
		Name:               in.Name,
		SportType:          in.SportType,
		StartDate:          in.StartDate,
		StartDateLocal:     in.StartDateLocal,
		Distance:           in.Distance,
		MovingTime:         in.MovingTime,
		ElapsedTime:        in.ElapsedTime,
		TotalElevationGain: in.TotalElevationGain,
		AverageSpeed:       speed,
		MaxSpeed:           in.MaxSpeed,
		AverageHeartrate:   in.AverageHeartrate,
		MaxHeartrate:       in.MaxHeartrate,
		AverageWatts:       in.AverageWatts,
		DeviceName:         in.DeviceName,
		Description:        in.Description,
		HasHeartrate:       in.HasHeartrate,
		HasLaps:            len(in.Laps) > 0,
		HasSplits:          len(in.SplitsMetric) > 0,
		DetailsFetched:     true,
		SyncedAt:           now,
	}
}

func toStoreLaps(activityID int64, laps []Lap) []store.Lap {
	out := make([]store.Lap, 0, len(laps))
	for i, l := range laps {
		out = append(out, store.Lap{
			ActivityID:         activityID,
			LapIndex:           i + 1,
			Name:               l.Name,
			Distance:           l.Distance,
			MovingTime:         l.MovingTime,
			ElapsedTime:        l.ElapsedTime,
			AverageSpeed:       l.AverageSpeed,
			MaxSpeed:           l.MaxSpeed,
			AverageHeartrate:   l.AverageHeartrate,
			TotalElevationGain: l.TotalElevationGain,
		})
	}
	return out
}

func toStoreSplits(activityID int64, splits []Split) []store.Split {
	out := make([]store.Split, 0, len(splits))
	for i, s := range splits {
		out = append(out, store.Split{
			ActivityID:          activityID,
			SplitIndex:          i + 1,
			Distance:            s.Distance,
			MovingTime:          s.MovingTime,
			ElapsedTime:         s.ElapsedTime,
			AverageSpeed:        s.AverageSpeed,
			AverageHeartrate:    s.AverageHeartrate,
			ElevationDifference: s.ElevationDifference,
			PaceZone:            s.PaceZone,
		})
	}
	return out
}
