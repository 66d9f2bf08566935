package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const activityColumns = `id, name, sport_type, start_date, start_date_local,
	distance, moving_time, elapsed_time, total_elevation_gain,
	average_speed, max_speed, average_heartrate, max_heartrate,
	average_watts, device_name, description,
	has_heartrate, has_laps, has_splits, details_fetched, synced_at`

// UpsertActivity inserts or updates an activity
func (s *Store) UpsertActivity(a *Activity) error {
	_, err := s.db.Exec(`
		INSERT INTO activities (
			id, name, sport_type, start_date, start_date_local,
			distance, moving_time, elapsed_time, total_elevation_gain,
			average_speed, max_speed, average_heartrate, max_heartrate,
			average_watts, device_name, description,
			has_heartrate, has_laps, has_splits, details_fetched, synced_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sport_type = excluded.sport_type,
			start_date = excluded.start_date,
			start_date_local = excluded.start_date_local,
			distance = excluded.distance,
			moving_time = excluded.moving_time,
			elapsed_time = excluded.elapsed_time,
			total_elevation_gain = excluded.total_elevation_gain,
			average_speed = excluded.average_speed,
			max_speed = excluded.max_speed,
			average_heartrate = excluded.average_heartrate,
			max_heartrate = excluded.max_heartrate,
			average_watts = excluded.average_watts,
			device_name = excluded.device_name,
			description = excluded.description,
			has_heartrate = excluded.has_heartrate,
			has_laps = excluded.has_laps,
			has_splits = excluded.has_splits,
			details_fetched = excluded.details_fetched,
			synced_at = excluded.synced_at,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, a.SportType,
		a.StartDate.UTC().Format(time.RFC3339), ptrTimeToNullString(a.StartDateLocal),
		a.Distance, a.MovingTime, a.ElapsedTime, a.TotalElevationGain,
		a.AverageSpeed, a.MaxSpeed,
		ptrToNullFloat64(a.AverageHeartrate), ptrToNullFloat64(a.MaxHeartrate),
		ptrToNullFloat64(a.AverageWatts), ptrToNullString(a.DeviceName), ptrToNullString(a.Description),
		boolToInt(a.HasHeartrate), boolToInt(a.HasLaps), boolToInt(a.HasSplits),
		boolToInt(a.DetailsFetched), a.SyncedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// GetActivity retrieves an activity by ID
func (s *Store) GetActivity(id int64) (*Activity, error) {
	row := s.db.QueryRow(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE id = ?
	`, id)

	a, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	return a, err
}

// RecentRunningActivities returns running activities ordered newest
// first, at most limit rows. Run sport types are matched
// case-insensitively (Run, VirtualRun, TrailRun).
func (s *Store) RecentRunningActivities(limit int) ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT `+activityColumns+`
		FROM activities
		WHERE lower(sport_type) IN ('run', 'virtualrun', 'trailrun')
		ORDER BY start_date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// AllActivities returns every activity ordered newest first.
func (s *Store) AllActivities() ([]Activity, error) {
	rows, err := s.db.Query(`
		SELECT ` + activityColumns + `
		FROM activities
		ORDER BY start_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (s *Store) CountActivities() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// ReplaceLaps replaces all laps for an activity in one transaction.
func (s *Store) ReplaceLaps(activityID int64, laps []Lap) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM activity_laps WHERE activity_id = ?`, activityID); err != nil {
		return err
	}
	for _, l := range laps {
		_, err := tx.Exec(`
			INSERT INTO activity_laps (
				activity_id, lap_index, name, distance, moving_time, elapsed_time,
				average_speed, max_speed, average_heartrate, total_elevation_gain
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			activityID, l.LapIndex, ptrToNullString(l.Name),
			l.Distance, l.MovingTime, l.ElapsedTime,
			l.AverageSpeed, l.MaxSpeed, ptrToNullFloat64(l.AverageHeartrate), l.TotalElevationGain,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LapsForActivity returns laps ordered by lap index.
func (s *Store) LapsForActivity(activityID int64) ([]Lap, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, lap_index, name, distance, moving_time, elapsed_time,
			average_speed, max_speed, average_heartrate, total_elevation_gain
		FROM activity_laps
		WHERE activity_id = ?
		ORDER BY lap_index
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []Lap
	for rows.Next() {
		var l Lap
		var name sql.NullString
		var hr sql.NullFloat64
		err := rows.Scan(
			&l.ActivityID, &l.LapIndex, &name, &l.Distance, &l.MovingTime, &l.ElapsedTime,
			&l.AverageSpeed, &l.MaxSpeed, &hr, &l.TotalElevationGain,
		)
		if err != nil {
			return nil, err
		}
		l.Name = nullStringToPtr(name)
		l.AverageHeartrate = nullFloat64ToPtr(hr)
		laps = append(laps, l)
	}
	return laps, rows.Err()
}

// ReplaceSplits replaces all splits for an activity in one transaction.
func (s *Store) ReplaceSplits(activityID int64, splits []Split) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM activity_splits WHERE activity_id = ?`, activityID); err != nil {
		return err
	}
	for _, sp := range splits {
		_, err := tx.Exec(`
			INSERT INTO activity_splits (
				activity_id, split_index, distance, moving_time, elapsed_time,
				average_speed, average_heartrate, elevation_difference, pace_zone
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			activityID, sp.SplitIndex, sp.Distance, sp.MovingTime, sp.ElapsedTime,
			sp.AverageSpeed, ptrToNullFloat64(sp.AverageHeartrate), sp.ElevationDifference,
			ptrIntToNullInt64(sp.PaceZone),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SplitsForActivity returns splits ordered by split index.
func (s *Store) SplitsForActivity(activityID int64) ([]Split, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, split_index, distance, moving_time, elapsed_time,
			average_speed, average_heartrate, elevation_difference, pace_zone
		FROM activity_splits
		WHERE activity_id = ?
		ORDER BY split_index
	`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var splits []Split
	for rows.Next() {
		var sp Split
		var hr sql.NullFloat64
		var zone sql.NullInt64
		err := rows.Scan(
			&sp.ActivityID, &sp.SplitIndex, &sp.Distance, &sp.MovingTime, &sp.ElapsedTime,
			&sp.AverageSpeed, &hr, &sp.ElevationDifference, &zone,
		)
		if err != nil {
			return nil, err
		}
		sp.AverageHeartrate = nullFloat64ToPtr(hr)
		sp.PaceZone = nullInt64ToIntPtr(zone)
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}

// DeleteAllData removes every activity (laps, splits and reflections
// cascade) and all sync bookkeeping. Profiles are kept; they are
// recomputed from whatever is imported next.
func (s *Store) DeleteAllData() error {
	for _, stmt := range []string{
		`DELETE FROM activities`,
		`DELETE FROM sync_state`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// scanActivity scans a single activity from a row or rows scanner
func scanActivity(scan func(dest ...any) error) (*Activity, error) {
	var a Activity
	var startDate, syncedAt string
	var startDateLocal, deviceName, description sql.NullString
	var avgHR, maxHR, avgWatts sql.NullFloat64
	var hasHR, hasLaps, hasSplits, detailsFetched int

	err := scan(
		&a.ID, &a.Name, &a.SportType, &startDate, &startDateLocal,
		&a.Distance, &a.MovingTime, &a.ElapsedTime, &a.TotalElevationGain,
		&a.AverageSpeed, &a.MaxSpeed, &avgHR, &maxHR,
		&avgWatts, &deviceName, &description,
		&hasHR, &hasLaps, &hasSplits, &detailsFetched, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartDate, err = time.Parse(time.RFC3339, startDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date %q: %w", startDate, err)
	}
	if startDateLocal.Valid {
		local, err := time.Parse(time.RFC3339, startDateLocal.String)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date_local %q: %w", startDateLocal.String, err)
		}
		a.StartDateLocal = &local
	}
	a.SyncedAt, err = time.Parse(time.RFC3339, syncedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing synced_at %q: %w", syncedAt, err)
	}

	a.AverageHeartrate = nullFloat64ToPtr(avgHR)
	a.MaxHeartrate = nullFloat64ToPtr(maxHR)
	a.AverageWatts = nullFloat64ToPtr(avgWatts)
	a.DeviceName = nullStringToPtr(deviceName)
	a.Description = nullStringToPtr(description)
	a.HasHeartrate = hasHR == 1
	a.HasLaps = hasLaps == 1
	a.HasSplits = hasSplits == 1
	a.DetailsFetched = detailsFetched == 1

	return &a, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]Activity, error) {
	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// --- Conversion Helpers ---

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ptrToNullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func ptrToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func ptrTimeToNullString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func ptrIntToNullInt64(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullFloat64ToPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

func nullStringToPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullInt64ToIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
