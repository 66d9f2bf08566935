package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertReflection stores a post-activity reflection. The feeling score
// is clamped to 1..5 before writing.
func (s *Store) UpsertReflection(r *Reflection) error {
	score := r.FeelingScore
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}

	_, err := s.db.Exec(`
		INSERT INTO reflections (activity_id, date, feeling_score, pushed_too_hard, would_repeat_today)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET
			date = excluded.date,
			feeling_score = excluded.feeling_score,
			pushed_too_hard = excluded.pushed_too_hard,
			would_repeat_today = excluded.would_repeat_today
	`,
		r.ActivityID, r.Date.UTC().Format(time.RFC3339), score,
		boolToInt(r.PushedTooHard), boolToInt(r.WouldRepeatToday),
	)
	return err
}

// ReflectionForActivity retrieves the reflection for an activity, or
// nil when none exists.
func (s *Store) ReflectionForActivity(activityID int64) (*Reflection, error) {
	row := s.db.QueryRow(`
		SELECT activity_id, date, feeling_score, pushed_too_hard, would_repeat_today
		FROM reflections
		WHERE activity_id = ?
	`, activityID)

	r, err := scanReflection(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// AllReflections returns every reflection ordered by date descending.
func (s *Store) AllReflections() ([]Reflection, error) {
	rows, err := s.db.Query(`
		SELECT activity_id, date, feeling_score, pushed_too_hard, would_repeat_today
		FROM reflections
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reflections []Reflection
	for rows.Next() {
		r, err := scanReflection(rows.Scan)
		if err != nil {
			return nil, err
		}
		reflections = append(reflections, *r)
	}
	return reflections, rows.Err()
}

func scanReflection(scan func(dest ...any) error) (*Reflection, error) {
	var r Reflection
	var date string
	var pushed, repeat int

	if err := scan(&r.ActivityID, &date, &r.FeelingScore, &pushed, &repeat); err != nil {
		return nil, err
	}

	var err error
	r.Date, err = time.Parse(time.RFC3339, date)
	if err != nil {
		return nil, fmt.Errorf("parsing reflection date %q: %w", date, err)
	}
	r.PushedTooHard = pushed == 1
	r.WouldRepeatToday = repeat == 1
	return &r, nil
}
