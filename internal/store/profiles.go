package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ProfileForSport retrieves the runner profile for a sport type.
// Returns ErrNoProfile when none has been computed yet.
func (s *Store) ProfileForSport(sportType string) (*RunnerProfile, error) {
	row := s.db.QueryRow(`
		SELECT sport_type, easy_pace_ms, threshold_pace_ms, weekly_variability,
			easy_hard_ratio, confidence, last_computed_at
		FROM runner_profiles
		WHERE sport_type = ?
	`, sportType)

	var p RunnerProfile
	var computedAt string
	err := row.Scan(
		&p.SportType, &p.EasyPaceMs, &p.ThresholdPaceMs, &p.WeeklyVariability,
		&p.EasyHardRatio, &p.Confidence, &computedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	p.LastComputedAt, err = time.Parse(time.RFC3339, computedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing last_computed_at %q: %w", computedAt, err)
	}
	return &p, nil
}

// DeleteProfile removes the stored profile for a sport type. Deleting
// a missing profile is not an error.
func (s *Store) DeleteProfile(sportType string) error {
	_, err := s.db.Exec(`DELETE FROM runner_profiles WHERE sport_type = ?`, sportType)
	return err
}

// ReplaceProfile removes any stored profile for the sport type and
// inserts the given one. Keeping a single row per sport avoids stale
// duplicates after recomputation.
func (s *Store) ReplaceProfile(p *RunnerProfile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM runner_profiles WHERE sport_type = ?`, p.SportType); err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO runner_profiles (
			sport_type, easy_pace_ms, threshold_pace_ms, weekly_variability,
			easy_hard_ratio, confidence, last_computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		p.SportType, p.EasyPaceMs, p.ThresholdPaceMs, p.WeeklyVariability,
		p.EasyHardRatio, p.Confidence, p.LastComputedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}
