package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Activities (summary plus detail flags)
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			sport_type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			start_date_local TEXT,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			total_elevation_gain REAL NOT NULL DEFAULT 0,
			average_speed REAL NOT NULL DEFAULT 0,
			max_speed REAL NOT NULL DEFAULT 0,
			average_heartrate REAL,
			max_heartrate REAL,
			average_watts REAL,
			device_name TEXT,
			description TEXT,
			has_heartrate INTEGER NOT NULL DEFAULT 0,
			has_laps INTEGER NOT NULL DEFAULT 0,
			has_splits INTEGER NOT NULL DEFAULT 0,
			details_fetched INTEGER NOT NULL DEFAULT 0,
			synced_at TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_date ON activities(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_sport_type ON activities(sport_type)`,

		// Manually marked laps (interval workouts)
		`CREATE TABLE IF NOT EXISTS activity_laps (
			activity_id INTEGER NOT NULL,
			lap_index INTEGER NOT NULL,
			name TEXT,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			average_speed REAL NOT NULL DEFAULT 0,
			max_speed REAL NOT NULL DEFAULT 0,
			average_heartrate REAL,
			total_elevation_gain REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (activity_id, lap_index),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Automatic per-kilometre splits
		`CREATE TABLE IF NOT EXISTS activity_splits (
			activity_id INTEGER NOT NULL,
			split_index INTEGER NOT NULL,
			distance REAL NOT NULL,
			moving_time INTEGER NOT NULL,
			elapsed_time INTEGER NOT NULL,
			average_speed REAL NOT NULL DEFAULT 0,
			average_heartrate REAL,
			elevation_difference REAL NOT NULL DEFAULT 0,
			pace_zone INTEGER,
			PRIMARY KEY (activity_id, split_index),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Runner profile (one row per sport type)
		`CREATE TABLE IF NOT EXISTS runner_profiles (
			sport_type TEXT PRIMARY KEY,
			easy_pace_ms REAL NOT NULL,
			threshold_pace_ms REAL NOT NULL,
			weekly_variability REAL NOT NULL,
			easy_hard_ratio REAL NOT NULL,
			confidence REAL NOT NULL,
			last_computed_at TEXT NOT NULL
		)`,

		// Post-activity reflections (subjective signals)
		`CREATE TABLE IF NOT EXISTS reflections (
			activity_id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			feeling_score INTEGER NOT NULL,
			pushed_too_hard INTEGER NOT NULL DEFAULT 0,
			would_repeat_today INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,

		// Sync State (key-value store for import tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
