package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations lists all schema migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_fixes",
		SQL: `
			CREATE TABLE IF NOT EXISTS fixes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entity_id TEXT NOT NULL,
				timestamp INTEGER NOT NULL,
				x REAL NOT NULL,
				y REAL NOT NULL,
				habitat TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(entity_id, timestamp)
			);
			CREATE INDEX IF NOT EXISTS idx_fixes_entity_time ON fixes(entity_id, timestamp);
		`,
	},
	{
		Version: 2,
		Name:    "create_rest_segments",
		SQL: `
			CREATE TABLE IF NOT EXISTS rest_segments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entity_id TEXT NOT NULL,
				start_time INTEGER NOT NULL,
				end_time INTEGER NOT NULL,
				duration_seconds INTEGER NOT NULL,
				anchor_x REAL NOT NULL,
				anchor_y REAL NOT NULL,
				anchor_habitat TEXT NOT NULL DEFAULT '',
				fix_count INTEGER NOT NULL,
				profile_id INTEGER NOT NULL DEFAULT 0,
				algo_version TEXT NOT NULL DEFAULT 'v1',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_rest_segments_entity ON rest_segments(entity_id, start_time);
			CREATE INDEX IF NOT EXISTS idx_rest_segments_habitat ON rest_segments(anchor_habitat);
		`,
	},
	{
		Version: 3,
		Name:    "create_rest_statistics",
		SQL: `
			CREATE TABLE IF NOT EXISTS rest_statistics (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				stat_type TEXT NOT NULL,
				stat_key TEXT NOT NULL,
				segment_count INTEGER NOT NULL DEFAULT 0,
				total_seconds INTEGER NOT NULL DEFAULT 0,
				mean_seconds REAL NOT NULL DEFAULT 0,
				median_seconds REAL NOT NULL DEFAULT 0,
				q1_seconds REAL NOT NULL DEFAULT 0,
				q3_seconds REAL NOT NULL DEFAULT 0,
				max_seconds INTEGER NOT NULL DEFAULT 0,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(stat_type, stat_key)
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_analysis_tasks",
		SQL: `
			CREATE TABLE IF NOT EXISTS analysis_tasks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				skill_name TEXT NOT NULL,
				task_type TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				progress_percent REAL NOT NULL DEFAULT 0,
				params_json TEXT NOT NULL DEFAULT '',
				threshold_profile_id INTEGER NOT NULL DEFAULT 0,
				total_items INTEGER NOT NULL DEFAULT 0,
				processed_items INTEGER NOT NULL DEFAULT 0,
				failed_items INTEGER NOT NULL DEFAULT 0,
				result_summary TEXT NOT NULL DEFAULT '',
				error_message TEXT NOT NULL DEFAULT '',
				created_by TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				started_at TIMESTAMP,
				completed_at TIMESTAMP
			);
		`,
	},
	{
		Version: 5,
		Name:    "create_threshold_profiles",
		SQL: `
			CREATE TABLE IF NOT EXISTS threshold_profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				description TEXT NOT NULL DEFAULT '',
				is_default INTEGER NOT NULL DEFAULT 0,
				params_json TEXT NOT NULL,
				created_by TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			INSERT OR IGNORE INTO threshold_profiles (name, description, is_default, params_json)
			VALUES (
				'reference',
				'Reference parameterization: 12-fix window, 10 m threshold, 2 h minimum rest',
				1,
				'{"windowSize":12,"thresholdMeters":10,"minDurationSeconds":7200,"missingWindowPolicy":"TREAT_AS_MOVING"}'
			);
		`,
	},
}

// Migrate applies all pending migrations
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := applyMigration(db, migration); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", migration.Version, migration.Name)
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations returns the set of applied migration versions
func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// applyMigration applies a single migration inside a transaction
func applyMigration(db *sql.DB, migration Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	return tx.Commit()
}
