package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
// It is idempotent and safe to call on every open.
func (db *DB) Migrate() error {
	// Create the schema_version table if it does not exist.
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the daily stats and repo metadata tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS daily_stats (
			repo_path TEXT NOT NULL,
			day       TEXT NOT NULL,
			added     INTEGER NOT NULL,
			removed   INTEGER NOT NULL,
			commits   INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (repo_path, day)
		)`,

		`CREATE TABLE IF NOT EXISTS repo_metadata (
			repo_path    TEXT PRIMARY KEY,
			project_type TEXT NOT NULL,
			type_source  TEXT NOT NULL,
			detected_at  TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_daily_stats_day ON daily_stats(day)`,
		`CREATE INDEX IF NOT EXISTS idx_daily_stats_repo ON daily_stats(repo_path)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	// Set schema version.
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
