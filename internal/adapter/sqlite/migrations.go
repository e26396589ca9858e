package sqlite

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	// Migration 1: initial schema plus the seeded disaster-type catalog.
	`CREATE TABLE IF NOT EXISTS regions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		latitude   REAL NOT NULL,
		longitude  REAL NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS disaster_types (
		id     INTEGER PRIMARY KEY,
		name   TEXT NOT NULL UNIQUE,
		active INTEGER NOT NULL DEFAULT 1
	);

	INSERT OR IGNORE INTO disaster_types (id, name, active) VALUES
		(1, 'Flood', 1),
		(2, 'Earthquake', 1),
		(3, 'Wildfire', 1),
		(4, 'Storm', 1),
		(5, 'Drought', 1);

	CREATE TABLE IF NOT EXISTS region_disaster_types (
		region_id        INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
		disaster_type_id INTEGER NOT NULL REFERENCES disaster_types(id),
		position         INTEGER NOT NULL,
		PRIMARY KEY (region_id, disaster_type_id)
	);

	CREATE TABLE IF NOT EXISTS alert_settings (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		region_id        INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
		disaster_type_id INTEGER NOT NULL REFERENCES disaster_types(id),
		threshold_score  REAL NOT NULL,
		active           INTEGER NOT NULL DEFAULT 1,
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (region_id, disaster_type_id)
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id               TEXT PRIMARY KEY,
		region_id        INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
		disaster_type_id INTEGER NOT NULL REFERENCES disaster_types(id),
		risk_score       REAL NOT NULL,
		threshold_value  REAL NOT NULL,
		message          TEXT NOT NULL,
		notified         INTEGER NOT NULL DEFAULT 0,
		notified_at      DATETIME,
		detected_at      DATETIME NOT NULL,
		expires_at       DATETIME NOT NULL,
		metadata         TEXT DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_region ON alerts(region_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_detected ON alerts(detected_at);

	CREATE TABLE IF NOT EXISTS recipients (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		region_id INTEGER NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
		email     TEXT NOT NULL,
		name      TEXT NOT NULL DEFAULT '',
		active    INTEGER NOT NULL DEFAULT 1,
		UNIQUE (region_id, email)
	);`,
}

// runMigrations applies pending schema migrations in order.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("check migration version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("run migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}

	return nil
}
