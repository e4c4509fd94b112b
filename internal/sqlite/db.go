package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. The rowid-backed integer primary keys
// preserve insertion order for listing and audit queries.
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    market TEXT NOT NULL DEFAULT '',
    region TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    platform TEXT NOT NULL DEFAULT '',
    part_no TEXT NOT NULL DEFAULT '',
    vin TEXT NOT NULL DEFAULT '',
    symptom_code TEXT NOT NULL DEFAULT '',
    severity INTEGER NOT NULL DEFAULT 3 CHECK(severity BETWEEN 1 AND 3),
    status TEXT NOT NULL CHECK(status IN ('Ready', 'Active', 'Containment', 'Corrective', 'Monitoring', 'Closed')),
    labels TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    bin_coverage_ratio REAL NOT NULL DEFAULT 0 CHECK(bin_coverage_ratio BETWEEN 0 AND 1)
);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_projects_model ON projects(model);
CREATE INDEX IF NOT EXISTS idx_projects_market ON projects(market);

-- Source links: the reverse index for 1:1 binning. The unique constraint
-- on (source_id, source_type) enforces the invariant at the storage level.
CREATE TABLE IF NOT EXISTS source_links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id TEXT NOT NULL,
    source_type TEXT NOT NULL CHECK(source_type IN ('SSNW', 'Warranty', 'TAC')),
    project_id TEXT NOT NULL,
    linked_by TEXT NOT NULL DEFAULT '',
    linked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(source_id, source_type),
    FOREIGN KEY (project_id) REFERENCES projects(project_id)
);
CREATE INDEX IF NOT EXISTS idx_source_links_project ON source_links(project_id);

-- Audit trail: append-only, never updated or deleted.
CREATE TABLE IF NOT EXISTS audit_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    actor_role TEXT NOT NULL,
    action TEXT NOT NULL CHECK(action IN ('CREATE', 'UPDATE_STATUS', 'BIN_SOURCE')),
    before_snapshot TEXT NOT NULL,
    after_snapshot TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_events(entity_type, entity_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
