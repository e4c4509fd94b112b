package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
)

// AuditRepository implements audit.Repository for SQLite
type AuditRepository struct {
	db *DB
}

var _ audit.Repository = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// ListByEntity returns all events for an entity, most recent first. The
// integer primary key breaks ties between events in the same second.
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]audit.Event, error) {
	query := `
		SELECT id, entity_type, entity_id, actor_role, action,
		       before_snapshot, after_snapshot, timestamp
		FROM audit_events
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var ev audit.Event
		var before, after string
		if err := rows.Scan(
			&ev.ID,
			&ev.EntityType,
			&ev.EntityID,
			&ev.ActorRole,
			&ev.Action,
			&before,
			&after,
			&ev.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		ev.Before = []byte(before)
		ev.After = []byte(after)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit rows: %w", err)
	}

	return events, nil
}

// insertAuditTx appends an audit event inside a mutation's transaction so
// the change and its record commit together or not at all.
func insertAuditTx(ctx context.Context, tx *sql.Tx, ev *audit.Event) error {
	query := `
		INSERT INTO audit_events (
			entity_type, entity_id, actor_role, action,
			before_snapshot, after_snapshot, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		ev.EntityType,
		ev.EntityID,
		ev.ActorRole,
		ev.Action,
		string(ev.Before),
		string(ev.After),
		ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}
