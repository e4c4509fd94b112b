package audit

import (
	"encoding/json"
	"time"
)

// Action identifies the mutation an audit event records.
type Action string

const (
	ActionCreate       Action = "CREATE"
	ActionUpdateStatus Action = "UPDATE_STATUS"
	ActionBinSource    Action = "BIN_SOURCE"
)

// EntityProject is the entity type used for project audit events.
const EntityProject = "Project"

// Event is one append-only entry in the audit trail. Snapshots are deep
// JSON copies taken at mutation time, never live references.
type Event struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	ActorRole  string          `json:"actor_role"`
	Action     Action          `json:"action"`
	Before     json.RawMessage `json:"before_snapshot"`
	After      json.RawMessage `json:"after_snapshot"`
	Timestamp  time.Time       `json:"timestamp"`
}
