package audit

import "context"

// Repository provides read access to the audit trail. Events are written
// by the store inside the same transaction as the mutation they record,
// so there is no standalone append here.
type Repository interface {
	ListByEntity(ctx context.Context, entityType, entityID string) ([]Event, error)
}
