package project

import (
	"context"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
)

// Repository provides persistence for projects and their source links.
// Mutating methods take the audit event recording the change and must
// commit it atomically with the mutation.
type Repository interface {
	NextProjectID(ctx context.Context) (string, error)
	Create(ctx context.Context, proj *Project, ev *audit.Event) error
	Get(ctx context.Context, projectID string) (*Project, error)
	List(ctx context.Context) ([]*Project, error)
	UpdateStatus(ctx context.Context, projectID string, status Status, ev *audit.Event) error
	BindSource(ctx context.Context, projectID string, link SourceLink, coverage float64, ev *audit.Event) error
	// SourceOwner returns the project id owning the link, or "" if unbound.
	SourceOwner(ctx context.Context, link SourceLink) (string, error)
}
