package audit

import (
	"context"
	"fmt"
	"log/slog"
)

// Service handles audit trail queries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new audit service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Query returns all events for a project in reverse chronological order.
// Unknown ids yield an empty slice, never an error.
func (s *Service) Query(ctx context.Context, projectID string) ([]Event, error) {
	events, err := s.repo.ListByEntity(ctx, EntityProject, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying audit trail: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}
