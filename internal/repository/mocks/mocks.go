package mocks

import (
	"context"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

var (
	_ project.Repository = (*ProjectRepository)(nil)
	_ audit.Repository   = (*AuditRepository)(nil)
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) NextProjectID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project, ev *audit.Event) error {
	args := m.Called(ctx, proj, ev)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, projectID string) (*project.Project, error) {
	args := m.Called(ctx, projectID)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]*project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) UpdateStatus(ctx context.Context, projectID string, status project.Status, ev *audit.Event) error {
	args := m.Called(ctx, projectID, status, ev)
	return args.Error(0)
}

func (m *ProjectRepository) BindSource(ctx context.Context, projectID string, link project.SourceLink, coverage float64, ev *audit.Event) error {
	args := m.Called(ctx, projectID, link, coverage, ev)
	return args.Error(0)
}

func (m *ProjectRepository) SourceOwner(ctx context.Context, link project.SourceLink) (string, error) {
	args := m.Called(ctx, link)
	return args.String(0), args.Error(1)
}

// AuditRepository is a mock for audit.Repository.
type AuditRepository struct {
	mock.Mock
}

func (m *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]audit.Event, error) {
	args := m.Called(ctx, entityType, entityID)
	if events, ok := args.Get(0).([]audit.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}
