package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/role"
	"github.com/quality-eu/acdtrack/internal/repository"
)

// coverageDelta is the fixed bump applied to bin coverage on each bind.
const coverageDelta = 0.02

// initialCoverage is the coverage assigned when a project is created with
// an initial source already linked.
const initialCoverage = 0.2

// Service handles project operations: creation, status workflow, source
// binding, and filtered reads.
type Service struct {
	repo   Repository
	logger *slog.Logger

	// mu serializes mutating operations so id generation and the bind
	// conflict check are atomic read-then-write units.
	mu sync.Mutex
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Draft defines project creation inputs. Title, SymptomCode, Market, and
// Model are required; everything else is optional.
type Draft struct {
	Title       string
	Description string
	Market      string
	Region      string
	Model       string
	Platform    string
	PartNo      string
	VIN         string
	SymptomCode string
	Severity    int
	Labels      []string
	SourceID    string
	SourceType  string
}

// Create creates a new project in Ready status with a generated id.
func (s *Service) Create(ctx context.Context, actor role.Role, draft Draft) (*Project, error) {
	if err := role.Require(actor, role.ActionCreate); err != nil {
		return nil, err
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", draft.Title},
		{"symptom_code", draft.SymptomCode},
		{"market", draft.Market},
		{"model", draft.Model},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	var invalid []string
	severity := draft.Severity
	if severity == 0 {
		severity = 3
	}
	if severity < 1 || severity > 3 {
		invalid = append(invalid, "severity")
	}
	if missing != nil || invalid != nil {
		return nil, &ValidationError{Missing: missing, Invalid: invalid}
	}

	var initial *SourceLink
	if strings.TrimSpace(draft.SourceID) != "" {
		st, err := ParseSourceType(draft.SourceType)
		if err != nil {
			return nil, err
		}
		initial = &SourceLink{SourceID: strings.TrimSpace(draft.SourceID), SourceType: st}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.repo.NextProjectID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating project id: %w", err)
	}

	now := time.Now()
	proj := &Project{
		ProjectID:   id,
		Title:       draft.Title,
		Description: draft.Description,
		Market:      draft.Market,
		Region:      draft.Region,
		Model:       draft.Model,
		Platform:    draft.Platform,
		PartNo:      draft.PartNo,
		VIN:         draft.VIN,
		SymptomCode: draft.SymptomCode,
		Severity:    severity,
		Status:      StatusReady,
		Labels:      append([]string(nil), draft.Labels...),
		CreatedBy:   string(actor),
		CreatedAt:   now,
	}
	if initial != nil {
		proj.Sources = []SourceLink{*initial}
		proj.BinCoverageRatio = initialCoverage
	}

	ev := newEvent(id, actor, audit.ActionCreate, json.RawMessage(`{}`), snapshot(proj), now)
	if err := s.repo.Create(ctx, proj, ev); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.log("project created", "project_id", id, "actor", actor)
	return proj, nil
}

// Get fetches a project by id.
func (s *Service) Get(ctx context.Context, projectID string) (*Project, error) {
	proj, err := s.repo.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns projects matching the filter in store insertion order.
// Reads are open to any role.
func (s *Service) List(ctx context.Context, f Filter) ([]*Project, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	out := make([]*Project, 0, len(all))
	for _, p := range all {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// UpdateStatus replaces a project's workflow status. Any status is
// reachable from any other, including out of Closed.
func (s *Service) UpdateStatus(ctx context.Context, actor role.Role, projectID, newStatus string) (*Project, error) {
	if err := role.Require(actor, role.ActionSetStatus); err != nil {
		return nil, err
	}
	st, err := ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	upd := cur.Clone()
	upd.Status = st

	ev := newEvent(projectID, actor, audit.ActionUpdateStatus, snapshot(cur), snapshot(upd), time.Now())
	if err := s.repo.UpdateStatus(ctx, projectID, st, ev); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	s.log("status updated", "project_id", projectID, "status", st, "actor", actor)
	return upd, nil
}

// BindSource links a complaint source to a project, enforcing the global
// 1:1 binning invariant. Rebinding a source to the project that already
// owns it is an idempotent link but still bumps coverage.
func (s *Service) BindSource(ctx context.Context, actor role.Role, sourceID, sourceType, projectID string) (*Project, error) {
	if err := role.Require(actor, role.ActionBindSource); err != nil {
		return nil, err
	}
	st, err := ParseSourceType(sourceType)
	if err != nil {
		return nil, err
	}
	sourceID = strings.TrimSpace(sourceID)
	if sourceID == "" {
		return nil, &ValidationError{Missing: []string{"source_id"}}
	}
	link := SourceLink{SourceID: sourceID, SourceType: st}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.repo.SourceOwner(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("checking source owner: %w", err)
	}
	if owner != "" && owner != projectID {
		return nil, &SourceConflictError{ExistingProjectID: owner}
	}

	cur, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	upd := cur.Clone()
	if !upd.HasSource(link) {
		upd.Sources = append(upd.Sources, link)
	}
	upd.BinCoverageRatio = min(1.0, upd.BinCoverageRatio+coverageDelta)

	ev := newEvent(projectID, actor, audit.ActionBinSource, snapshot(cur), snapshot(upd), time.Now())
	if err := s.repo.BindSource(ctx, projectID, link, upd.BinCoverageRatio, ev); err != nil {
		return nil, fmt.Errorf("binding source: %w", err)
	}

	s.log("source bound", "project_id", projectID, "source_id", link.SourceID, "source_type", link.SourceType, "actor", actor)
	return upd, nil
}

// Kpis computes dashboard counters over the filtered project set.
func (s *Service) Kpis(ctx context.Context, f Filter) (Kpis, error) {
	filtered, err := s.List(ctx, f)
	if err != nil {
		return Kpis{}, err
	}
	return Aggregate(filtered), nil
}

func (s *Service) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func newEvent(projectID string, actor role.Role, action audit.Action, before, after json.RawMessage, ts time.Time) *audit.Event {
	return &audit.Event{
		EntityType: audit.EntityProject,
		EntityID:   projectID,
		ActorRole:  string(actor),
		Action:     action,
		Before:     before,
		After:      after,
		Timestamp:  ts,
	}
}

// snapshot serializes a deep copy of the project for an audit event.
func snapshot(p *Project) json.RawMessage {
	b, err := json.Marshal(p)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return b
}
