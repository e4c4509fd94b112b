package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// FilterParams narrows the portfolio the same way the dashboard filters do.
type FilterParams struct {
	Text   string `json:"text,omitempty" jsonschema:"free-text search over id, VIN, part number, and title"`
	Status string `json:"status,omitempty" jsonschema:"exact status filter, ALL or empty for no constraint"`
	Model  string `json:"model,omitempty" jsonschema:"exact model filter, ALL or empty for no constraint"`
	Market string `json:"market,omitempty" jsonschema:"exact market filter, ALL or empty for no constraint"`
}

func (p FilterParams) filter() project.Filter {
	return project.Filter{
		Text:   p.Text,
		Status: p.Status,
		Model:  p.Model,
		Market: p.Market,
	}
}

// ProjectIDParams identifies a single project.
type ProjectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id in ACD format, e.g. ACD000001"`
}

// ListProjectsResult wraps the matching projects.
type ListProjectsResult struct {
	Projects []*project.Project `json:"projects"`
}

// AuditEvent is the tool-facing shape of an audit trail entry. Snapshots
// are decoded into objects so the generated tool schema matches the wire
// value.
type AuditEvent struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorRole  string         `json:"actor_role"`
	Action     audit.Action   `json:"action"`
	Before     map[string]any `json:"before_snapshot"`
	After      map[string]any `json:"after_snapshot"`
	Timestamp  time.Time      `json:"timestamp"`
}

// AuditResult wraps the audit events for a project, most recent first.
type AuditResult struct {
	Events []AuditEvent `json:"events"`
}

func toAuditEvent(ev audit.Event) AuditEvent {
	out := AuditEvent{
		ID:         ev.ID,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		ActorRole:  ev.ActorRole,
		Action:     ev.Action,
		Timestamp:  ev.Timestamp,
	}
	_ = json.Unmarshal(ev.Before, &out.Before)
	_ = json.Unmarshal(ev.After, &out.After)
	return out
}

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List quality projects matching the dashboard filters, in store order",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params FilterParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
		projects, err := services.Projects.List(ctx, params.filter())
		if err != nil {
			return nil, ListProjectsResult{}, err
		}
		return nil, ListProjectsResult{Projects: projects}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a single quality project by its ACD id",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectIDParams) (*sdkmcp.CallToolResult, *project.Project, error) {
		proj, err := services.Projects.Get(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_kpis",
		Description: "Compute dashboard KPI counters over the filtered project set",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params FilterParams) (*sdkmcp.CallToolResult, project.Kpis, error) {
		kpis, err := services.Projects.Kpis(ctx, params.filter())
		if err != nil {
			return nil, project.Kpis{}, err
		}
		return nil, kpis, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_audit",
		Description: "Get the audit trail for a project, most recent event first",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectIDParams) (*sdkmcp.CallToolResult, AuditResult, error) {
		events, err := services.Audits.Query(ctx, params.ProjectID)
		if err != nil {
			return nil, AuditResult{}, err
		}
		out := make([]AuditEvent, 0, len(events))
		for _, ev := range events {
			out = append(out, toAuditEvent(ev))
		}
		return nil, AuditResult{Events: out}, nil
	})
}
