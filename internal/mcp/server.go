package mcp

import (
	"context"
	"log/slog"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `acdtrack exposes a read-only view of the automotive
quality-assurance project portfolio: list and inspect triage projects, dashboard
KPIs, and the per-project audit trail. Mutations go through the HTTP API with a
role-authenticated session and are not available over MCP.`

// ProjectService defines the read operations exposed as MCP tools.
type ProjectService interface {
	Get(ctx context.Context, projectID string) (*project.Project, error)
	List(ctx context.Context, f project.Filter) ([]*project.Project, error)
	Kpis(ctx context.Context, f project.Filter) (project.Kpis, error)
}

// AuditService defines the audit read operations exposed as MCP tools.
type AuditService interface {
	Query(ctx context.Context, projectID string) ([]audit.Event, error)
}

// Services contains the domain services backing the MCP tools.
type Services struct {
	Projects ProjectService
	Audits   AuditService
}

// NewServer creates an MCP server with the read-only tool surface.
func NewServer(services Services, logger *slog.Logger) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "acdtrack",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerTools(server, services)
	return server
}
