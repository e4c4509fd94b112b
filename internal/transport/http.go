package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	"github.com/quality-eu/acdtrack/internal/domain/role"
)

// ProjectService defines the project operations the API exposes.
type ProjectService interface {
	Create(ctx context.Context, actor role.Role, draft project.Draft) (*project.Project, error)
	Get(ctx context.Context, projectID string) (*project.Project, error)
	List(ctx context.Context, f project.Filter) ([]*project.Project, error)
	UpdateStatus(ctx context.Context, actor role.Role, projectID, status string) (*project.Project, error)
	BindSource(ctx context.Context, actor role.Role, sourceID, sourceType, projectID string) (*project.Project, error)
	Kpis(ctx context.Context, f project.Filter) (project.Kpis, error)
	ExportCSV(ctx context.Context, actor role.Role, f project.Filter, w io.Writer) error
}

// AuditService defines the audit trail read operations the API exposes.
type AuditService interface {
	Query(ctx context.Context, projectID string) ([]audit.Event, error)
}

// Server wires HTTP handlers.
type Server struct {
	projects ProjectService
	audits   AuditService
	sessions *SessionStore
	logger   *slog.Logger
}

// NewServer creates the HTTP API router.
func NewServer(projects ProjectService, audits AuditService, sessions *SessionStore, logger *slog.Logger) *chi.Mux {
	srv := &Server{
		projects: projects,
		audits:   audits,
		sessions: sessions,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Post("/api/login", srv.handleLogin)
	r.Get("/api/projects", srv.handleListProjects)
	r.Post("/api/projects", srv.handleCreateProject)
	r.Post("/api/projects/{projectID}/status", srv.handleUpdateStatus)
	r.Post("/api/bin", srv.handleBinSource)
	r.Get("/api/export", srv.handleExport)
	r.Get("/api/audit/{projectID}", srv.handleAudit)
	r.Get("/api/kpis", srv.handleKpis)
	r.Get("/health", srv.handleHealth)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type loginRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	actor, err := role.Parse(req.Role)
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}

	token := s.sessions.Login(r, actor)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	s.writeJSON(w, http.StatusOK, map[string]string{"role": string(actor)})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context(), filterFromQuery(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Market      string   `json:"market"`
	Region      string   `json:"region"`
	Model       string   `json:"model"`
	Platform    string   `json:"platform"`
	PartNo      string   `json:"part_no"`
	VIN         string   `json:"vin"`
	SymptomCode string   `json:"symptom_code"`
	Severity    int      `json:"severity"`
	Labels      []string `json:"labels"`
	SourceID    string   `json:"source_id"`
	SourceType  string   `json:"source_type"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	proj, err := s.projects.Create(r.Context(), s.sessions.Role(r), project.Draft{
		Title:       req.Title,
		Description: req.Description,
		Market:      req.Market,
		Region:      req.Region,
		Model:       req.Model,
		Platform:    req.Platform,
		PartNo:      req.PartNo,
		VIN:         req.VIN,
		SymptomCode: req.SymptomCode,
		Severity:    req.Severity,
		Labels:      req.Labels,
		SourceID:    req.SourceID,
		SourceType:  req.SourceType,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, proj)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	proj, err := s.projects.UpdateStatus(r.Context(), s.sessions.Role(r), chi.URLParam(r, "projectID"), req.Status)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, proj)
}

type binSourceRequest struct {
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type"`
	ProjectID  string `json:"project_id"`
}

func (s *Server) handleBinSource(w http.ResponseWriter, r *http.Request) {
	var req binSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}

	proj, err := s.projects.BindSource(r.Context(), s.sessions.Role(r), req.SourceID, req.SourceType, req.ProjectID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=projects.csv`)
	if err := s.projects.ExportCSV(r.Context(), s.sessions.Role(r), filterFromQuery(r), w); err != nil {
		w.Header().Del("Content-Type")
		w.Header().Del("Content-Disposition")
		s.writeDomainError(w, err)
		return
	}
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	events, err := s.audits.Query(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleKpis(w http.ResponseWriter, r *http.Request) {
	kpis, err := s.projects.Kpis(r.Context(), filterFromQuery(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, kpis)
}

func filterFromQuery(r *http.Request) project.Filter {
	q := r.URL.Query()
	return project.Filter{
		Text:   q.Get("q"),
		Status: q.Get("status"),
		Model:  q.Get("model"),
		Market: q.Get("market"),
	}
}

// writeDomainError maps domain errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var conflict *project.SourceConflictError
	var validation *project.ValidationError

	switch {
	case errors.Is(err, role.ErrPermissionDenied):
		s.writeError(w, err, http.StatusForbidden)
	case errors.Is(err, project.ErrProjectNotFound):
		s.writeError(w, err, http.StatusNotFound)
	case errors.As(err, &conflict):
		s.writeJSON(w, http.StatusConflict, map[string]string{
			"error":               conflict.Error(),
			"existing_project_id": conflict.ExistingProjectID,
		})
	case errors.As(err, &validation),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidSourceType),
		errors.Is(err, role.ErrUnknownRole):
		s.writeError(w, err, http.StatusBadRequest)
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "error", err)
		}
		s.writeError(w, errors.New("internal error"), http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, status int) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
