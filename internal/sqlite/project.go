package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	"github.com/quality-eu/acdtrack/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

var _ project.Repository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// NextProjectID returns the next id in the ACD sequence: one greater than
// the maximum numeric suffix among existing ids, regardless of gaps.
func (r *ProjectRepository) NextProjectID(ctx context.Context) (string, error) {
	query := `
		SELECT COALESCE(MAX(CAST(substr(project_id, 4) AS INTEGER)), 0)
		FROM projects
	`

	var maxSuffix int
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxSuffix); err != nil {
		return "", fmt.Errorf("failed to read max project id: %w", err)
	}
	return fmt.Sprintf("ACD%06d", maxSuffix+1), nil
}

// Create inserts a project, its initial source links, and the CREATE audit
// event in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project, ev *audit.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (
			project_id, title, description, market, region, model, platform,
			part_no, vin, symptom_code, severity, status, labels, created_by,
			created_at, bin_coverage_ratio
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		proj.ProjectID,
		proj.Title,
		proj.Description,
		proj.Market,
		proj.Region,
		proj.Model,
		proj.Platform,
		proj.PartNo,
		proj.VIN,
		proj.SymptomCode,
		proj.Severity,
		proj.Status,
		strings.Join(proj.Labels, ","),
		proj.CreatedBy,
		proj.CreatedAt,
		proj.BinCoverageRatio,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, link := range proj.Sources {
		if err := insertSourceLinkTx(ctx, tx, proj.ProjectID, link, ev.ActorRole); err != nil {
			return err
		}
	}

	if err := insertAuditTx(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get retrieves a project by its public id
func (r *ProjectRepository) Get(ctx context.Context, projectID string) (*project.Project, error) {
	query := selectProjects + ` WHERE project_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, projectID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := r.loadSources(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// List returns all projects in insertion order
func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	rows, err := r.db.QueryContext(ctx, selectProjects+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	byID := make(map[string]*project.Project)
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
		byID[proj.ProjectID] = proj
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	linkRows, err := r.db.QueryContext(ctx,
		`SELECT source_id, source_type, project_id FROM source_links ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list source links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var link project.SourceLink
		var owner string
		if err := linkRows.Scan(&link.SourceID, &link.SourceType, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan source link: %w", err)
		}
		if proj, ok := byID[owner]; ok {
			proj.Sources = append(proj.Sources, link)
		}
	}
	if err := linkRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source link rows: %w", err)
	}

	return projects, nil
}

// UpdateStatus replaces the status and records the audit event in one
// transaction.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, projectID string, status project.Status, ev *audit.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE projects SET status = ? WHERE project_id = ?`, status, projectID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	if err := insertAuditTx(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// BindSource links a source to the project and stores the new coverage
// ratio, all in one transaction with the audit event. Linking is
// idempotent: a link already owned by the project is left in place.
func (r *ProjectRepository) BindSource(ctx context.Context, projectID string, link project.SourceLink, coverage float64, ev *audit.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Store the coverage first: zero rows affected means the project does
	// not exist, before the link insert can trip the foreign key.
	result, err := tx.ExecContext(ctx,
		`UPDATE projects SET bin_coverage_ratio = ? WHERE project_id = ?`,
		coverage, projectID)
	if err != nil {
		return fmt.Errorf("failed to update coverage: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	query := `
		INSERT INTO source_links (source_id, source_type, project_id, linked_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_id, source_type) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, query,
		link.SourceID, link.SourceType, projectID, ev.ActorRole); err != nil {
		return fmt.Errorf("failed to insert source link: %w", err)
	}

	if err := insertAuditTx(ctx, tx, ev); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SourceOwner returns the project id that owns the composite source
// identity, or "" if the source is unbound.
func (r *ProjectRepository) SourceOwner(ctx context.Context, link project.SourceLink) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT project_id FROM source_links WHERE source_id = ? AND source_type = ?`,
		link.SourceID, link.SourceType).Scan(&owner)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up source owner: %w", err)
	}
	return owner, nil
}

const selectProjects = `
	SELECT project_id, title, description, market, region, model, platform,
	       part_no, vin, symptom_code, severity, status, labels, created_by,
	       created_at, bin_coverage_ratio
	FROM projects
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var labels string
	if err := row.Scan(
		&proj.ProjectID,
		&proj.Title,
		&proj.Description,
		&proj.Market,
		&proj.Region,
		&proj.Model,
		&proj.Platform,
		&proj.PartNo,
		&proj.VIN,
		&proj.SymptomCode,
		&proj.Severity,
		&proj.Status,
		&labels,
		&proj.CreatedBy,
		&proj.CreatedAt,
		&proj.BinCoverageRatio,
	); err != nil {
		return nil, err
	}

	proj.Labels = []string{}
	if labels != "" {
		proj.Labels = strings.Split(labels, ",")
	}
	proj.Sources = []project.SourceLink{}
	proj.AgeDays = project.ComputeAgeDays(proj.CreatedAt, time.Now())
	return &proj, nil
}

func (r *ProjectRepository) loadSources(ctx context.Context, proj *project.Project) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source_id, source_type FROM source_links WHERE project_id = ? ORDER BY id ASC`,
		proj.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to load source links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link project.SourceLink
		if err := rows.Scan(&link.SourceID, &link.SourceType); err != nil {
			return fmt.Errorf("failed to scan source link: %w", err)
		}
		proj.Sources = append(proj.Sources, link)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating source link rows: %w", err)
	}
	return nil
}

func insertSourceLinkTx(ctx context.Context, tx *sql.Tx, projectID string, link project.SourceLink, linkedBy string) error {
	query := `
		INSERT INTO source_links (source_id, source_type, project_id, linked_by)
		VALUES (?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, link.SourceID, link.SourceType, projectID, linkedBy); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert source link: %w", err)
	}
	return nil
}
