package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
	"github.com/quality-eu/acdtrack/internal/repository"
)

func testEvent(projectID string, action audit.Action) *audit.Event {
	return &audit.Event{
		EntityType: audit.EntityProject,
		EntityID:   projectID,
		ActorRole:  "Quality",
		Action:     action,
		Before:     []byte(`{}`),
		After:      []byte(`{}`),
		Timestamp:  time.Now().UTC(),
	}
}

func testProject(projectID string) *project.Project {
	return &project.Project{
		ProjectID:        projectID,
		Title:            "Coolant pump whine",
		Description:      "High-pitched whine at idle",
		Market:           "UK",
		Region:           "Europe",
		Model:            "MG4",
		Platform:         "MSP",
		PartNo:           "PMP-221",
		VIN:              "SDB000000000000001",
		SymptomCode:      "NVH-12",
		Severity:         2,
		Status:           project.StatusReady,
		Labels:           []string{"nvh", "cooling"},
		CreatedBy:        "Quality",
		CreatedAt:        time.Now().UTC(),
		BinCoverageRatio: 0.2,
		Sources: []project.SourceLink{
			{SourceID: "S" + projectID, SourceType: project.SourceSSNW},
		},
	}
}

func TestProjectRepository_NextProjectID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	id, err := repo.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACD000001", id, "empty table starts the sequence at 1")

	// The sequence follows the maximum suffix, not the row count.
	proj := testProject("ACD000007")
	proj.Sources = nil
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000007", audit.ActionCreate)))

	id, err = repo.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACD000008", id)
}

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	got, err := repo.Get(ctx, "ACD000001")
	require.NoError(t, err)

	assert.Equal(t, "ACD000001", got.ProjectID)
	assert.Equal(t, "Coolant pump whine", got.Title)
	assert.Equal(t, "UK", got.Market)
	assert.Equal(t, 2, got.Severity)
	assert.Equal(t, project.StatusReady, got.Status)
	assert.Equal(t, []string{"nvh", "cooling"}, got.Labels)
	assert.Equal(t, 0.2, got.BinCoverageRatio)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "SACD000001", got.Sources[0].SourceID)
	assert.Equal(t, project.SourceSSNW, got.Sources[0].SourceType)
}

func TestProjectRepository_CreateDuplicateID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	proj.Sources = nil
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	err := repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	_, err := repo.Get(context.Background(), "ACD999999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_ListInsertionOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	// Insert out of lexical order to prove ordering follows insertion.
	for _, id := range []string{"ACD000003", "ACD000001", "ACD000002"} {
		proj := testProject(id)
		require.NoError(t, repo.Create(ctx, proj, testEvent(id, audit.ActionCreate)))
	}

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "ACD000003", projects[0].ProjectID)
	assert.Equal(t, "ACD000001", projects[1].ProjectID)
	assert.Equal(t, "ACD000002", projects[2].ProjectID)

	for _, proj := range projects {
		require.Len(t, proj.Sources, 1, "list must hydrate source links")
	}
}

func TestProjectRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	audits := NewAuditRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	ev := testEvent("ACD000001", audit.ActionUpdateStatus)
	require.NoError(t, repo.UpdateStatus(ctx, "ACD000001", project.StatusContainment, ev))
	assert.NotZero(t, ev.ID, "audit event id assigned on commit")

	got, err := repo.Get(ctx, "ACD000001")
	require.NoError(t, err)
	assert.Equal(t, project.StatusContainment, got.Status)

	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000001")
	require.NoError(t, err)
	require.Len(t, events, 2, "status change committed with its audit event")
	assert.Equal(t, audit.ActionUpdateStatus, events[0].Action)
}

func TestProjectRepository_UpdateStatusNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.UpdateStatus(context.Background(), "ACD999999",
		project.StatusClosed, testEvent("ACD999999", audit.ActionUpdateStatus))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_BindSource(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	audits := NewAuditRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	link := project.SourceLink{SourceID: "W4411", SourceType: project.SourceWarranty}
	ev := testEvent("ACD000001", audit.ActionBinSource)
	require.NoError(t, repo.BindSource(ctx, "ACD000001", link, 0.22, ev))

	got, err := repo.Get(ctx, "ACD000001")
	require.NoError(t, err)
	assert.Equal(t, 0.22, got.BinCoverageRatio)
	require.Len(t, got.Sources, 2)
	assert.Equal(t, "W4411", got.Sources[1].SourceID)

	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000001")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionBinSource, events[0].Action)
}

func TestProjectRepository_BindSourceIdempotentLink(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	// Rebinding the project's own source keeps a single link row but
	// still stores the new coverage.
	link := proj.Sources[0]
	require.NoError(t, repo.BindSource(ctx, "ACD000001", link, 0.22,
		testEvent("ACD000001", audit.ActionBinSource)))

	got, err := repo.Get(ctx, "ACD000001")
	require.NoError(t, err)
	assert.Len(t, got.Sources, 1)
	assert.Equal(t, 0.22, got.BinCoverageRatio)
}

func TestProjectRepository_BindSourceNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	link := project.SourceLink{SourceID: "W1", SourceType: project.SourceWarranty}
	err := repo.BindSource(context.Background(), "ACD999999", link, 0.22,
		testEvent("ACD999999", audit.ActionBinSource))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_SourceOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, repo.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	owner, err := repo.SourceOwner(ctx, proj.Sources[0])
	require.NoError(t, err)
	assert.Equal(t, "ACD000001", owner)

	// Same id under a different source type is unbound.
	owner, err = repo.SourceOwner(ctx, project.SourceLink{
		SourceID:   proj.Sources[0].SourceID,
		SourceType: project.SourceTAC,
	})
	require.NoError(t, err)
	assert.Empty(t, owner)
}
