package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
)

func TestAuditRepository_ListByEntityReverseOrder(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	audits := NewAuditRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	require.NoError(t, projects.Create(ctx, proj, testEvent("ACD000001", audit.ActionCreate)))

	link := project.SourceLink{SourceID: "W7001", SourceType: project.SourceWarranty}
	require.NoError(t, projects.BindSource(ctx, "ACD000001", link, 0.22,
		testEvent("ACD000001", audit.ActionBinSource)))
	require.NoError(t, projects.UpdateStatus(ctx, "ACD000001", project.StatusActive,
		testEvent("ACD000001", audit.ActionUpdateStatus)))

	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000001")
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Most recent first, even when timestamps collide within a second.
	assert.Equal(t, audit.ActionUpdateStatus, events[0].Action)
	assert.Equal(t, audit.ActionBinSource, events[1].Action)
	assert.Equal(t, audit.ActionCreate, events[2].Action)
}

func TestAuditRepository_ListByEntityScopesToEntity(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	audits := NewAuditRepository(db)
	ctx := context.Background()

	for _, id := range []string{"ACD000001", "ACD000002"} {
		proj := testProject(id)
		require.NoError(t, projects.Create(ctx, proj, testEvent(id, audit.ActionCreate)))
	}

	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000002")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ACD000002", events[0].EntityID)
}

func TestAuditRepository_SnapshotsRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	projects := NewProjectRepository(db)
	audits := NewAuditRepository(db)
	ctx := context.Background()

	proj := testProject("ACD000001")
	ev := testEvent("ACD000001", audit.ActionCreate)
	ev.Before = []byte(`{}`)
	ev.After = []byte(`{"project_id":"ACD000001","status":"Ready"}`)
	ev.Timestamp = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, projects.Create(ctx, proj, ev))

	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000001")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.JSONEq(t, `{}`, string(events[0].Before))
	assert.JSONEq(t, `{"project_id":"ACD000001","status":"Ready"}`, string(events[0].After))
	assert.Equal(t, "Quality", events[0].ActorRole)
}
