package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quality-eu/acdtrack/internal/domain/audit"
	"github.com/quality-eu/acdtrack/internal/domain/project"
)

func TestSeed(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	seeded, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.True(t, seeded)

	repo := NewProjectRepository(db)
	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 5)

	assert.Equal(t, "ACD000001", projects[0].ProjectID)
	assert.Equal(t, project.StatusContainment, projects[0].Status)
	assert.Len(t, projects[0].Sources, 2)
	assert.Equal(t, "ACD000005", projects[4].ProjectID)
	assert.Len(t, projects[4].Sources, 3)

	// The seeded portfolio continues the id sequence.
	next, err := repo.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACD000006", next)

	// Each seeded project carries a CREATE event.
	audits := NewAuditRepository(db)
	events, err := audits.ListByEntity(ctx, audit.EntityProject, "ACD000003")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionCreate, events[0].Action)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	seeded, err := Seed(ctx, db)
	require.NoError(t, err)
	require.True(t, seeded)

	seeded, err = Seed(ctx, db)
	require.NoError(t, err)
	assert.False(t, seeded, "a non-empty store must not be reseeded")

	repo := NewProjectRepository(db)
	projects, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 5)
}
