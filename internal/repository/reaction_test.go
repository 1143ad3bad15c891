package repository

import (
	"context"
	"testing"

	"entrelinhas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_ToggleAddsThenRemoves(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	action, err := repo.Toggle(ctx, post.ID, "forca", "user:1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionAdded, action)

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["forca"])

	// Same caller toggling again removes the reaction.
	action, err = repo.Toggle(ctx, post.ID, "forca", "user:1")
	require.NoError(t, err)
	assert.Equal(t, models.ReactionRemoved, action)

	counts, err = repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.NotContains(t, counts, "forca", "counter row should be deleted at zero")

	var rows int64
	require.NoError(t, db.Model(&models.Reaction{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestReactionRepository_ToggleIsIdempotentPerCycle(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	// An odd number of toggles leaves exactly one row; an even number none.
	for i := 0; i < 5; i++ {
		_, err := repo.Toggle(ctx, post.ID, "abraco", "profile:3")
		require.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.Reaction{}).
		Where("post_id = ? AND kind = ? AND caller_key = ?", post.ID, "abraco", "profile:3").
		Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["abraco"])
}

func TestReactionRepository_CounterMatchesRows(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	callers := []string{"user:1", "user:2", "profile:1", "anon:device-abc"}
	for _, caller := range callers {
		_, err := repo.Toggle(ctx, post.ID, "te_entendo", caller)
		require.NoError(t, err)
	}
	_, err := repo.Toggle(ctx, post.ID, "coracao", "user:1")
	require.NoError(t, err)

	// One caller backs out.
	_, err = repo.Toggle(ctx, post.ID, "te_entendo", "user:2")
	require.NoError(t, err)

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts["te_entendo"])
	assert.Equal(t, 1, counts["coracao"])

	// Counter always equals the live row count.
	var rows int64
	require.NoError(t, db.Model(&models.Reaction{}).
		Where("post_id = ? AND kind = ?", post.ID, "te_entendo").
		Count(&rows).Error)
	assert.EqualValues(t, counts["te_entendo"], rows)
}

func TestReactionRepository_DistinctKindsAreIndependent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	_, err := repo.Toggle(ctx, post.ID, "forca", "user:1")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, post.ID, "coracao", "user:1")
	require.NoError(t, err)

	// Removing one kind leaves the other untouched.
	_, err = repo.Toggle(ctx, post.ID, "forca", "user:1")
	require.NoError(t, err)

	counts, err := repo.Counts(ctx, post.ID)
	require.NoError(t, err)
	assert.NotContains(t, counts, "forca")
	assert.Equal(t, 1, counts["coracao"])
}

func TestReactionRepository_HasReacted(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	_, err := repo.Toggle(ctx, post.ID, "inspirador", "profile:9")
	require.NoError(t, err)

	has, err := repo.HasReacted(ctx, post.ID, "inspirador", "profile:9")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasReacted(ctx, post.ID, "inspirador", "profile:10")
	require.NoError(t, err)
	assert.False(t, has)
}
