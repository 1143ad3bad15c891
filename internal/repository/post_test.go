package repository

import (
	"context"
	"testing"

	"entrelinhas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_VisibilityGate(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	visible := createTestPost(t, db)
	hidden := createTestPost(t, db)
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", hidden.ID).
		Update("visible", false).Error)

	// The public read path never returns hidden posts.
	_, err := repo.GetByID(ctx, hidden.ID, false)
	assert.True(t, models.IsNotFound(err))

	post, err := repo.GetByID(ctx, visible.ID, false)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, post.ID)

	// The admin path bypasses the gate.
	post, err = repo.GetByID(ctx, hidden.ID, true)
	require.NoError(t, err)
	assert.False(t, post.Visible)

	posts, total, err := repo.List(ctx, PostListParams{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, visible.ID, posts[0].ID)

	posts, total, err = repo.List(ctx, PostListParams{Limit: 10, IncludeHidden: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)
}

func TestPostRepository_GetByIDIncludesReportCount(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	for _, key := range []string{"user:1", "user:2"} {
		k := key
		require.NoError(t, db.Create(&models.Report{PostID: post.ID, ReporterKey: &k}).Error)
	}

	stored, err := repo.GetByID(ctx, post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.ReportCount)
}

func TestPostRepository_ListFilters(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Post{Body: "prova de estatística amanhã", Category: "estudo", Visible: true}).Error)
	require.NoError(t, db.Create(&models.Post{Body: "meu chefe nunca escuta ninguém", Category: "trabalho", Visible: true}).Error)
	require.NoError(t, db.Create(&models.Post{Body: "estudo até tarde e não rende", Category: "estudo", Visible: true}).Error)

	posts, total, err := repo.List(ctx, PostListParams{Category: "estudo", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	posts, total, err = repo.List(ctx, PostListParams{Query: "chefe", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "trabalho", posts[0].Category)
}

func TestPostRepository_DeleteRemovesDependents(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)
	comment := createTestComment(t, db, post.ID)

	require.NoError(t, db.Create(&models.Reaction{PostID: post.ID, Kind: "forca", CallerKey: "user:1"}).Error)
	require.NoError(t, db.Create(&models.ReactionCount{PostID: post.ID, Kind: "forca", Count: 1}).Error)
	require.NoError(t, db.Create(&models.CommentKarma{CommentID: comment.ID, VoterKey: "user:1", Kind: models.KarmaUp}).Error)
	key := "user:1"
	require.NoError(t, db.Create(&models.Report{PostID: post.ID, ReporterKey: &key}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	for name, model := range map[string]interface{}{
		"posts":           &models.Post{},
		"comments":        &models.Comment{},
		"reactions":       &models.Reaction{},
		"reaction_counts": &models.ReactionCount{},
		"reports":         &models.Report{},
		"comment_karmas":  &models.CommentKarma{},
	} {
		var rows int64
		require.NoError(t, db.Model(model).Count(&rows).Error)
		assert.Zero(t, rows, "dangling rows in %s", name)
	}

	err := repo.Delete(ctx, post.ID)
	assert.True(t, models.IsNotFound(err))
}

func TestPostRepository_Stats(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := createTestPost(t, db)
	createTestComment(t, db, post.ID)
	hidden := createTestPost(t, db)
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", hidden.ID).
		Update("visible", false).Error)
	require.NoError(t, db.Create(&models.Report{PostID: hidden.ID}).Error)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.HiddenPosts)
	assert.EqualValues(t, 1, stats.TotalComments)
	assert.EqualValues(t, 1, stats.TotalReports)
}
