package repository

import (
	"context"
	"testing"

	"entrelinhas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPostWithKarma(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	karma := NewKarmaRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	first := createTestComment(t, db, post.ID)
	second := createTestComment(t, db, post.ID)

	for _, voter := range []string{"user:1", "user:2", "profile:1"} {
		_, err := karma.Vote(ctx, first.ID, voter, models.KarmaUp)
		require.NoError(t, err)
	}
	_, err := karma.Vote(ctx, first.ID, "profile:2", models.KarmaDown)
	require.NoError(t, err)

	comments, err := repo.ListByPost(ctx, post.ID, false)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Creation order, aggregates attached.
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, 3, comments[0].UpVotes)
	assert.Equal(t, 1, comments[0].DownVotes)
	assert.Equal(t, 2, comments[0].Score)

	assert.Equal(t, second.ID, comments[1].ID)
	assert.Zero(t, comments[1].Score)
}

func TestCommentRepository_HiddenCommentsFiltered(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	visible := createTestComment(t, db, post.ID)
	hidden := createTestComment(t, db, post.ID)
	require.NoError(t, repo.SetVisibility(ctx, hidden.ID, false))

	comments, err := repo.ListByPost(ctx, post.ID, false)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, visible.ID, comments[0].ID)

	_, err = repo.GetByID(ctx, hidden.ID, false)
	assert.True(t, models.IsNotFound(err))

	comments, err = repo.ListByPost(ctx, post.ID, true)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCommentRepository_HighKarma(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	karma := NewKarmaRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)

	best := createTestComment(t, db, post.ID)
	middling := createTestComment(t, db, post.ID)
	createTestComment(t, db, post.ID) // no votes
	hidden := createTestComment(t, db, post.ID)
	require.NoError(t, repo.SetVisibility(ctx, hidden.ID, false))

	for _, voter := range []string{"user:1", "user:2", "user:3"} {
		_, err := karma.Vote(ctx, best.ID, voter, models.KarmaUp)
		require.NoError(t, err)
		_, err = karma.Vote(ctx, hidden.ID, voter, models.KarmaUp)
		require.NoError(t, err)
	}
	_, err := karma.Vote(ctx, middling.ID, "user:1", models.KarmaUp)
	require.NoError(t, err)

	// A hidden comment stays out no matter how well it scores.

	comments, err := repo.HighKarma(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, best.ID, comments[0].ID)
	assert.Equal(t, 3, comments[0].Score)
	assert.Equal(t, middling.ID, comments[1].ID)

	comments, err = repo.HighKarma(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, best.ID, comments[0].ID)
}

func TestCommentRepository_DeleteRemovesKarma(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	post := createTestPost(t, db)
	comment := createTestComment(t, db, post.ID)

	require.NoError(t, db.Create(&models.CommentKarma{
		CommentID: comment.ID, VoterKey: "user:1", Kind: models.KarmaUp,
	}).Error)

	require.NoError(t, repo.Delete(ctx, comment.ID))

	var rows int64
	require.NoError(t, db.Model(&models.CommentKarma{}).Count(&rows).Error)
	assert.Zero(t, rows)

	err := repo.Delete(ctx, comment.ID)
	assert.True(t, models.IsNotFound(err))
}
