package service

import (
	"context"
	"testing"

	"entrelinhas/internal/database"
	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupKarmaService(t *testing.T) (*KarmaService, *models.Comment) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	post := &models.Post{Body: "semana pesada, precisava escrever isso", Category: "trabalho", Visible: true}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{PostID: post.ID, Body: "respira, uma coisa de cada vez", Visible: true}
	require.NoError(t, db.Create(comment).Error)

	svc := NewKarmaService(
		repository.NewKarmaRepository(db),
		repository.NewCommentRepository(db),
	)
	return svc, comment
}

func TestKarmaService_VoteCycle(t *testing.T) {
	t.Parallel()
	svc, comment := setupKarmaService(t)
	ctx := context.Background()
	caller := accountCaller(1)

	result, err := svc.Vote(ctx, VoteInput{CommentID: comment.ID, Kind: "up", Caller: caller})
	require.NoError(t, err)
	assert.Equal(t, models.KarmaAdded, result.Action)
	assert.Equal(t, 1, result.Score)

	result, err = svc.Vote(ctx, VoteInput{CommentID: comment.ID, Kind: "down", Caller: caller})
	require.NoError(t, err)
	assert.Equal(t, models.KarmaUpdated, result.Action)
	assert.Equal(t, -1, result.Score)

	result, err = svc.Vote(ctx, VoteInput{CommentID: comment.ID, Kind: "down", Caller: caller})
	require.NoError(t, err)
	assert.Equal(t, models.KarmaRemoved, result.Action)
	assert.Zero(t, result.Score)
}

func TestKarmaService_RejectsUnknownKind(t *testing.T) {
	t.Parallel()
	svc, comment := setupKarmaService(t)

	_, err := svc.Vote(context.Background(), VoteInput{CommentID: comment.ID, Kind: "sideways", Caller: accountCaller(1)})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestKarmaService_UnknownComment(t *testing.T) {
	t.Parallel()
	svc, _ := setupKarmaService(t)

	_, err := svc.Vote(context.Background(), VoteInput{CommentID: 9999, Kind: "up", Caller: accountCaller(1)})
	assert.True(t, models.IsNotFound(err))
}

func TestKarmaService_ScoreIncludesCallerVote(t *testing.T) {
	t.Parallel()
	svc, comment := setupKarmaService(t)
	ctx := context.Background()

	_, err := svc.Vote(ctx, VoteInput{CommentID: comment.ID, Kind: "up", Caller: accountCaller(1)})
	require.NoError(t, err)
	_, err = svc.Vote(ctx, VoteInput{CommentID: comment.ID, Kind: "down", Caller: accountCaller(2)})
	require.NoError(t, err)

	score, err := svc.Score(ctx, comment.ID, accountCaller(1))
	require.NoError(t, err)
	assert.Equal(t, 1, score.UpVotes)
	assert.Equal(t, 1, score.DownVotes)
	assert.Zero(t, score.Score)
	assert.Equal(t, "up", score.UserVote)

	// A caller without an active vote gets no direction back.
	score, err = svc.Score(ctx, comment.ID, accountCaller(3))
	require.NoError(t, err)
	assert.Empty(t, score.UserVote)
}
