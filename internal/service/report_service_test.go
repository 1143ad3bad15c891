package service

import (
	"context"
	"fmt"
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

const reportTestThreshold = 5

func setupReportService(t *testing.T) (*ReportService, *gorm.DB, *models.Post) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	post := &models.Post{Body: "não aguento mais fingir que está tudo bem", Category: "outros", Visible: true}
	require.NoError(t, db.Create(post).Error)

	svc := NewReportService(
		repository.NewReportRepository(db, reportTestThreshold),
		repository.NewPostRepository(db),
	)
	return svc, db, post
}

func accountCaller(id uint) *models.Identity {
	return &models.Identity{Kind: models.IdentityAccount, UserID: id}
}

func TestReportService_ThresholdFlow(t *testing.T) {
	t.Parallel()
	svc, db, post := setupReportService(t)
	ctx := context.Background()

	for i := 1; i < reportTestThreshold; i++ {
		outcome, err := svc.Report(ctx, post.ID, accountCaller(uint(i)))
		require.NoError(t, err)
		assert.Equal(t, OutcomeReported, outcome.Outcome)
		assert.Equal(t, i, outcome.Count)
		assert.False(t, outcome.Hidden)
	}

	outcome, err := svc.Report(ctx, post.ID, accountCaller(reportTestThreshold))
	require.NoError(t, err)
	assert.Equal(t, reportTestThreshold, outcome.Count)
	assert.True(t, outcome.Hidden)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.False(t, stored.Visible)

	// Hidden posts still accept reports.
	outcome, err = svc.Report(ctx, post.ID, accountCaller(reportTestThreshold+1))
	require.NoError(t, err)
	assert.Equal(t, OutcomeReported, outcome.Outcome)
	assert.Equal(t, reportTestThreshold+1, outcome.Count)
	assert.True(t, outcome.Hidden)
}

func TestReportService_DuplicateAcknowledgedWithoutEffect(t *testing.T) {
	t.Parallel()
	svc, _, post := setupReportService(t)
	ctx := context.Background()

	_, err := svc.Report(ctx, post.ID, accountCaller(1))
	require.NoError(t, err)

	outcome, err := svc.Report(ctx, post.ID, accountCaller(1))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyReported, outcome.Outcome)
	assert.Equal(t, 1, outcome.Count)
}

func TestReportService_AnonymousReportsAlwaysCount(t *testing.T) {
	t.Parallel()
	svc, _, post := setupReportService(t)
	ctx := context.Background()

	// The same ambient-less caller reports repeatedly; nothing dedups it.
	for i := 1; i <= 3; i++ {
		outcome, err := svc.Report(ctx, post.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, OutcomeReported, outcome.Outcome)
		assert.Equal(t, i, outcome.Count)
	}
}

func TestReportService_WithdrawRestores(t *testing.T) {
	t.Parallel()
	svc, db, post := setupReportService(t)
	ctx := context.Background()

	for i := 1; i <= reportTestThreshold; i++ {
		_, err := svc.Report(ctx, post.ID, accountCaller(uint(i)))
		require.NoError(t, err)
	}

	outcome, err := svc.Withdraw(ctx, post.ID, accountCaller(2))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWithdrawn, outcome.Outcome)
	assert.Equal(t, reportTestThreshold-1, outcome.Count)
	assert.False(t, outcome.Hidden)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.True(t, stored.Visible)
}

func TestReportService_WithdrawWithoutOwnReport(t *testing.T) {
	t.Parallel()
	svc, _, post := setupReportService(t)
	ctx := context.Background()

	_, err := svc.Report(ctx, post.ID, accountCaller(1))
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, post.ID, accountCaller(2))
	assert.True(t, models.IsNotFound(err))

	count, err := svc.Count(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReportService_NilCallerClearsAllReports(t *testing.T) {
	t.Parallel()
	svc, db, post := setupReportService(t)
	ctx := context.Background()

	for i := 1; i <= reportTestThreshold; i++ {
		_, err := svc.Report(ctx, post.ID, accountCaller(uint(i)))
		require.NoError(t, err)
	}

	outcome, err := svc.Withdraw(ctx, post.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCleared, outcome.Outcome)
	assert.Zero(t, outcome.Count)
	assert.False(t, outcome.Hidden)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.True(t, stored.Visible)
}

func TestReportService_UnknownPost(t *testing.T) {
	t.Parallel()
	svc, _, _ := setupReportService(t)
	ctx := context.Background()

	_, err := svc.Report(ctx, 9999, accountCaller(1))
	assert.True(t, models.IsNotFound(err))

	_, err = svc.Withdraw(ctx, 9999, accountCaller(1))
	assert.True(t, models.IsNotFound(err))
}

func TestReportService_ListByPost(t *testing.T) {
	t.Parallel()
	svc, _, post := setupReportService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := svc.Report(ctx, post.ID, accountCaller(uint(i)))
		require.NoError(t, err)
	}

	reports, err := svc.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for i, report := range reports {
		require.NotNil(t, report.ReporterKey)
		assert.Equal(t, fmt.Sprintf("user:%d", i+1), *report.ReporterKey)
	}
}
