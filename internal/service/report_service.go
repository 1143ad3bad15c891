package service

import (
	"context"

	"entrelinhas/internal/cache"
	"entrelinhas/internal/models"
	"entrelinhas/internal/observability"
	"entrelinhas/internal/repository"
)

// Report outcomes returned to handlers.
const (
	OutcomeReported        = "reported"
	OutcomeAlreadyReported = "already_reported"
	OutcomeWithdrawn       = "withdrawn"
	OutcomeCleared         = "cleared"
)

// ReportOutcome is the report/withdraw response.
type ReportOutcome struct {
	Outcome string `json:"outcome"`
	Count   int    `json:"report_count"`
	// Hidden mirrors the post's visibility after the operation.
	Hidden bool `json:"post_hidden"`
}

// ReportService handles post reports and the visibility flips they drive.
type ReportService struct {
	reports repository.ReportRepository
	posts   repository.PostRepository
}

// NewReportService creates a new ReportService
func NewReportService(reports repository.ReportRepository, posts repository.PostRepository) *ReportService {
	return &ReportService{reports: reports, posts: posts}
}

// Report files a report on a post. Hidden posts still accept reports, so the
// existence check runs in include-hidden mode. A duplicate report from a
// known caller is acknowledged without mutating anything.
func (s *ReportService) Report(ctx context.Context, postID uint, caller *models.Identity) (*ReportOutcome, error) {
	post, err := s.posts.GetByID(ctx, postID, true)
	if err != nil {
		return nil, err
	}

	result, err := s.reports.File(ctx, postID, caller.ReporterKey())
	if err != nil {
		return nil, err
	}

	outcome := OutcomeReported
	if !result.Applied {
		outcome = OutcomeAlreadyReported
	}
	observability.ReportsTotal.WithLabelValues(outcome).Inc()

	hidden := !post.Visible
	if result.VisibilityChanged {
		hidden = true
		observability.PostsAutoHidden.Inc()
		cache.InvalidatePost(ctx, postID)
	}

	return &ReportOutcome{Outcome: outcome, Count: result.Count, Hidden: hidden}, nil
}

// Withdraw removes the caller's report from a post. A caller with no
// resolvable identity clears every report instead, which is the moderation
// reset path. Dropping below the threshold restores the post.
func (s *ReportService) Withdraw(ctx context.Context, postID uint, caller *models.Identity) (*ReportOutcome, error) {
	post, err := s.posts.GetByID(ctx, postID, true)
	if err != nil {
		return nil, err
	}

	key := caller.ReporterKey()
	result, err := s.reports.Withdraw(ctx, postID, key)
	if err != nil {
		return nil, err
	}
	if key != nil && !result.Applied {
		return nil, models.NewNotFoundError("report for post", postID)
	}

	outcome := OutcomeWithdrawn
	if key == nil {
		outcome = OutcomeCleared
	}

	hidden := !post.Visible
	if result.VisibilityChanged {
		hidden = false
		observability.PostsAutoRestored.Inc()
		cache.InvalidatePost(ctx, postID)
	}

	return &ReportOutcome{Outcome: outcome, Count: result.Count, Hidden: hidden}, nil
}

// Count returns the number of active reports on a post.
func (s *ReportService) Count(ctx context.Context, postID uint) (int, error) {
	if _, err := s.posts.GetByID(ctx, postID, true); err != nil {
		return 0, err
	}
	return s.reports.Count(ctx, postID)
}

// ListByPost returns a post's report rows for the moderation view.
func (s *ReportService) ListByPost(ctx context.Context, postID uint) ([]models.Report, error) {
	if _, err := s.posts.GetByID(ctx, postID, true); err != nil {
		return nil, err
	}
	return s.reports.ListByPost(ctx, postID)
}

// ListRecent returns the newest reports across the board.
func (s *ReportService) ListRecent(ctx context.Context, limit int) ([]models.Report, error) {
	return s.reports.ListRecent(ctx, limit)
}

// Reconcile recomputes every post's visibility from current report counts.
func (s *ReportService) Reconcile(ctx context.Context) (int64, error) {
	return s.reports.ReconcileVisibility(ctx)
}
