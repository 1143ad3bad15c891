package repository

import (
	"context"

	"entrelinhas/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportResult describes the outcome of filing or withdrawing a report.
type ReportResult struct {
	// Applied is false when a duplicate report was ignored or when a
	// withdrawal found nothing to remove.
	Applied bool
	// Count is the post's report count after the operation.
	Count int
	// VisibilityChanged is true when the operation crossed the hide
	// threshold and flipped the post's visibility.
	VisibilityChanged bool
}

// ReportRepository defines the interface for post reports and the
// threshold-driven visibility flips they cause.
type ReportRepository interface {
	File(ctx context.Context, postID uint, reporterKey *string) (ReportResult, error)
	Withdraw(ctx context.Context, postID uint, reporterKey *string) (ReportResult, error)
	Count(ctx context.Context, postID uint) (int, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Report, error)
	ListRecent(ctx context.Context, limit int) ([]models.Report, error)
	ReconcileVisibility(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db        *gorm.DB
	threshold int
}

// NewReportRepository creates a new ReportRepository. Posts are hidden once
// their report count reaches threshold and restored when it drops below it.
func NewReportRepository(db *gorm.DB, threshold int) ReportRepository {
	return &reportRepository{db: db, threshold: threshold}
}

// File records a report against a post. Reports from a known caller are
// deduplicated on (post, reporter); anonymous reports carry a NULL reporter
// key and always insert. Crossing the threshold hides the post in the same
// transaction.
func (r *reportRepository) File(ctx context.Context, postID uint, reporterKey *string) (ReportResult, error) {
	var result ReportResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report := models.Report{PostID: postID, ReporterKey: reporterKey}

		if reporterKey != nil {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "post_id"}, {Name: "reporter_key"}},
				DoNothing: true,
			}).Create(&report)
			if res.Error != nil {
				return res.Error
			}
			result.Applied = res.RowsAffected == 1
		} else {
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
			result.Applied = true
		}

		var count int64
		if err := tx.Model(&models.Report{}).
			Where("post_id = ?", postID).
			Count(&count).Error; err != nil {
			return err
		}
		result.Count = int(count)

		if !result.Applied || result.Count < r.threshold {
			return nil
		}

		res := tx.Model(&models.Post{}).
			Where("id = ? AND visible = ?", postID, true).
			Update("visible", false)
		if res.Error != nil {
			return res.Error
		}
		result.VisibilityChanged = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return ReportResult{}, err
	}

	return result, nil
}

// Withdraw removes report rows for a post. A known caller removes only its
// own report; a nil reporter key clears every report on the post, which is
// the moderation reset path. Dropping below the threshold restores the
// post's visibility in the same transaction.
func (r *reportRepository) Withdraw(ctx context.Context, postID uint, reporterKey *string) (ReportResult, error) {
	var result ReportResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("post_id = ?", postID)
		if reporterKey != nil {
			query = query.Where("reporter_key = ?", *reporterKey)
		}
		res := query.Delete(&models.Report{})
		if res.Error != nil {
			return res.Error
		}
		result.Applied = res.RowsAffected > 0

		var count int64
		if err := tx.Model(&models.Report{}).
			Where("post_id = ?", postID).
			Count(&count).Error; err != nil {
			return err
		}
		result.Count = int(count)

		// The clear-all path re-evaluates visibility even when nothing was
		// removed; a targeted withdrawal that matched no row changes nothing.
		if reporterKey != nil && !result.Applied {
			return nil
		}
		if result.Count >= r.threshold {
			return nil
		}

		restore := tx.Model(&models.Post{}).
			Where("id = ? AND visible = ?", postID, false).
			Update("visible", true)
		if restore.Error != nil {
			return restore.Error
		}
		result.VisibilityChanged = restore.RowsAffected == 1
		return nil
	})
	if err != nil {
		return ReportResult{}, err
	}

	return result, nil
}

func (r *reportRepository) Count(ctx context.Context, postID uint) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *reportRepository) ListByPost(ctx context.Context, postID uint) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ListRecent returns the newest reports across the whole board, for the
// moderation dashboard.
func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ReconcileVisibility recomputes every post's visibility from its current
// report count. It is the offline repair pass for counts that drifted while
// the threshold setting changed. Returns the number of posts flipped.
func (r *reportRepository) ReconcileVisibility(ctx context.Context) (int64, error) {
	var flipped int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overThreshold := tx.Model(&models.Report{}).
			Select("post_id").
			Group("post_id").
			Having("COUNT(*) >= ?", r.threshold)

		hide := tx.Model(&models.Post{}).
			Where("visible = ? AND id IN (?)", true, overThreshold).
			Update("visible", false)
		if hide.Error != nil {
			return hide.Error
		}

		overAgain := tx.Model(&models.Report{}).
			Select("post_id").
			Group("post_id").
			Having("COUNT(*) >= ?", r.threshold)

		restore := tx.Model(&models.Post{}).
			Where("visible = ? AND id NOT IN (?)", false, overAgain).
			Update("visible", true)
		if restore.Error != nil {
			return restore.Error
		}

		flipped = hide.RowsAffected + restore.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return flipped, nil
}
