// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"entrelinhas/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for reaction toggles and counters.
type ReactionRepository interface {
	Toggle(ctx context.Context, postID uint, kind, callerKey string) (models.ReactionAction, error)
	Counts(ctx context.Context, postID uint) (map[string]int, error)
	TotalsByKind(ctx context.Context) (map[string]int64, error)
	HasReacted(ctx context.Context, postID uint, kind, callerKey string) (bool, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Toggle flips the (post, kind, caller) reaction and keeps the denormalized
// counter in step within the same transaction. The unique index arbitrates
// concurrent toggles of the same triple: the insert either lands or reports
// a conflict, so a racing caller takes the remove path instead of
// duplicating the row.
func (r *reactionRepository) Toggle(ctx context.Context, postID uint, kind, callerKey string) (models.ReactionAction, error) {
	var action models.ReactionAction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reaction := models.Reaction{PostID: postID, Kind: kind, CallerKey: callerKey}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "kind"}, {Name: "caller_key"}},
			DoNothing: true,
		}).Create(&reaction)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			action = models.ReactionAdded
			return tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "post_id"}, {Name: "kind"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"count": gorm.Expr("reaction_counts.count + 1"),
				}),
			}).Create(&models.ReactionCount{PostID: postID, Kind: kind, Count: 1}).Error
		}

		// Row already present: this toggle removes it.
		action = models.ReactionRemoved
		if err := tx.
			Where("post_id = ? AND kind = ? AND caller_key = ?", postID, kind, callerKey).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ReactionCount{}).
			Where("post_id = ? AND kind = ?", postID, kind).
			Update("count", gorm.Expr("count - 1")).Error; err != nil {
			return err
		}
		// Counter rows exist only while at least one reaction remains.
		return tx.
			Where("post_id = ? AND kind = ? AND count <= 0", postID, kind).
			Delete(&models.ReactionCount{}).Error
	})
	if err != nil {
		return "", err
	}

	return action, nil
}

func (r *reactionRepository) Counts(ctx context.Context, postID uint) (map[string]int, error) {
	var rows []models.ReactionCount
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Count
	}
	return counts, nil
}

// TotalsByKind sums the denormalized per-post counters across all visible
// posts, grouped by reaction kind.
func (r *reactionRepository) TotalsByKind(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.ReactionCount{}).
		Joins("JOIN posts ON posts.id = reaction_counts.post_id AND posts.visible = ?", true).
		Select("reaction_counts.kind, SUM(reaction_counts.count) AS total").
		Group("reaction_counts.kind").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Kind] = row.Total
	}
	return totals, nil
}

func (r *reactionRepository) HasReacted(ctx context.Context, postID uint, kind, callerKey string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where("post_id = ? AND kind = ? AND caller_key = ?", postID, kind, callerKey).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
