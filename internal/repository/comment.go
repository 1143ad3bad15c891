package repository

import (
	"context"
	"errors"

	"entrelinhas/internal/models"

	"gorm.io/gorm"
)

const karmaAggregates = `comments.*,
COALESCE(SUM(CASE WHEN comment_karmas.kind = 'up' THEN 1 ELSE 0 END), 0) AS up_votes,
COALESCE(SUM(CASE WHEN comment_karmas.kind = 'down' THEN 1 ELSE 0 END), 0) AS down_votes,
COALESCE(SUM(CASE WHEN comment_karmas.kind = 'up' THEN 1 WHEN comment_karmas.kind = 'down' THEN -1 ELSE 0 END), 0) AS score`

const karmaScoreExpr = `COALESCE(SUM(CASE WHEN comment_karmas.kind = 'up' THEN 1 WHEN comment_karmas.kind = 'down' THEN -1 ELSE 0 END), 0)`

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint, includeHidden bool) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, includeHidden bool) ([]models.Comment, error)
	HighKarma(ctx context.Context, minScore, limit int) ([]models.Comment, error)
	SetVisibility(ctx context.Context, id uint, visible bool) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) withKarma(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Comment{}).
		Select(karmaAggregates).
		Joins("LEFT JOIN comment_karmas ON comment_karmas.comment_id = comments.id").
		Group("comments.id")
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, includeHidden bool) (*models.Comment, error) {
	query := r.withKarma(ctx).Where("comments.id = ?", id)
	if !includeHidden {
		query = query.Scopes(models.VisibleOnly)
	}

	var comment models.Comment
	if err := query.First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment", id)
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, includeHidden bool) ([]models.Comment, error) {
	query := r.withKarma(ctx).Where("comments.post_id = ?", postID)
	if !includeHidden {
		query = query.Scopes(models.VisibleOnly)
	}

	var comments []models.Comment
	if err := query.Order("comments.created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// HighKarma returns visible comments whose net score is at least minScore,
// best first. The HAVING clause repeats the aggregate because postgres does
// not resolve select aliases there.
func (r *commentRepository) HighKarma(ctx context.Context, minScore, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.withKarma(ctx).
		Scopes(models.VisibleOnly).
		Having(karmaScoreExpr+" >= ?", minScore).
		Order("score DESC, comments.created_at ASC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) SetVisibility(ctx context.Context, id uint, visible bool) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("visible", visible)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("comment", id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).
			Delete(&models.CommentKarma{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("comment", id)
		}
		return nil
	})
}
