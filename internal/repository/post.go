package repository

import (
	"context"
	"errors"

	"entrelinhas/internal/models"

	"gorm.io/gorm"
)

// PostListParams narrows and pages post listings.
type PostListParams struct {
	Category      string
	Query         string
	Limit         int
	Offset        int
	IncludeHidden bool
}

// PostStats summarizes the board for the admin dashboard.
type PostStats struct {
	TotalPosts    int64 `json:"total_posts"`
	HiddenPosts   int64 `json:"hidden_posts"`
	TotalComments int64 `json:"total_comments"`
	TotalReports  int64 `json:"total_reports"`
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, includeHidden bool) (*models.Post, error)
	List(ctx context.Context, params PostListParams) ([]models.Post, int64, error)
	SetVisibility(ctx context.Context, id uint, visible bool) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (PostStats, error)
	CategoryCounts(ctx context.Context) (map[string]int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, includeHidden bool) (*models.Post, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM reports WHERE reports.post_id = posts.id) AS report_count")
	if !includeHidden {
		query = query.Scopes(models.VisibleOnly)
	}

	var post models.Post
	if err := query.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, params PostListParams) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if !params.IncludeHidden {
		query = query.Scopes(models.VisibleOnly)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Query != "" {
		query = query.Where("body LIKE ?", "%"+params.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	if err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) SetVisibility(ctx context.Context, id uint, visible bool) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("visible", visible)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

// Delete removes a post and its dependent rows. Reactions, counters,
// comments and reports hang off the post id without FK cascade, so they are
// cleared in the same transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&models.CommentKarma{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.ReactionCount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("post", id)
		}
		return nil
	})
}

func (r *postRepository) Stats(ctx context.Context) (PostStats, error) {
	var stats PostStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Post{}).
		Where("visible = ?", false).
		Count(&stats.HiddenPosts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Comment{}).Count(&stats.TotalComments).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Report{}).Count(&stats.TotalReports).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// CategoryCounts groups visible posts by category.
func (r *postRepository) CategoryCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(models.VisibleOnly).
		Select("category, COUNT(*) AS total").
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}
