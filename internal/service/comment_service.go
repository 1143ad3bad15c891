package service

import (
	"context"
	"strings"

	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
)

const maxCommentBodyLength = 2000

// CreateCommentInput carries a new comment.
type CreateCommentInput struct {
	PostID uint
	Body   string
	Caller *models.Identity
}

// CommentService handles comments on posts.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Create validates and stores a comment on a visible post.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("body is required")
	}
	if len(body) > maxCommentBodyLength {
		return nil, models.NewValidationError("body is too long")
	}
	if _, err := s.posts.GetByID(ctx, in.PostID, false); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: in.PostID, Body: body, Visible: true}
	if in.Caller != nil {
		switch in.Caller.Kind {
		case models.IdentityAccount:
			id := in.Caller.UserID
			comment.UserID = &id
		case models.IdentityProfile:
			id := in.Caller.ProfileID
			comment.ProfileID = &id
		}
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListByPost returns a post's comments in creation order with karma
// aggregates attached.
func (s *CommentService) ListByPost(ctx context.Context, postID uint, includeHidden bool) ([]models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID, includeHidden); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID, includeHidden)
}

// HighKarma returns the best-scored visible comments across the board.
func (s *CommentService) HighKarma(ctx context.Context, minScore, limit int) ([]models.Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.comments.HighKarma(ctx, minScore, limit)
}

// SetVisibility is the admin override for a comment's visibility.
func (s *CommentService) SetVisibility(ctx context.Context, id uint, visible bool) error {
	return s.comments.SetVisibility(ctx, id, visible)
}

// Delete permanently removes a comment and its karma rows.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	return s.comments.Delete(ctx, id)
}
