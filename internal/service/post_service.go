package service

import (
	"context"
	"strings"

	"entrelinhas/internal/cache"
	"entrelinhas/internal/config"
	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
)

const maxPostBodyLength = 5000

// CreatePostInput carries a new confession.
type CreatePostInput struct {
	Body     string
	Category string
	Caller   *models.Identity
}

// PostPage is a paginated post listing.
type PostPage struct {
	Posts  []models.Post `json:"posts"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// PostService handles confession posts.
type PostService struct {
	posts   repository.PostRepository
	catalog *config.Catalog
}

// NewPostService creates a new PostService
func NewPostService(posts repository.PostRepository, catalog *config.Catalog) *PostService {
	return &PostService{posts: posts, catalog: catalog}
}

// Create validates and stores a new post, attributing it to the caller's
// account or profile when one is resolved. Ambient callers post with no
// attribution at all.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("body is required")
	}
	if len(body) > maxPostBodyLength {
		return nil, models.NewValidationError("body is too long")
	}
	if !s.catalog.ValidCategory(in.Category) {
		return nil, models.NewValidationError("unknown category: " + in.Category)
	}

	post := &models.Post{Body: body, Category: in.Category, Visible: true}
	if in.Caller != nil {
		switch in.Caller.Kind {
		case models.IdentityAccount:
			id := in.Caller.UserID
			post.UserID = &id
		case models.IdentityProfile:
			id := in.Caller.ProfileID
			post.ProfileID = &id
		}
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns a single post. Reads for regular callers pass through the
// cache and the visibility gate; admin reads bypass both.
func (s *PostService) Get(ctx context.Context, id uint, includeHidden bool) (*models.Post, error) {
	if includeHidden {
		return s.posts.GetByID(ctx, id, true)
	}

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		fetched, fetchErr := s.posts.GetByID(ctx, id, false)
		if fetchErr != nil {
			return fetchErr
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	// A stale cache entry must not leak a since-hidden post.
	if !post.Visible {
		return nil, models.NewNotFoundError("post", id)
	}
	return &post, nil
}

// List returns a page of posts, optionally narrowed by category or a body
// substring search.
func (s *PostService) List(ctx context.Context, params repository.PostListParams) (*PostPage, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Category != "" && !s.catalog.ValidCategory(params.Category) {
		return nil, models.NewValidationError("unknown category: " + params.Category)
	}

	posts, total, err := s.posts.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

// SetVisibility is the admin override for a post's visibility. It does not
// touch report rows, so a later withdrawal below the threshold can still
// restore the post.
func (s *PostService) SetVisibility(ctx context.Context, id uint, visible bool) error {
	if err := s.posts.SetVisibility(ctx, id, visible); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Delete permanently removes a post and everything attached to it.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateReactionCounts(ctx, id)
	return nil
}

// Stats summarizes the board for the admin dashboard.
func (s *PostService) Stats(ctx context.Context) (repository.PostStats, error) {
	return s.posts.Stats(ctx)
}

// CategoryBreakdown counts visible posts per category, zero-filled so every
// configured category is present.
func (s *PostService) CategoryBreakdown(ctx context.Context) (map[string]int64, error) {
	stored, err := s.posts.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(s.catalog.Categories))
	for _, category := range s.catalog.CategoryValues() {
		counts[category] = stored[category]
	}
	return counts, nil
}

// Categories returns the configured category catalog.
func (s *PostService) Categories() []config.Category {
	return s.catalog.Categories
}

// Reactions returns the configured reaction catalog.
func (s *PostService) Reactions() []config.ReactionKind {
	return s.catalog.Reactions
}
