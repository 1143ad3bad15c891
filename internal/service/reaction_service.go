package service

import (
	"context"

	"entrelinhas/internal/cache"
	"entrelinhas/internal/config"
	"entrelinhas/internal/models"
	"entrelinhas/internal/observability"
	"entrelinhas/internal/repository"
)

// ToggleReactionInput carries a single reaction toggle request.
type ToggleReactionInput struct {
	PostID uint
	Kind   string
	Caller *models.Identity
}

// ReactionSummary is the toggle response: the action performed plus the
// post's full reaction tally, zero-filled for every configured kind.
type ReactionSummary struct {
	Action models.ReactionAction `json:"action"`
	Counts map[string]int        `json:"reactions"`
}

// ReactionService handles reaction toggles and count reads.
type ReactionService struct {
	reactions repository.ReactionRepository
	posts     repository.PostRepository
	catalog   *config.Catalog
}

// NewReactionService creates a new ReactionService
func NewReactionService(reactions repository.ReactionRepository, posts repository.PostRepository, catalog *config.Catalog) *ReactionService {
	return &ReactionService{reactions: reactions, posts: posts, catalog: catalog}
}

// Toggle validates the kind against the catalog before touching storage,
// then flips the caller's reaction and returns the fresh tally.
func (s *ReactionService) Toggle(ctx context.Context, in ToggleReactionInput) (*ReactionSummary, error) {
	if !s.catalog.ValidReaction(in.Kind) {
		return nil, models.NewValidationError("unknown reaction kind: " + in.Kind)
	}
	if _, err := s.posts.GetByID(ctx, in.PostID, false); err != nil {
		return nil, err
	}

	action, err := s.reactions.Toggle(ctx, in.PostID, in.Kind, in.Caller.Key())
	if err != nil {
		return nil, err
	}
	observability.ReactionToggles.WithLabelValues(string(action)).Inc()
	cache.InvalidateReactionCounts(ctx, in.PostID)

	counts, err := s.tally(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	return &ReactionSummary{Action: action, Counts: counts}, nil
}

// Counts returns the post's reaction tally, zero-filled so every configured
// kind is present in the response.
func (s *ReactionService) Counts(ctx context.Context, postID uint) (map[string]int, error) {
	if _, err := s.posts.GetByID(ctx, postID, false); err != nil {
		return nil, err
	}

	var counts map[string]int
	err := cache.Aside(ctx, cache.ReactionCountsKey(postID), &counts, cache.ReactionCountsTTL, func() error {
		var fetchErr error
		counts, fetchErr = s.tally(ctx, postID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Totals sums reactions across all visible posts, zero-filled per kind.
func (s *ReactionService) Totals(ctx context.Context) (map[string]int64, error) {
	var totals map[string]int64
	err := cache.Aside(ctx, cache.BoardReactionTotalsKey, &totals, cache.BoardStatsTTL, func() error {
		stored, fetchErr := s.reactions.TotalsByKind(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		totals = make(map[string]int64, len(s.catalog.Reactions))
		for _, kind := range s.catalog.ReactionValues() {
			totals[kind] = stored[kind]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// HasReacted reports whether the caller currently has the given reaction on
// the post. An anonymous caller shares the sentinel key, so the answer is
// only meaningful for resolved identities.
func (s *ReactionService) HasReacted(ctx context.Context, postID uint, kind string, caller *models.Identity) (bool, error) {
	if !s.catalog.ValidReaction(kind) {
		return false, models.NewValidationError("unknown reaction kind: " + kind)
	}
	return s.reactions.HasReacted(ctx, postID, kind, caller.Key())
}

// CallerReactions lists the kinds the caller currently has on the post, in
// catalog order. A fully anonymous caller gets an empty list rather than the
// sentinel key's shared reactions.
func (s *ReactionService) CallerReactions(ctx context.Context, postID uint, caller *models.Identity) ([]string, error) {
	kinds := []string{}
	if caller.Key() == models.AnonymousCallerKey {
		return kinds, nil
	}
	for _, kind := range s.catalog.ReactionValues() {
		reacted, err := s.HasReacted(ctx, postID, kind, caller)
		if err != nil {
			return nil, err
		}
		if reacted {
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

func (s *ReactionService) tally(ctx context.Context, postID uint) (map[string]int, error) {
	stored, err := s.reactions.Counts(ctx, postID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(s.catalog.Reactions))
	for _, kind := range s.catalog.ReactionValues() {
		counts[kind] = stored[kind]
	}
	return counts, nil
}
