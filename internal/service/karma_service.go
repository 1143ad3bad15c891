package service

import (
	"context"

	"entrelinhas/internal/cache"
	"entrelinhas/internal/models"
	"entrelinhas/internal/observability"
	"entrelinhas/internal/repository"
)

// VoteInput carries a single karma vote request.
type VoteInput struct {
	CommentID uint
	Kind      string
	Caller    *models.Identity
}

// VoteResult is the vote response: which of the three transitions happened
// plus the comment's recomputed score.
type VoteResult struct {
	Action models.KarmaAction `json:"action"`
	models.KarmaScore
	UserVote string `json:"user_karma,omitempty"`
}

// CommentScore is the score read response, including the caller's own vote
// when one exists.
type CommentScore struct {
	models.KarmaScore
	UserVote string `json:"user_karma,omitempty"`
}

// KarmaService handles comment karma voting and score reads.
type KarmaService struct {
	karma    repository.KarmaRepository
	comments repository.CommentRepository
}

// NewKarmaService creates a new KarmaService
func NewKarmaService(karma repository.KarmaRepository, comments repository.CommentRepository) *KarmaService {
	return &KarmaService{karma: karma, comments: comments}
}

// Vote runs one step of the three-way vote cycle for the caller and returns
// the recomputed score. The score is always recounted from vote rows, never
// kept as a stored tally.
func (s *KarmaService) Vote(ctx context.Context, in VoteInput) (*VoteResult, error) {
	kind := models.KarmaKind(in.Kind)
	if !kind.Valid() {
		return nil, models.NewValidationError("vote kind must be 'up' or 'down'")
	}
	if _, err := s.comments.GetByID(ctx, in.CommentID, false); err != nil {
		return nil, err
	}

	action, err := s.karma.Vote(ctx, in.CommentID, in.Caller.Key(), kind)
	if err != nil {
		return nil, err
	}
	observability.KarmaVotes.WithLabelValues(string(action)).Inc()
	cache.InvalidateKarmaScore(ctx, in.CommentID)

	score, err := s.karma.Score(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	result := &VoteResult{Action: action, KarmaScore: score}
	if action != models.KarmaRemoved {
		result.UserVote = string(kind)
	}
	return result, nil
}

// Score returns the comment's aggregate score and, when the caller has an
// active vote, its direction.
func (s *KarmaService) Score(ctx context.Context, commentID uint, caller *models.Identity) (*CommentScore, error) {
	if _, err := s.comments.GetByID(ctx, commentID, false); err != nil {
		return nil, err
	}

	var score models.KarmaScore
	err := cache.Aside(ctx, cache.KarmaScoreKey(commentID), &score, cache.KarmaScoreTTL, func() error {
		var fetchErr error
		score, fetchErr = s.karma.Score(ctx, commentID)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	result := &CommentScore{KarmaScore: score}
	if kind, ok, err := s.karma.VoterKind(ctx, commentID, caller.Key()); err != nil {
		return nil, err
	} else if ok {
		result.UserVote = string(kind)
	}
	return result, nil
}
