package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix           = "post:%d"
	ReactionCountsKeyPrefix = "post:%d:reactions"
	KarmaScoreKeyPrefix     = "comment:%d:karma"

	// BoardReactionTotalsKey caches the board-wide reaction tally. It is
	// short-lived rather than invalidated, so stats lag toggles slightly.
	BoardReactionTotalsKey = "board:reaction-totals"
)

const (
	PostTTL           = 10 * time.Minute
	ReactionCountsTTL = 5 * time.Minute
	KarmaScoreTTL     = 5 * time.Minute
	BoardStatsTTL     = time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func ReactionCountsKey(postID uint) string {
	return fmt.Sprintf(ReactionCountsKeyPrefix, postID)
}

func KarmaScoreKey(commentID uint) string {
	return fmt.Sprintf(KarmaScoreKeyPrefix, commentID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateReactionCounts(ctx context.Context, postID uint) {
	Invalidate(ctx, ReactionCountsKey(postID))
}

func InvalidateKarmaScore(ctx context.Context, commentID uint) {
	Invalidate(ctx, KarmaScoreKey(commentID))
}
