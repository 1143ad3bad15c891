package repository

import (
	"context"
	"errors"
	"strings"

	"entrelinhas/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// KarmaRepository defines the interface for comment karma voting.
type KarmaRepository interface {
	Vote(ctx context.Context, commentID uint, voterKey string, kind models.KarmaKind) (models.KarmaAction, error)
	Score(ctx context.Context, commentID uint) (models.KarmaScore, error)
	VoterKind(ctx context.Context, commentID uint, voterKey string) (models.KarmaKind, bool, error)
}

type karmaRepository struct {
	db *gorm.DB
}

// NewKarmaRepository creates a new KarmaRepository
func NewKarmaRepository(db *gorm.DB) KarmaRepository {
	return &karmaRepository{db: db}
}

// isUniqueViolation reports whether err is a unique-constraint violation from
// either postgres or sqlite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Vote applies the three-way vote cycle for one voter on one comment: no
// existing row inserts it, a row of the same kind deletes it, and a row of
// the opposite kind flips it. A voter that loses the race to insert hits the
// unique index and is converted to the update path.
func (r *karmaRepository) Vote(ctx context.Context, commentID uint, voterKey string, kind models.KarmaKind) (models.KarmaAction, error) {
	var action models.KarmaAction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CommentKarma
		err := tx.
			Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Savepoint so a lost insert race can fall back to the update
			// path; postgres aborts the whole transaction on a constraint
			// failure otherwise.
			if spErr := tx.SavePoint("vote_insert").Error; spErr != nil {
				return spErr
			}
			row := models.CommentKarma{CommentID: commentID, VoterKey: voterKey, Kind: kind}
			if createErr := tx.Create(&row).Error; createErr != nil {
				if !isUniqueViolation(createErr) {
					return createErr
				}
				if rbErr := tx.RollbackTo("vote_insert").Error; rbErr != nil {
					return rbErr
				}
				// Another vote landed first, so this one becomes an update
				// of that row.
				action = models.KarmaUpdated
				return tx.Model(&models.CommentKarma{}).
					Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
					Update("kind", kind).Error
			}
			action = models.KarmaAdded
			return nil

		case err != nil:
			return err

		case existing.Kind == kind:
			action = models.KarmaRemoved
			return tx.Delete(&models.CommentKarma{}, existing.ID).Error

		default:
			action = models.KarmaUpdated
			return tx.Model(&models.CommentKarma{}).
				Where("id = ?", existing.ID).
				Update("kind", kind).Error
		}
	})
	if err != nil {
		return "", err
	}

	return action, nil
}

func (r *karmaRepository) Score(ctx context.Context, commentID uint) (models.KarmaScore, error) {
	var score models.KarmaScore

	var up int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommentKarma{}).
		Where("comment_id = ? AND kind = ?", commentID, models.KarmaUp).
		Count(&up).Error; err != nil {
		return score, err
	}

	var down int64
	if err := r.db.WithContext(ctx).
		Model(&models.CommentKarma{}).
		Where("comment_id = ? AND kind = ?", commentID, models.KarmaDown).
		Count(&down).Error; err != nil {
		return score, err
	}

	score.UpVotes = int(up)
	score.DownVotes = int(down)
	score.Score = score.UpVotes - score.DownVotes
	return score, nil
}

func (r *karmaRepository) VoterKind(ctx context.Context, commentID uint, voterKey string) (models.KarmaKind, bool, error) {
	var row models.CommentKarma
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Kind, true, nil
}
