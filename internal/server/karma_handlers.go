package server

import (
	"entrelinhas/internal/models"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// VoteCommentKarma handles POST /api/comment-karma
// @Summary Vote on a comment
// @Description Cycles the caller's vote: none adds it, same kind removes it, opposite kind flips it
// @Tags karma
// @Accept json
// @Produce json
// @Param request body object{comment_id=int,karma_type=string,client_id=string} true "Vote request"
// @Success 200 {object} service.VoteResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /comment-karma [post]
func (s *Server) VoteCommentKarma(c *fiber.Ctx) error {
	var req struct {
		CommentID uint   `json:"comment_id"`
		KarmaType string `json:"karma_type"`
		ClientID  string `json:"client_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.CommentID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("comment_id is required"))
	}

	caller, err := s.resolveIdentity(c, req.ClientID)
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.karmaService.Vote(c.Context(), service.VoteInput{
		CommentID: req.CommentID,
		Kind:      req.KarmaType,
		Caller:    caller,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetCommentKarma handles GET /api/comment-karma/:commentId
// @Summary Get a comment's karma score
// @Description Returns the recomputed score plus the caller's own vote when present
// @Tags karma
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} service.CommentScore
// @Failure 404 {object} models.ErrorResponse
// @Router /comment-karma/{commentId} [get]
func (s *Server) GetCommentKarma(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	caller, err := s.resolveIdentity(c, c.Query("client_id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	score, err := s.karmaService.Score(c.Context(), commentID, caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(score)
}
