package server

import (
	"entrelinhas/internal/models"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleReaction handles POST /api/reactions/:postId
// @Summary Toggle a reaction on a post
// @Description Adds the caller's reaction if absent, removes it if present, and returns the full tally
// @Tags reactions
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param request body object{type=string,client_id=string} true "Reaction kind and optional ambient client id"
// @Success 200 {object} service.ReactionSummary
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reactions/{postId} [post]
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Type     string `json:"type"`
		ClientID string `json:"client_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Type == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Reaction type is required"))
	}

	caller, err := s.resolveIdentity(c, req.ClientID)
	if err != nil {
		return respondServiceError(c, err)
	}

	summary, err := s.reactionService.Toggle(c.Context(), service.ToggleReactionInput{
		PostID: postID,
		Kind:   req.Type,
		Caller: caller,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(summary)
}

// GetReactionCounts handles GET /api/reactions/:postId
// @Summary Get reaction counts for a post
// @Description Returns the tally for every configured reaction kind, zero-filled, plus the caller's own reactions
// @Tags reactions
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} models.ErrorResponse
// @Router /reactions/{postId} [get]
func (s *Server) GetReactionCounts(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	counts, err := s.reactionService.Counts(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	caller, err := s.resolveIdentity(c, c.Query("client_id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	mine, err := s.reactionService.CallerReactions(c.Context(), postID, caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"reactions": counts, "user_reactions": mine})
}
