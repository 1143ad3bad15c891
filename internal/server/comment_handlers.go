package server

import (
	"entrelinhas/internal/models"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body     string `json:"body"`
		ClientID string `json:"client_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	caller, err := s.resolveIdentity(c, req.ClientID)
	if err != nil {
		return respondServiceError(c, err)
	}

	comment, err := s.commentService.Create(c.Context(), service.CreateCommentInput{
		PostID: postID,
		Body:   req.Body,
		Caller: caller,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByPost(c.Context(), postID, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// GetHighKarmaComments handles GET /api/high-karma-comments
// @Summary List high-karma comments
// @Description Returns the best-scored visible comments across the whole board
// @Tags karma
// @Produce json
// @Param min_score query int false "Minimum net score" default(1)
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} object{comments=[]models.Comment}
// @Router /high-karma-comments [get]
func (s *Server) GetHighKarmaComments(c *fiber.Ctx) error {
	minScore := c.QueryInt("min_score", 1)
	limit := c.QueryInt("limit", 20)

	comments, err := s.commentService.HighKarma(c.Context(), minScore, limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}
