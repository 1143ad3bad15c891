package server

import (
	"entrelinhas/internal/models"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Body     string `json:"body"`
		Category string `json:"category"`
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

	post, err := s.postService.Create(c.Context(), service.CreatePostInput{
		Body:     req.Body,
		Category: req.Category,
		Caller:   caller,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	params := parsePagination(c, 20)
	params.Category = c.Query("category")

	page, err := s.postService.List(c.Context(), params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	params := parsePagination(c, 10)
	params.Query = q
	params.Category = c.Query("category")

	page, err := s.postService.List(c.Context(), params)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id, false)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": s.postService.Categories()})
}

// GetReactionKinds handles GET /api/reaction-kinds
func (s *Server) GetReactionKinds(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"reactions": s.postService.Reactions()})
}

// GetBoardStats handles GET /api/stats. It summarizes the visible board:
// hidden posts contribute to neither tally.
func (s *Server) GetBoardStats(c *fiber.Ctx) error {
	categories, err := s.postService.CategoryBreakdown(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	reactions, err := s.reactionService.Totals(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts_by_category": categories,
		"reactions":         reactions,
	})
}
