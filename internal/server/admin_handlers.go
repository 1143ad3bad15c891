package server

import (
	"entrelinhas/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/admin/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.postService.Stats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// AdminGetPosts handles GET /api/admin/posts. Unlike the public listing it
// includes hidden posts, optionally narrowed to hidden-only for the
// moderation queue.
func (s *Server) AdminGetPosts(c *fiber.Ctx) error {
	params := parsePagination(c, 20)
	params.Category = c.Query("category")
	params.IncludeHidden = true

	page, err := s.postService.List(c.Context(), params)
	if err != nil {
		return respondServiceError(c, err)
	}

	if c.QueryBool("hidden_only", false) {
		hidden := page.Posts[:0]
		for _, post := range page.Posts {
			if !post.Visible {
				hidden = append(hidden, post)
			}
		}
		page.Posts = hidden
	}

	return c.JSON(page)
}

// AdminGetPost handles GET /api/admin/posts/:id, bypassing the visibility
// gate and including the live report count.
func (s *Server) AdminGetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), id, true)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// AdminSetPostVisibility handles PUT /api/admin/posts/:id/visibility
func (s *Server) AdminSetPostVisibility(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil || req.Visible == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("visible is required"))
	}

	if err := s.postService.SetVisibility(c.Context(), id, *req.Visible); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": id, "visible": *req.Visible})
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AdminGetPostReports handles GET /api/admin/posts/:id/reports
func (s *Server) AdminGetPostReports(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reports, err := s.reportService.ListByPost(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"post_id": id, "reports": reports})
}

// AdminClearReports handles DELETE /api/admin/posts/:id/reports. It runs the
// clear-all withdrawal, which also restores the post when the count drops
// below the threshold.
func (s *Server) AdminClearReports(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// A nil identity triggers the clear-all path.
	outcome, err := s.reportService.Withdraw(c.Context(), id, nil)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(outcome)
}

// AdminSetCommentVisibility handles PUT /api/admin/comments/:id/visibility
func (s *Server) AdminSetCommentVisibility(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil || req.Visible == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("visible is required"))
	}

	if err := s.commentService.SetVisibility(c.Context(), id, *req.Visible); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": id, "visible": *req.Visible})
}

// AdminDeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AdminGetReports handles GET /api/admin/reports. It lists the newest
// reports across all posts for the moderation dashboard.
func (s *Server) AdminGetReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	reports, err := s.reportService.ListRecent(c.Context(), limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"reports": reports})
}

// AdminReconcileVisibility handles POST /api/admin/reconcile-visibility
func (s *Server) AdminReconcileVisibility(c *fiber.Ctx) error {
	flipped, err := s.reportService.Reconcile(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"posts_flipped": flipped})
}
