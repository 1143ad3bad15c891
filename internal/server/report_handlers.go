package server

import (
	"entrelinhas/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ReportPost handles POST /api/report
// @Summary Report a post
// @Description Files a report; a duplicate from the same known caller is acknowledged without effect
// @Tags reports
// @Accept json
// @Produce json
// @Param request body object{post_id=int,client_id=string} true "Report request"
// @Success 200 {object} service.ReportOutcome
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /report [post]
func (s *Server) ReportPost(c *fiber.Ctx) error {
	var req struct {
		PostID   uint   `json:"post_id"`
		ClientID string `json:"client_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	caller, err := s.resolveIdentity(c, req.ClientID)
	if err != nil {
		return respondServiceError(c, err)
	}

	outcome, err := s.reportService.Report(c.Context(), req.PostID, caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(outcome)
}

// WithdrawReport handles DELETE /api/report/:postId
// @Summary Withdraw a report
// @Description Removes the caller's report; a caller with no resolvable identity clears all reports on the post
// @Tags reports
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} service.ReportOutcome
// @Failure 404 {object} models.ErrorResponse
// @Router /report/{postId} [delete]
func (s *Server) WithdrawReport(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	caller, err := s.resolveIdentity(c, c.Query("client_id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	outcome, err := s.reportService.Withdraw(c.Context(), postID, caller)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(outcome)
}

// GetReportCount handles GET /api/report/:postId/count
func (s *Server) GetReportCount(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	count, err := s.reportService.Count(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"post_id": postID, "report_count": count})
}
