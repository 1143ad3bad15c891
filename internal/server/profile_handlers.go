package server

import (
	"time"

	"entrelinhas/internal/middleware"
	"entrelinhas/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateProfile handles POST /api/profiles
// @Summary Create an anonymous profile
// @Description Issues a pseudonymous profile with an opaque session token
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body object{nickname=string,bio=string} true "Profile request"
// @Success 201 {object} object{profile=models.Profile,token=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /profiles [post]
func (s *Server) CreateProfile(c *fiber.Ctx) error {
	var req struct {
		Nickname string `json:"nickname"`
		Bio      string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Nickname == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Nickname is required"))
	}

	profile := &models.Profile{
		Nickname: req.Nickname,
		Bio:      req.Bio,
		Token:    uuid.NewString(),
	}
	if err := s.profileRepo.Create(c.Context(), profile); err != nil {
		return respondServiceError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.ProfileTokenCookie,
		Value:    profile.Token,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   s.config.IsProduction(),
	})

	// The token is returned once; clients without cookie support must hold
	// it themselves and send it in the profile header.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"profile": profile,
		"token":   profile.Token,
	})
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	token := middleware.ExtractProfileToken(c)
	if token == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Profile token required"))
	}

	profile, err := s.profileRepo.GetByToken(c.Context(), token)
	if err != nil {
		if models.IsNotFound(err) {
			c.Set(ProfileTokenStaleHeader, "1")
		}
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}
