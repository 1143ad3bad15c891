package server

import (
	"errors"

	"entrelinhas/internal/middleware"
	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
	"entrelinhas/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxPaginationLimit = 100

// ProfileTokenStaleHeader is set to "1" on responses where the caller's
// profile token no longer resolves, so clients can discard it.
const ProfileTokenStaleHeader = "X-Profile-Token-Stale"

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) repository.PostListParams {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return repository.PostListParams{Limit: limit, Offset: offset}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// resolveIdentity resolves the caller's identity from the request: verified
// bearer token first, then profile token, then the ambient client id from
// the payload. A stale profile token is flagged on the response and skipped.
func (s *Server) resolveIdentity(c *fiber.Ctx, ambient string) (*models.Identity, error) {
	res, err := s.identity.Resolve(c.Context(), service.ResolveInput{
		UserID:       middleware.UserIDFromLocals(c),
		ProfileToken: middleware.ExtractProfileToken(c),
		Ambient:      ambient,
	})
	if err != nil {
		return nil, err
	}
	if res.StaleToken {
		c.Set(ProfileTokenStaleHeader, "1")
	}
	return res.Identity, nil
}

// respondServiceError maps application errors onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "CONFLICT":
			return models.RespondWithError(c, fiber.StatusConflict, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
