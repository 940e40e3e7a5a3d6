package server

import (
	"context"
	"errors"

	"fizikblog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed startIndex/limit query parameters.
type Pagination struct {
	Limit      int
	StartIndex int
}

const (
	defaultPageLimit   = 9
	maxPaginationLimit = 100
)

// parsePagination extracts startIndex and limit query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	startIndex := c.QueryInt("startIndex", 0)
	if startIndex < 0 {
		startIndex = 0
	}

	return Pagination{
		Limit:      limit,
		StartIndex: startIndex,
	}
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

// callerID returns the authenticated user ID from Locals, or 0 for an
// anonymous caller.
func callerID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// isAdminByUserID checks whether the given user has admin privileges.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.userRepo.IsAdmin(ctx, userID)
}
