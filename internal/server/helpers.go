package server

import (
	"errors"

	"hustlehub/internal/middleware"
	"hustlehub/internal/models"
	"hustlehub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// respondErr writes err with the status its code maps to. Server errors are logged.
func respondErr(c *fiber.Ctx, err error) error {
	status := models.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// parsePage reads the skip and limit query parameters. The services clamp them.
func parsePage(c *fiber.Ctx) service.Page {
	return service.Page{
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", 0),
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = respondErr(c, models.NewBadRequestError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body into dst.
// On failure it writes a 422 response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = respondErr(c, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// currentUser returns the user the gate attached to the request.
func currentUser(c *fiber.Ctx) *models.User {
	return middleware.CurrentUser(c)
}
