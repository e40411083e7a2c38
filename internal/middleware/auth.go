package middleware

import (
	"context"
	"strings"

	"hustlehub/internal/auth"
	"hustlehub/internal/models"
	"hustlehub/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the gate.
const (
	LocalUser   = "user"
	LocalUserID = "userID"
)

// UserLookup resolves a token subject to a stored user.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticator turns a bearer token into the active user making the request.
type Authenticator struct {
	tokens auth.TokenIssuer
	users  UserLookup
}

// NewAuthenticator returns the gate used on every protected route.
func NewAuthenticator(tokens auth.TokenIssuer, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", false
	}
	return credentials, true
}

// Required rejects requests without a valid token for an existing, active user.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			observability.AuthFailures.WithLabelValues("missing_credentials").Inc()
			err := models.NewNotAuthenticatedError()
			return models.RespondWithError(c, models.StatusCode(err), err)
		}

		userID, ok := a.tokens.Validate(token)
		if !ok {
			observability.AuthFailures.WithLabelValues("invalid_token").Inc()
			err := models.NewInvalidTokenError()
			return models.RespondWithError(c, models.StatusCode(err), err)
		}

		user, err := a.users.GetByID(c.UserContext(), userID)
		if err != nil && !models.IsCode(err, models.CodeNotFound) {
			Logger.ErrorContext(c.UserContext(), "auth gate user lookup failed", "error", err, "user_id", userID)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		}
		if user == nil || !user.IsActive {
			observability.AuthFailures.WithLabelValues("unknown_user").Inc()
			err := models.NewUserNotFoundError()
			return models.RespondWithError(c, models.StatusCode(err), err)
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalUserID, user.ID)
		c.SetUserContext(WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// CurrentUser returns the user stored by the gate, or nil on unprotected routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalUser).(*models.User)
	return user
}
