package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller, decoupled from the
// persistence layer's user representation.
type Principal struct {
	SubjectID string
	Username  string
	Role      domain.Role
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("missing or malformed authorization header")
	}

	claims, err := m.tokens.Decode(token)
	if err != nil {
		if errors.Is(err, ErrCredentialExpired) {
			return apperrors.NewTokenExpired()
		}
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return apperrors.NewForbidden("account suspended")
	}

	c.Locals(principalKey, &Principal{
		SubjectID: user.ID,
		Username:  user.Username,
		Role:      user.Role,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
