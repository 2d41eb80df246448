package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Response headers signalling a transparent credential renewal.
const (
	HeaderNewToken       = "X-New-Token"
	HeaderTokenRefreshed = "X-Token-Refreshed"
)

// SlidingToken returns middleware that renews credentials close to expiry.
// Requests without a bearer token pass through untouched, and a failed
// renewal never fails the request it rides on.
func SlidingToken(policy *RefreshPolicy, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return err
		}
		if !policy.ShouldRefresh(token) {
			return err
		}

		renewed, expiresAt, renewErr := policy.Renew(token)
		if renewErr != nil {
			logger.Debug("credential renewal failed", zap.Error(renewErr))
			return err
		}

		c.Set(HeaderNewToken, renewed)
		c.Set(HeaderTokenRefreshed, "true")
		logger.Debug("credential renewed", zap.Time("expires_at", expiresAt))
		return err
	}
}
