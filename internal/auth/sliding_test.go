package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

func newSlidingApp(t *testing.T, tm *TokenManager, threshold time.Duration) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(SlidingToken(NewRefreshPolicy(tm, threshold), zap.NewNop()))
	app.Get("/resource", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestSlidingTokenRefreshesNearExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	app := newSlidingApp(t, tm, 15*time.Minute)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 2*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get(HeaderTokenRefreshed))

	renewed := resp.Header.Get(HeaderNewToken)
	require.NotEmpty(t, renewed)

	claims, err := tm.Decode(renewed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	// Renewal preserves the remaining window, it does not reset to 30m.
	assert.InDelta(t, (2 * time.Minute).Seconds(), time.Until(claims.ExpiresAt.Time).Seconds(), 3)
}

func TestSlidingTokenLeavesFreshTokenAlone(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	app := newSlidingApp(t, tm, 15*time.Minute)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 29*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderNewToken))
	assert.Empty(t, resp.Header.Get(HeaderTokenRefreshed))
}

func TestSlidingTokenIgnoresUnauthenticatedRequests(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	app := newSlidingApp(t, tm, 15*time.Minute)

	resp, err := app.Test(httptest.NewRequest("GET", "/resource", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderNewToken))
}

func TestSlidingTokenSwallowsBadCredentials(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	app := newSlidingApp(t, tm, 15*time.Minute)

	req := httptest.NewRequest("GET", "/resource", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)

	// Refresh is best-effort; the request itself must succeed untouched.
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderNewToken))
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("")
	assert.False(t, ok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}
