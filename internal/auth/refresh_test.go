package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

func TestShouldRefresh(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	policy := NewRefreshPolicy(tm, 15*time.Minute)

	t.Run("plenty of time left", func(t *testing.T) {
		token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 29*time.Minute)
		require.NoError(t, err)
		assert.False(t, policy.ShouldRefresh(token))
	})

	t.Run("inside refresh window", func(t *testing.T) {
		token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 2*time.Minute)
		require.NoError(t, err)
		assert.True(t, policy.ShouldRefresh(token))
	})

	t.Run("expired never refreshes", func(t *testing.T) {
		token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, -time.Minute)
		require.NoError(t, err)
		assert.False(t, policy.ShouldRefresh(token))
	})

	t.Run("invalid never refreshes", func(t *testing.T) {
		assert.False(t, policy.ShouldRefresh("garbage"))
	})
}

func TestRenewPreservesRemainingLifetime(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	policy := NewRefreshPolicy(tm, 15*time.Minute)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 2*time.Minute)
	require.NoError(t, err)
	require.True(t, policy.ShouldRefresh(token))

	renewed, expiresAt, err := policy.Renew(token)
	require.NoError(t, err)

	// The session slides: the replacement covers the time that was left,
	// not a fresh 30 minute window.
	assert.InDelta(t, (2 * time.Minute).Seconds(), time.Until(expiresAt).Seconds(), 3)

	claims, err := tm.Decode(renewed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleWaiter, claims.Role)
}

func TestRenewRejectsBadCredentials(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	policy := NewRefreshPolicy(tm, 15*time.Minute)

	_, _, err := policy.Renew("garbage")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	expired, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, -time.Minute)
	require.NoError(t, err)
	_, _, err = policy.Renew(expired)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
