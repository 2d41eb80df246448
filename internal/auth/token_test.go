package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

func TestIssueDecodeRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.Issue("user-1", "alice", domain.RoleWaiter)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleWaiter, claims.Role)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestDecodeExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, -time.Minute)
	require.NoError(t, err)

	claims, err := tm.Decode(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrCredentialExpired)
}

func TestDecodeInvalid(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Decode("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewTokenManager("other-secret", 30)
		token, _, err := other.Issue("user-1", "alice", domain.RoleWaiter)
		require.NoError(t, err)

		_, err = tm.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := tm.Decode("")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})
}

func TestRemainingLifetime(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, 10*time.Minute)
	require.NoError(t, err)

	remaining, err := tm.RemainingLifetime(token)
	require.NoError(t, err)
	assert.InDelta(t, (10 * time.Minute).Seconds(), remaining.Seconds(), 2)
}

func TestRemainingLifetimeFloor(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	token, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, time.Second)
	require.NoError(t, err)

	remaining, err := tm.RemainingLifetime(token)
	require.NoError(t, err)
	assert.Equal(t, time.Second, remaining)
}

func TestRemainingLifetimeFailureKinds(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	_, err := tm.RemainingLifetime("garbage")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	expired, _, err := tm.IssueWithTTL("user-1", "alice", domain.RoleWaiter, -time.Minute)
	require.NoError(t, err)
	_, err = tm.RemainingLifetime(expired)
	assert.ErrorIs(t, err, ErrCredentialExpired)
}
