package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// Sentinel errors for credential validation. Callers distinguish the two:
// an invalid credential is rejected outright, an expired one prompts
// re-authentication.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrCredentialExpired = errors.New("credential expired")
)

// minRemaining floors the remaining lifetime so a renewal issued at the
// last instant never produces an already-dead token.
const minRemaining = time.Second

// TokenManager handles issuing and validating JWT credentials.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager with the default token lifetime.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. Subject carries the user ID.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issue builds and signs a credential valid for the default lifetime.
func (tm *TokenManager) Issue(subjectID, username string, role domain.Role) (string, time.Time, error) {
	return tm.IssueWithTTL(subjectID, username, role, tm.ttl)
}

// IssueWithTTL builds and signs a credential valid for the given lifetime.
func (tm *TokenManager) IssueWithTTL(subjectID, username string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Decode validates the credential and returns its claims. It fails with
// ErrCredentialExpired for a well-formed but time-barred token and with
// ErrInvalidCredential for anything else.
func (tm *TokenManager) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidCredential
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrCredentialExpired
		}
		return nil, ErrInvalidCredential
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.ExpiresAt == nil {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}

// RemainingLifetime returns the duration until the credential expires,
// floored at one second. Failure kinds match Decode.
func (tm *TokenManager) RemainingLifetime(tokenStr string) (time.Duration, error) {
	claims, err := tm.Decode(tokenStr)
	if err != nil {
		return 0, err
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < minRemaining {
		remaining = minRemaining
	}
	return remaining, nil
}

// DefaultTTL exposes the configured default token lifetime.
func (tm *TokenManager) DefaultTTL() time.Duration {
	return tm.ttl
}
