package auth

import "time"

// RefreshPolicy implements sliding sessions: a credential nearing expiry is
// replaced by one covering only the time it had left. Renewal therefore
// never grants more lifetime than re-authentication would have.
type RefreshPolicy struct {
	tokens    *TokenManager
	threshold time.Duration
}

// NewRefreshPolicy builds a policy over the given codec and refresh window.
func NewRefreshPolicy(tokens *TokenManager, threshold time.Duration) *RefreshPolicy {
	return &RefreshPolicy{tokens: tokens, threshold: threshold}
}

// ShouldRefresh reports whether the credential decodes cleanly and has less
// than the threshold remaining. Invalid or expired credentials never
// qualify; those must force re-authentication instead.
func (p *RefreshPolicy) ShouldRefresh(tokenStr string) bool {
	claims, err := p.tokens.Decode(tokenStr)
	if err != nil {
		return false
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	return remaining > 0 && remaining < p.threshold
}

// Renew issues a replacement credential for exactly the remaining lifetime
// of the current one. Callers confirm ShouldRefresh first; renewing an
// invalid or expired credential fails with ErrInvalidCredential.
func (p *RefreshPolicy) Renew(tokenStr string) (string, time.Time, error) {
	claims, err := p.tokens.Decode(tokenStr)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredential
	}
	remaining, err := p.tokens.RemainingLifetime(tokenStr)
	if err != nil {
		return "", time.Time{}, ErrInvalidCredential
	}
	return p.tokens.IssueWithTTL(claims.Subject, claims.Username, claims.Role, remaining)
}
