package ports

import (
	"context"
	"time"
)

// SessionStore holds issued session tokens so they can be reused on login
// and revoked server-side. Tokens expire after their TTL.
type SessionStore interface {
	// Save records token as the active session for userID.
	Save(ctx context.Context, token string, userID int64, ttl time.Duration) error
	// Lookup resolves a presented token to the user it was issued for.
	// Unknown or expired tokens yield domain.ErrSessionNotFound.
	Lookup(ctx context.Context, token string) (int64, error)
	// ActiveToken returns the live token for userID, if any.
	ActiveToken(ctx context.Context, userID int64) (string, error)
}
