package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// RegisterInput carries the identity fields accepted at registration.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// AuthService implements login, registration, and profile lookup against
// the identity store.
type AuthService interface {
	// Login verifies the credentials and returns a session token together
	// with the authenticated user. A live token for the same user is
	// reused rather than replaced.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}
