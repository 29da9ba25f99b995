package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// AuthRepository defines the interface for identity-store persistence.
type AuthRepository interface {
	// FindByUsername returns domain.ErrUserNotFound for unknown usernames.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
