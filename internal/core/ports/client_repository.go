package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// ClientUpdate carries the writable client fields for an update. Nil fields
// are left untouched, which makes the same struct serve both full and
// partial updates.
type ClientUpdate struct {
	Name        *string
	DateOfBirth *string
	ContactInfo *string
}

// ClientRepository defines the persistence contract for clients and their
// enrollment memberships. Every read returns clients with enrolled programs
// fully resolved to id + name.
type ClientRepository interface {
	// List returns every client ordered by name, ties broken by id.
	List(ctx context.Context) ([]domain.Client, error)
	// FindByID returns domain.ErrClientNotFound when id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	// SearchByName returns clients whose name contains q as a
	// case-insensitive substring, in list order.
	SearchByName(ctx context.Context, q string) ([]domain.Client, error)
	// Create persists a new client and assigns its id. The enrollment set
	// starts empty regardless of input.
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// Update applies the non-nil fields of upd.
	Update(ctx context.Context, id int64, upd ClientUpdate) error
	// Delete removes the client together with its membership entries.
	// Programs are untouched.
	Delete(ctx context.Context, id int64) error
	// AddEnrollment adds programID to the client's membership set. The add
	// is atomic and idempotent: added reports whether the set actually
	// grew, and concurrent adds against the same client union rather than
	// overwrite.
	AddEnrollment(ctx context.Context, clientID, programID int64) (added bool, err error)
	// RemoveEnrollment removes programID from the client's membership set.
	RemoveEnrollment(ctx context.Context, clientID, programID int64) error
}
