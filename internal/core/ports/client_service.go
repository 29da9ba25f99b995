package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// CreateClientInput carries the writable fields for client creation and
// full update. The enrollment set is deliberately absent: it can only
// change through Enroll.
type CreateClientInput struct {
	Name        string
	DateOfBirth string
	ContactInfo string
}

// ClientService exposes client CRUD plus the search and enroll operations.
type ClientService interface {
	List(ctx context.Context) ([]domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	Create(ctx context.Context, in CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, id int64, in CreateClientInput) (*domain.Client, error)
	Patch(ctx context.Context, id int64, upd ClientUpdate) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
	// Search matches q as a case-insensitive substring of client names.
	// An empty q matches everything.
	Search(ctx context.Context, q string) ([]domain.Client, error)
	// Enroll adds the client to the program, idempotently, and returns the
	// client with its updated membership resolved. added reports whether
	// the membership set actually grew. programID is nil when the caller
	// supplied none; the client must still resolve before that is
	// reported, so an unknown client always fails as not-found.
	Enroll(ctx context.Context, clientID int64, programID *int64) (client *domain.Client, added bool, err error)
}
