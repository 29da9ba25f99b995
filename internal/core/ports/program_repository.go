package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// ProgramRepository defines the persistence contract for health programs.
type ProgramRepository interface {
	// List returns every program ordered by name, ties broken by id.
	List(ctx context.Context) ([]domain.Program, error)
	// FindByID returns domain.ErrProgramNotFound when id is unknown.
	FindByID(ctx context.Context, id int64) (*domain.Program, error)
	// FindByName matches the stored name exactly (case-sensitive).
	FindByName(ctx context.Context, name string) (*domain.Program, error)
	// Create persists a new program and assigns its id.
	Create(ctx context.Context, name string) (*domain.Program, error)
	// UpdateName renames an existing program.
	UpdateName(ctx context.Context, id int64, name string) error
	// Delete removes the program and detaches it from every client's
	// enrollment set. No client may be left referencing the deleted id.
	Delete(ctx context.Context, id int64) error
}
