package ports

import (
	"context"

	"github.com/afiya/health-system/internal/core/domain"
)

// ProgramService exposes program CRUD with name validation and uniqueness
// enforcement.
type ProgramService interface {
	List(ctx context.Context) ([]domain.Program, error)
	Get(ctx context.Context, id int64) (*domain.Program, error)
	Create(ctx context.Context, name string) (*domain.Program, error)
	Update(ctx context.Context, id int64, name string) (*domain.Program, error)
	// Patch renames the program when name is non-nil; a nil name is a
	// no-op that still returns the current record.
	Patch(ctx context.Context, id int64, name *string) (*domain.Program, error)
	Delete(ctx context.Context, id int64) error
}
