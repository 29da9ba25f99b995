package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/afiya/health-system/internal/core/domain"
	"github.com/afiya/health-system/internal/core/ports"
)

type ProgramService struct {
	programs ports.ProgramRepository
	logger   zerolog.Logger
}

func NewProgramService(programs ports.ProgramRepository, logger zerolog.Logger) *ProgramService {
	return &ProgramService{programs: programs, logger: logger}
}

func (s *ProgramService) List(ctx context.Context) ([]domain.Program, error) {
	return s.programs.List(ctx)
}

func (s *ProgramService) Get(ctx context.Context, id int64) (*domain.Program, error) {
	return s.programs.FindByID(ctx, id)
}

// Create validates the name and persists a new program. A duplicate name is
// a validation failure on the name field, not a distinct conflict.
func (s *ProgramService) Create(ctx context.Context, name string) (*domain.Program, error) {
	if err := s.validateName(ctx, name, 0); err != nil {
		return nil, err
	}

	program, err := s.programs.Create(ctx, name)
	if err != nil {
		// Unique index backstop: a concurrent create with the same name
		// surfaces here instead of in the pre-check.
		if errors.Is(err, domain.ErrProgramNameTaken) {
			return nil, duplicateNameError(name)
		}
		s.logger.Error().Err(err).Msg("failed to create program")
		return nil, err
	}

	s.logger.Info().Int64("program_id", program.ID).Str("name", program.Name).Msg("program created")
	return program, nil
}

func (s *ProgramService) Update(ctx context.Context, id int64, name string) (*domain.Program, error) {
	if _, err := s.programs.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateName(ctx, name, id); err != nil {
		return nil, err
	}

	if err := s.programs.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, domain.ErrProgramNameTaken) {
			return nil, duplicateNameError(name)
		}
		return nil, err
	}
	return s.programs.FindByID(ctx, id)
}

// Patch renames the program when a name is supplied; without one it simply
// returns the current record.
func (s *ProgramService) Patch(ctx context.Context, id int64, name *string) (*domain.Program, error) {
	if name == nil {
		return s.programs.FindByID(ctx, id)
	}
	return s.Update(ctx, id, *name)
}

// Delete removes the program and detaches it from every enrolled client.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	if _, err := s.programs.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.programs.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("program_id", id).Msg("failed to delete program")
		return err
	}
	s.logger.Info().Int64("program_id", id).Msg("program deleted")
	return nil
}

// validateName checks presence, length, and uniqueness. excludeID skips the
// program being renamed so an unchanged name is not its own duplicate.
func (s *ProgramService) validateName(ctx context.Context, name string, excludeID int64) error {
	ve := &domain.ValidationError{}
	switch {
	case name == "":
		ve.Add("name", "This field is required.")
	case utf8.RuneCountInString(name) > domain.MaxProgramNameLen:
		ve.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxProgramNameLen))
	}
	if !ve.Empty() {
		return ve
	}

	existing, err := s.programs.FindByName(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrProgramNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return duplicateNameError(name)
	}
	return nil
}

func duplicateNameError(name string) *domain.ValidationError {
	return domain.NewValidationError("name", fmt.Sprintf("Program with name %q already exists.", name))
}
