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

type ClientService struct {
	clients  ports.ClientRepository
	programs ports.ProgramRepository
	logger   zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, programs ports.ProgramRepository, logger zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, programs: programs, logger: logger}
}

func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id)
}

// Create validates all writable fields at once and persists the client with
// an empty enrollment set. Enrollment data in the input is ignored by
// construction: the input type has no field for it.
func (s *ClientService) Create(ctx context.Context, in ports.CreateClientInput) (*domain.Client, error) {
	if err := validateClientFields(in); err != nil {
		return nil, err
	}

	client, err := s.clients.Create(ctx, &domain.Client{
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		ContactInfo: in.ContactInfo,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create client")
		return nil, err
	}

	s.logger.Info().Int64("client_id", client.ID).Str("name", client.Name).Msg("client created")
	return client, nil
}

// Update replaces every writable field. Required fields must be present,
// as on create.
func (s *ClientService) Update(ctx context.Context, id int64, in ports.CreateClientInput) (*domain.Client, error) {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := validateClientFields(in); err != nil {
		return nil, err
	}

	upd := ports.ClientUpdate{
		Name:        &in.Name,
		DateOfBirth: &in.DateOfBirth,
		ContactInfo: &in.ContactInfo,
	}
	if err := s.clients.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.clients.FindByID(ctx, id)
}

// Patch applies only the supplied fields. Supplied fields are validated the
// same way as on create; omitted ones keep their stored value.
func (s *ClientService) Patch(ctx context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error) {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return nil, err
	}

	ve := &domain.ValidationError{}
	if upd.Name != nil {
		checkClientName(ve, *upd.Name)
	}
	if upd.DateOfBirth != nil {
		checkDateOfBirth(ve, *upd.DateOfBirth)
	}
	if upd.ContactInfo != nil {
		checkContactInfo(ve, *upd.ContactInfo)
	}
	if !ve.Empty() {
		return nil, ve
	}

	if err := s.clients.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.clients.FindByID(ctx, id)
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if _, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("client_id", id).Msg("failed to delete client")
		return err
	}
	s.logger.Info().Int64("client_id", id).Msg("client deleted")
	return nil
}

// Search returns clients whose name contains q, ignoring case. An empty q
// matches everything, mirroring List.
func (s *ClientService) Search(ctx context.Context, q string) ([]domain.Client, error) {
	if q == "" {
		return s.clients.List(ctx)
	}
	return s.clients.SearchByName(ctx, q)
}

// Enroll adds the client to the program. The checks are ordered: an unknown
// client is a not-found failure before anything else, a missing or unknown
// program is a validation failure on program_id. A membership that already
// exists is left as is and still succeeds.
func (s *ClientService) Enroll(ctx context.Context, clientID int64, programIDRef *int64) (*domain.Client, bool, error) {
	if _, err := s.clients.FindByID(ctx, clientID); err != nil {
		return nil, false, err
	}

	if programIDRef == nil {
		return nil, false, domain.NewValidationError("program_id", "This field is required.")
	}
	programID := *programIDRef

	if _, err := s.programs.FindByID(ctx, programID); err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			return nil, false, programNotFoundError(programID)
		}
		return nil, false, err
	}

	added, err := s.clients.AddEnrollment(ctx, clientID, programID)
	if err != nil {
		s.logger.Error().Err(err).Int64("client_id", clientID).Int64("program_id", programID).Msg("failed to add enrollment")
		return nil, false, err
	}

	// Re-check after the write: a program delete racing with this enroll
	// must end either as a clean failure or a membership the delete's
	// cascade removes. If the program vanished between the existence check
	// and the add, undo our own entry and fail as validation.
	if _, err := s.programs.FindByID(ctx, programID); err != nil {
		if errors.Is(err, domain.ErrProgramNotFound) {
			if added {
				_ = s.clients.RemoveEnrollment(ctx, clientID, programID)
			}
			return nil, false, programNotFoundError(programID)
		}
		return nil, false, err
	}

	if added {
		s.logger.Info().Int64("client_id", clientID).Int64("program_id", programID).Msg("client enrolled")
	} else {
		s.logger.Debug().Int64("client_id", clientID).Int64("program_id", programID).Msg("enrollment already present")
	}

	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, false, err
	}
	return client, added, nil
}

func validateClientFields(in ports.CreateClientInput) error {
	ve := &domain.ValidationError{}
	checkClientName(ve, in.Name)
	checkDateOfBirth(ve, in.DateOfBirth)
	checkContactInfo(ve, in.ContactInfo)
	if ve.Empty() {
		return nil
	}
	return ve
}

func checkClientName(ve *domain.ValidationError, name string) {
	switch {
	case name == "":
		ve.Add("name", "This field is required.")
	case utf8.RuneCountInString(name) > domain.MaxClientNameLen:
		ve.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxClientNameLen))
	}
}

func checkDateOfBirth(ve *domain.ValidationError, dob string) {
	switch {
	case dob == "":
		ve.Add("date_of_birth", "This field is required.")
	case !domain.ValidDate(dob):
		ve.Add("date_of_birth", "Date has wrong format. Use YYYY-MM-DD.")
	}
}

func checkContactInfo(ve *domain.ValidationError, contact string) {
	if utf8.RuneCountInString(contact) > domain.MaxContactInfoLen {
		ve.Add("contact_info", fmt.Sprintf("Ensure this field has no more than %d characters.", domain.MaxContactInfoLen))
	}
}

func programNotFoundError(programID int64) *domain.ValidationError {
	return domain.NewValidationError("program_id", fmt.Sprintf("Program with ID %d not found.", programID))
}
