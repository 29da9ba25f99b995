package handler

// createClientRequest deliberately has no enrolled_programs field: the
// membership set is read-only through client writes, so any such key in the
// payload is dropped on bind rather than rejected.
type createClientRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	ContactInfo string `json:"contact_info"`
}

type patchClientRequest struct {
	Name        *string `json:"name"`
	DateOfBirth *string `json:"date_of_birth"`
	ContactInfo *string `json:"contact_info"`
}

type enrollRequest struct {
	ProgramID *int64 `json:"program_id"`
}

type clientResponse struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	DateOfBirth      string            `json:"date_of_birth"`
	ContactInfo      string            `json:"contact_info"`
	EnrolledPrograms []programResponse `json:"enrolled_programs"`
}
