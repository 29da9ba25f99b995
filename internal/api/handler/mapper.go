package handler

import "github.com/afiya/health-system/internal/core/domain"

// --- Domain → HTTP response ---

func toProgramResponse(p *domain.Program) programResponse {
	return programResponse{ID: p.ID, Name: p.Name}
}

func toProgramListResponse(programs []domain.Program) []programResponse {
	out := make([]programResponse, len(programs))
	for i := range programs {
		out[i] = toProgramResponse(&programs[i])
	}
	return out
}

func toClientResponse(c *domain.Client) clientResponse {
	refs := make([]programResponse, len(c.EnrolledPrograms))
	for i, ref := range c.EnrolledPrograms {
		refs[i] = programResponse{ID: ref.ID, Name: ref.Name}
	}
	return clientResponse{
		ID:               c.ID,
		Name:             c.Name,
		DateOfBirth:      c.DateOfBirth,
		ContactInfo:      c.ContactInfo,
		EnrolledPrograms: refs,
	}
}

func toClientListResponse(clients []domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i := range clients {
		out[i] = toClientResponse(&clients[i])
	}
	return out
}
