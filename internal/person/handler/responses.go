package handler

import (
	"pidstore/internal/person/models"
	"pidstore/pkg/domain"
)

type SaveResponse struct {
	ExternalID string `json:"external_id"`
	Message    string `json:"message"`
}

type PersonResponse struct {
	ExternalID  string `json:"external_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

func toSaveResponse(r *models.SaveResult) *SaveResponse {
	return &SaveResponse{
		ExternalID: r.ExternalID.String(),
		Message:    r.Message(),
	}
}

func toPersonResponse(p *models.Person) *PersonResponse {
	return &PersonResponse{
		ExternalID:  p.ExternalID.String(),
		Name:        p.Name,
		Email:       p.Email,
		DateOfBirth: domain.FormatTimestamp(p.DateOfBirth),
	}
}
