package models

import (
	"strings"

	"pidstore/pkg/domain"
	dErrors "pidstore/pkg/domain-errors"
	"pidstore/pkg/platform/validation"
)

// SaveRequest is the inbound person payload. Fields are pointers so that an
// absent key or JSON null can be told apart from an empty string.
type SaveRequest struct {
	ExternalID  *string `json:"external_id" validate:"required,external_id"`
	Name        *string `json:"name" validate:"required"`
	Email       *string `json:"email" validate:"required,email"`
	DateOfBirth *string `json:"date_of_birth" validate:"required,iso8601"`
}

// Normalize trims whitespace around the structured fields. Name is free text
// and is stored as sent.
func (r *SaveRequest) Normalize() {
	if r == nil {
		return
	}
	trim(r.ExternalID)
	trim(r.Email)
	trim(r.DateOfBirth)
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks presence and syntax of every field. It never touches storage.
func (r *SaveRequest) Validate() error {
	return validation.Validate(r)
}

// FieldTypeError maps a non-string JSON value to the error the field's syntax
// check reports, so a numeric id is a malformed identifier rather than a bad body.
func (r *SaveRequest) FieldTypeError(field, got string) error {
	switch field {
	case "external_id":
		return dErrors.Newf(dErrors.CodeMalformedIdentifier, "Invalid UUID format: %s value", got)
	case "email":
		return dErrors.Newf(dErrors.CodeInvalidEmail, "%s must be a valid email address", field)
	case "date_of_birth":
		return dErrors.Newf(dErrors.CodeInvalidTimestamp, "%s must be an ISO 8601 date or date-time", field)
	case "name":
		return dErrors.Newf(dErrors.CodeValidation, "%s must be a string", field)
	default:
		return nil
	}
}

// ToPerson converts a validated request into the domain record.
func (r *SaveRequest) ToPerson() (*Person, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	id, err := domain.ParseExternalID(*r.ExternalID)
	if err != nil {
		return nil, err
	}
	dob, err := domain.ParseTimestamp(*r.DateOfBirth)
	if err != nil {
		return nil, err
	}
	return &Person{
		ExternalID:  id,
		Name:        *r.Name,
		Email:       *r.Email,
		DateOfBirth: dob,
	}, nil
}
