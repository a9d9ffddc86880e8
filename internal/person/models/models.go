package models

import (
	"fmt"
	"time"

	"pidstore/pkg/domain"
)

// Person is the persisted person identification record. Once created it is
// never updated or deleted.
type Person struct {
	ExternalID  domain.ExternalID
	Name        string
	Email       string
	DateOfBirth time.Time
}

// SaveOutcome distinguishes the two successful results of a save.
type SaveOutcome string

const (
	OutcomeCreated       SaveOutcome = "created"
	OutcomeAlreadyExists SaveOutcome = "already_exists"
)

// SaveResult reports what a save did for the given identifier.
type SaveResult struct {
	ExternalID domain.ExternalID
	Outcome    SaveOutcome
}

// Created reports whether this call inserted the record.
func (r *SaveResult) Created() bool {
	return r != nil && r.Outcome == OutcomeCreated
}

// Message is the caller-facing description of the outcome.
func (r *SaveResult) Message() string {
	if r.Created() {
		return fmt.Sprintf("Person with external_id %s saved into database", r.ExternalID)
	}
	return fmt.Sprintf("Person with external_id %s already exists in database", r.ExternalID)
}

// NotFoundMessage is the caller-facing description of a missing record.
func NotFoundMessage(id domain.ExternalID) string {
	return fmt.Sprintf("Person with external_id %s not found in database", id)
}
