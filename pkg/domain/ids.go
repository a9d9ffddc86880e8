// Package domain provides type-safe identifiers and the shared parsing rules
// applied at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "pidstore/pkg/domain-errors"
)

// ExternalID is the externally minted identifier of a person record.
// It is the sole key of the person table.
type ExternalID uuid.UUID

// ParseExternalID is the single identifier check used by both the save and the
// fetch paths. Any RFC 4122 textual form accepted by uuid.Parse is allowed
// (hyphenated, braced, urn:uuid:, or 32 hex digits); the nil UUID is valid.
func ParseExternalID(s string) (ExternalID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ExternalID{}, dErrors.Newf(dErrors.CodeMalformedIdentifier, "Invalid UUID format: %s", s)
	}
	return ExternalID(id), nil
}

// NewExternalID mints a random identifier. Used by tests and tooling only;
// production identifiers always come from the caller.
func NewExternalID() ExternalID {
	return ExternalID(uuid.New())
}

// String returns the canonical lowercase hyphenated form used for storage.
func (id ExternalID) String() string { return uuid.UUID(id).String() }
