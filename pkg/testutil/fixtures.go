package testutil

import (
	"time"

	"github.com/google/uuid"

	"pidstore/internal/person/models"
	"pidstore/pkg/domain"
)

// TestIDs provides deterministic identifiers for tests.
var TestIDs = struct {
	Person1 domain.ExternalID
	Person2 domain.ExternalID
	Unknown domain.ExternalID
}{
	Person1: domain.ExternalID(uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")),
	Person2: domain.ExternalID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	Unknown: domain.ExternalID(uuid.MustParse("ffffffff-0000-0000-0000-000000000001")),
}

// PersonBuilder provides a fluent interface for building test persons.
type PersonBuilder struct {
	person models.Person
}

// NewPerson starts a builder populated with the canonical John Doe record.
func NewPerson() *PersonBuilder {
	return &PersonBuilder{person: models.Person{
		ExternalID:  TestIDs.Person1,
		Name:        "John Doe",
		Email:       "john.doe@example.com",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (b *PersonBuilder) WithID(id domain.ExternalID) *PersonBuilder {
	b.person.ExternalID = id
	return b
}

func (b *PersonBuilder) WithName(name string) *PersonBuilder {
	b.person.Name = name
	return b
}

func (b *PersonBuilder) WithEmail(email string) *PersonBuilder {
	b.person.Email = email
	return b
}

func (b *PersonBuilder) WithDateOfBirth(dob time.Time) *PersonBuilder {
	b.person.DateOfBirth = dob.UTC()
	return b
}

// Build returns a fresh copy so builders can be reused.
func (b *PersonBuilder) Build() *models.Person {
	p := b.person
	return &p
}
