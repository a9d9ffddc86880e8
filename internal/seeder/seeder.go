package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pidstore/internal/person/models"
	"pidstore/pkg/domain"
)

// demoNamespace derives stable demo ids, so seeding twice finds the records
// from the first run instead of adding new ones.
var demoNamespace = uuid.MustParse("6f1c7a52-3d0b-4e57-9a43-2a5f0f9e8c11")

// PersonSaver is the save half of the person service.
type PersonSaver interface {
	Save(ctx context.Context, person *models.Person) (*models.SaveResult, error)
}

// Seeder populates the person store with demo data
type Seeder struct {
	persons PersonSaver
	logger  *slog.Logger
}

func New(persons PersonSaver, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{persons: persons, logger: logger}
}

// DemoID returns the external id the seeder assigns to email.
func DemoID(email string) domain.ExternalID {
	return domain.ExternalID(uuid.NewSHA1(demoNamespace, []byte(email)))
}

// SeedAll saves the demo persons and reports how many were new.
func (s *Seeder) SeedAll(ctx context.Context) (int, error) {
	s.logger.InfoContext(ctx, "seeding demo data...")

	demoPersons := []struct {
		name  string
		email string
		born  time.Time
	}{
		{"Alice Anderson", "alice@example.com", time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"Bob Brown", "bob@example.com", time.Date(1979, 11, 2, 0, 0, 0, 0, time.UTC)},
		{"Charlie Chen", "charlie@example.com", time.Date(1992, 7, 21, 0, 0, 0, 0, time.UTC)},
		{"Diana Davis", "diana@example.com", time.Date(2001, 1, 30, 0, 0, 0, 0, time.UTC)},
		{"Eve Evans", "eve@example.com", time.Date(1968, 9, 9, 0, 0, 0, 0, time.UTC)},
	}

	created := 0
	for _, p := range demoPersons {
		result, err := s.persons.Save(ctx, &models.Person{
			ExternalID:  DemoID(p.email),
			Name:        p.name,
			Email:       p.email,
			DateOfBirth: p.born,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", p.email, err)
		}
		if result.Created() {
			created++
		}
	}

	s.logger.InfoContext(ctx, "demo data seeded successfully",
		"persons", len(demoPersons),
		"created", created,
	)
	return created, nil
}
