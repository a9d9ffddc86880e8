package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"pidstore/internal/person/models"
	"pidstore/internal/sentinel"
	"pidstore/pkg/domain"
	txcontext "pidstore/pkg/platform/tx"
)

const personTable = "person"

var personColumns = []string{"external_id", "name", "email", "date_of_birth"}

// SQLStore persists person records through database/sql. It joins the
// transaction carried in the context when there is one.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL constructs a SQL-backed person store for the given dialect.
func NewSQL(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Create inserts the record. The primary key decides races: a conflicting
// insert affects no rows (or fails with a duplicate-key error) and is reported
// as sentinel.ErrAlreadyUsed.
func (s *SQLStore) Create(ctx context.Context, p *models.Person) error {
	if p == nil {
		return fmt.Errorf("person is required")
	}
	insert := sq.Insert(personTable).
		Columns(personColumns...).
		Values(p.ExternalID.String(), p.Name, p.Email, s.dialect.encodeTime(p.DateOfBirth)).
		PlaceholderFormat(s.dialect.placeholder)
	if s.dialect.conflictClause != "" {
		insert = insert.Suffix(s.dialect.conflictClause)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert person: %w", err)
	}

	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if s.dialect.isDuplicateKey(err) {
			return fmt.Errorf("person %s: %w", p.ExternalID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert person: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert person rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("person %s: %w", p.ExternalID, sentinel.ErrAlreadyUsed)
	}
	return nil
}

// FindByID retrieves a person by external identifier.
func (s *SQLStore) FindByID(ctx context.Context, id domain.ExternalID) (*models.Person, error) {
	query, args, err := sq.Select(personColumns...).
		From(personTable).
		Where(sq.Eq{"external_id": id.String()}).
		PlaceholderFormat(s.dialect.placeholder).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select person: %w", err)
	}

	person, err := scanPerson(s.execer(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}
	return person, nil
}

// Count returns the number of stored records.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(personTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count persons: %w", err)
	}
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return count, nil
}

type personRow interface {
	Scan(dest ...any) error
}

func scanPerson(row personRow) (*models.Person, error) {
	var (
		rawID  string
		person models.Person
		rawDOB any
	)
	if err := row.Scan(&rawID, &person.Name, &person.Email, &rawDOB); err != nil {
		return nil, err
	}
	id, err := domain.ParseExternalID(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored external_id %q: %w", rawID, err)
	}
	dob, err := decodeTime(rawDOB)
	if err != nil {
		return nil, err
	}
	person.ExternalID = id
	person.DateOfBirth = dob
	return &person, nil
}
