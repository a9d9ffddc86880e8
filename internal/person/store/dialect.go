package store

import (
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the SQL backends: bind parameter
// style, how a conflicting insert is expressed, how a duplicate key surfaces
// as a driver error, and how timestamps travel.
type Dialect struct {
	Name           string
	placeholder    sq.PlaceholderFormat
	conflictClause string
	isDuplicateKey func(error) bool
	encodeTime     func(time.Time) any
}

var (
	Postgres = Dialect{
		Name:           "postgres",
		placeholder:    sq.Dollar,
		conflictClause: "ON CONFLICT (external_id) DO NOTHING",
		isDuplicateKey: isPostgresUniqueViolation,
		encodeTime:     func(t time.Time) any { return t.UTC() },
	}
	SQLite = Dialect{
		Name:           "sqlite",
		placeholder:    sq.Question,
		conflictClause: "ON CONFLICT (external_id) DO NOTHING",
		isDuplicateKey: isSQLiteConstraintViolation,
		encodeTime:     func(t time.Time) any { return t.UTC().Format(time.RFC3339Nano) },
	}
	// MySQL has no conflict clause that leaves other errors intact, so the
	// duplicate-key error itself is the signal.
	MySQL = Dialect{
		Name:           "mysql",
		placeholder:    sq.Question,
		isDuplicateKey: isMySQLDuplicateEntry,
		encodeTime:     func(t time.Time) any { return t.UTC() },
	}
)

// DialectFor resolves a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql dialect %q", driver)
	}
}

func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isSQLiteConstraintViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isMySQLDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

// storedTimeLayouts covers what the drivers hand back when a timestamp column
// is scanned as text rather than time.Time.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

func decodeTime(v any) (time.Time, error) {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case []byte:
		s = string(t)
	case string:
		s = t
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
	for _, layout := range storedTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable stored timestamp %q", s)
}
