// Package tx carries a *sql.Tx through context.Context and runs units of work
// inside a database transaction.
package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "pidstore/pkg/domain-errors"
)

type ctxKey struct{}

// WithTx returns a context carrying the transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, tx)
}

// From returns the transaction stored in ctx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// DefaultTimeout bounds a transaction whose caller context has no deadline.
const DefaultTimeout = 5 * time.Second

// SQLRunner runs functions inside a database/sql transaction. Stores read the
// transaction back out of the context passed to fn.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// Option configures an SQLRunner.
type Option func(*SQLRunner)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *SQLRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewSQLRunner(db *sql.DB, opts ...Option) *SQLRunner {
	r := &SQLRunner{db: db, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTx begins a transaction, runs fn, and commits when fn succeeds.
// Nested calls join the outer transaction.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback after commit is a no-op
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
