package db

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories are built over DBTX so the same queries run inside and outside
// a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps the shared connection pool and provides transaction scoping.
// A single Store is created at startup and injected into every component.
type Store struct {
	DB *sql.DB
}

// NewStore returns a Store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; a commit failure is returned to the
// caller so no partial write is ever reported as success.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
