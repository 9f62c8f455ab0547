// Package sqlite is the SQLite-backed implementation of store.Store, using
// the pure-Go modernc driver so the binary stays cgo-free.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	_ "modernc.org/sqlite"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories work
// identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite only supports one writer, and pragmas are per-connection, so
	// pin the pool to a single connection.
	db.SetMaxOpenConns(1)

	// Enforce FKs (recipe_ingredients and pantry_items rely on cascades).
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx}, nil
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after commit is a harmless no-op, so defer it unconditionally
	// to cover panics and early error returns.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users             { return &usersRepo{q: s.db} }
func (s *Store) Ingredients() store.Ingredients { return &ingredientsRepo{q: s.db} }
func (s *Store) Recipes() store.Recipes         { return &recipesRepo{q: s.db} }
func (s *Store) Pantry() store.Pantry           { return &pantryRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// requireRow maps a zero-row write to store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Pantry expiry dates are stored as ISO date strings so range comparisons
// stay lexicographic.
const dateLayout = "2006-01-02"

func mapDateNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(dateLayout), Valid: true}
}

func mapNullDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// orderClause builds a safe ORDER BY from a whitelisted sort order. Unknown
// fields fall back to def.
func orderClause(sort store.SortOrder, allowed map[string]string, def string) string {
	col, ok := allowed[sort.Field]
	if !ok {
		return def
	}
	if sort.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}
