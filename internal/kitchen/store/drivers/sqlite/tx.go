package sqlite

import (
	"context"
	"database/sql"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits/rollbacks; outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users             { return &usersRepo{q: t.tx} }
func (t *txStore) Ingredients() store.Ingredients { return &ingredientsRepo{q: t.tx} }
func (t *txStore) Recipes() store.Recipes         { return &recipesRepo{q: t.tx} }
func (t *txStore) Pantry() store.Pantry           { return &pantryRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
