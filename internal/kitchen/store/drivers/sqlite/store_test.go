package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createUser(t *testing.T, st *Store, email string) int64 {
	t.Helper()
	id, err := st.Users().Create(context.Background(), domain.User{
		Email:        email,
		Name:         "Test",
		PasswordHash: "$argon2id$stub",
	})
	require.NoError(t, err)
	return id
}

func TestMigrationsAreIdempotent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
}

func TestUsersUniqueEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	createUser(t, st, "alice@example.com")

	_, err := st.Users().Create(context.Background(), domain.User{
		Email:        "alice@example.com",
		Name:         "Dup",
		PasswordHash: "$argon2id$stub",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestIngredientsCaseInsensitive(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	id, err := st.Ingredients().Create(ctx, "Flour")
	require.NoError(t, err)

	got, err := st.Ingredients().GetByName(ctx, "fLoUr")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)

	_, err = st.Ingredients().Create(ctx, "FLOUR")
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().Create(ctx, domain.User{
			Email:        "ghost@example.com",
			Name:         "Ghost",
			PasswordHash: "$argon2id$stub",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Users().GetByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecipeDeleteCascadesLines(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, st, "alice@example.com")

	recipeID, err := st.Recipes().Create(ctx, domain.Recipe{
		OwnerID:     owner,
		Title:       "Toast",
		Steps:       "Toast the bread.",
		CookTimeMin: 3,
	})
	require.NoError(t, err)

	ingID, err := st.Ingredients().Create(ctx, "Bread")
	require.NoError(t, err)
	require.NoError(t, st.Recipes().AddIngredient(ctx, recipeID, ingID, "2 slices"))

	require.NoError(t, st.Recipes().Delete(ctx, recipeID))

	_, err = st.Recipes().GetByID(ctx, recipeID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The ingredient itself survives; only the lines cascade.
	_, err = st.Ingredients().GetByName(ctx, "Bread")
	require.NoError(t, err)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, st.Recipes().Update(ctx, domain.Recipe{ID: 404, Title: "x"}), store.ErrNotFound)
	require.ErrorIs(t, st.Recipes().Delete(ctx, 404), store.ErrNotFound)
	require.ErrorIs(t, st.Pantry().Update(ctx, domain.PantryItem{ID: 404, Amount: "x"}), store.ErrNotFound)
	require.ErrorIs(t, st.Pantry().Delete(ctx, 404), store.ErrNotFound)
}

func TestOrderClauseWhitelist(t *testing.T) {
	t.Parallel()

	allowed := map[string]string{"title": "r.title"}

	require.Equal(t, "r.title ASC", orderClause(store.SortOrder{Field: "title"}, allowed, "r.id DESC"))
	require.Equal(t, "r.title DESC", orderClause(store.SortOrder{Field: "title", Desc: true}, allowed, "r.id DESC"))
	require.Equal(t, "r.id DESC", orderClause(store.SortOrder{Field: "title; DROP TABLE users"}, allowed, "r.id DESC"))
	require.Equal(t, "r.id DESC", orderClause(store.SortOrder{}, allowed, "r.id DESC"))
}
