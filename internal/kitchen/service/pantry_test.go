package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestPantryAddAndGet(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st, Tokens: newTestTokens()}
	pantry := &PantryService{Store: st}

	_, aliceCtx := signupUser(t, users, "alice@example.com")
	_, bobCtx := signupUser(t, users, "bob@example.com")

	expiry := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	t.Run("add with expiry", func(t *testing.T) {
		item, err := pantry.Add(aliceCtx, PantryInput{
			Ingredient: "Milk",
			Amount:     "1L",
			ExpiresOn:  datePtr(expiry),
		})
		require.NoError(t, err)
		require.NotZero(t, item.ID)
		require.Equal(t, "Milk", item.IngredientName)
		require.NotNil(t, item.ExpiresOn)
		require.Equal(t, "2026-09-15", item.ExpiresOn.Format("2006-01-02"))

		got, err := pantry.Get(aliceCtx, item.ID)
		require.NoError(t, err)
		require.Equal(t, item.ID, got.ID)
	})

	t.Run("add without expiry", func(t *testing.T) {
		item, err := pantry.Add(aliceCtx, PantryInput{Ingredient: "Salt", Amount: "500g"})
		require.NoError(t, err)
		require.Nil(t, item.ExpiresOn)
	})

	t.Run("anonymous cannot add", func(t *testing.T) {
		_, err := pantry.Add(context.Background(), PantryInput{Ingredient: "Flour", Amount: "1kg"})
		require.ErrorIs(t, err, authx.ErrUnauthenticated)
	})

	t.Run("empty amount is rejected", func(t *testing.T) {
		_, err := pantry.Add(aliceCtx, PantryInput{Ingredient: "Flour", Amount: " "})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("items are private to their owner", func(t *testing.T) {
		item, err := pantry.Add(aliceCtx, PantryInput{Ingredient: "Butter", Amount: "250g"})
		require.NoError(t, err)

		_, err = pantry.Get(bobCtx, item.ID)
		require.ErrorIs(t, err, authx.ErrForbidden)

		_, err = pantry.Update(bobCtx, item.ID, PantryInput{Ingredient: "Butter", Amount: "1kg"})
		require.ErrorIs(t, err, authx.ErrForbidden)

		require.ErrorIs(t, pantry.Delete(bobCtx, item.ID), authx.ErrForbidden)
	})
}

func TestPantryListFilters(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st, Tokens: newTestTokens()}
	pantry := &PantryService{Store: st}

	_, aliceCtx := signupUser(t, users, "alice@example.com")
	_, bobCtx := signupUser(t, users, "bob@example.com")

	soon := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	_, err := pantry.Add(aliceCtx, PantryInput{Ingredient: "Milk", Amount: "1L", ExpiresOn: datePtr(soon)})
	require.NoError(t, err)
	_, err = pantry.Add(aliceCtx, PantryInput{Ingredient: "Frozen Peas", Amount: "500g", ExpiresOn: datePtr(later)})
	require.NoError(t, err)
	_, err = pantry.Add(bobCtx, PantryInput{Ingredient: "Milk", Amount: "2L"})
	require.NoError(t, err)

	t.Run("list sees only own items", func(t *testing.T) {
		page, err := pantry.List(aliceCtx, PantryList{})
		require.NoError(t, err)
		require.EqualValues(t, 2, page.TotalElements)

		bobPage, err := pantry.List(bobCtx, PantryList{})
		require.NoError(t, err)
		require.EqualValues(t, 1, bobPage.TotalElements)
	})

	t.Run("ingredient filter", func(t *testing.T) {
		page, err := pantry.List(aliceCtx, PantryList{Ingredient: "milk"})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.TotalElements)
		require.Equal(t, "Milk", page.Content[0].IngredientName)
	})

	t.Run("expiry range filter", func(t *testing.T) {
		page, err := pantry.List(aliceCtx, PantryList{
			ExpFrom: datePtr(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)),
			ExpTo:   datePtr(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.TotalElements)
		require.Equal(t, "Milk", page.Content[0].IngredientName)
	})

	t.Run("anonymous cannot list", func(t *testing.T) {
		_, err := pantry.List(context.Background(), PantryList{})
		require.ErrorIs(t, err, authx.ErrUnauthenticated)
	})
}

func TestPantryUpdateAndDelete(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st, Tokens: newTestTokens()}
	pantry := &PantryService{Store: st}

	_, aliceCtx := signupUser(t, users, "alice@example.com")

	item, err := pantry.Add(aliceCtx, PantryInput{
		Ingredient: "Yoghurt",
		Amount:     "500g",
		ExpiresOn:  datePtr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	t.Run("update rewrites amount and clears expiry", func(t *testing.T) {
		updated, err := pantry.Update(aliceCtx, item.ID, PantryInput{
			Ingredient: "Yoghurt",
			Amount:     "250g",
		})
		require.NoError(t, err)
		require.Equal(t, "250g", updated.Amount)
		require.Nil(t, updated.ExpiresOn)
	})

	t.Run("delete removes the item", func(t *testing.T) {
		require.NoError(t, pantry.Delete(aliceCtx, item.ID))

		_, err := pantry.Get(aliceCtx, item.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := pantry.Update(aliceCtx, 99999, PantryInput{Ingredient: "Ghost", Amount: "1"})
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, pantry.Delete(aliceCtx, 99999), store.ErrNotFound)
	})
}
