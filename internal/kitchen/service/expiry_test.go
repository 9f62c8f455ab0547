package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
)

func TestExpirySweeperLifecycle(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	sweeper := NewExpirySweeper(st, slog.Default(), time.Hour, 72*time.Hour)

	sweeper.Start()
	sweeper.Stop() // must not hang or panic on an empty database
}

func TestExpirySweeperDefaults(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	sweeper := NewExpirySweeper(st, slog.Default(), 0, 0)
	require.Equal(t, 12*time.Hour, sweeper.Interval)
	require.Equal(t, 72*time.Hour, sweeper.Window)
}

func TestExpirySweeperFindsExpiring(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	users := &UserService{Store: st, Tokens: newTestTokens()}
	pantry := &PantryService{Store: st}

	_, aliceCtx := signupUser(t, users, "alice@example.com")

	now := time.Now().UTC()
	_, err := pantry.Add(aliceCtx, PantryInput{
		Ingredient: "Milk",
		Amount:     "1L",
		ExpiresOn:  datePtr(now.Add(24 * time.Hour)),
	})
	require.NoError(t, err)
	_, err = pantry.Add(aliceCtx, PantryInput{
		Ingredient: "Honey",
		Amount:     "1 jar",
		ExpiresOn:  datePtr(now.Add(365 * 24 * time.Hour)),
	})
	require.NoError(t, err)
	_, err = pantry.Add(aliceCtx, PantryInput{Ingredient: "Salt", Amount: "1kg"})
	require.NoError(t, err)

	items, err := st.Pantry().FindExpiring(context.Background(), now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Milk", items[0].IngredientName)

	// Sweep itself must run cleanly over the same data.
	sweeper := NewExpirySweeper(st, slog.Default(), time.Hour, 72*time.Hour)
	sweeper.Sweep(context.Background())
}

func TestGroupByUser(t *testing.T) {
	t.Parallel()

	groups := groupByUser([]domain.PantryItem{
		{UserID: 1, IngredientName: "Milk"},
		{UserID: 2, IngredientName: "Cheese"},
		{UserID: 1, IngredientName: "Eggs"},
	})

	require.Len(t, groups, 2)
	require.Equal(t, []string{"Milk", "Eggs"}, groups[1])
	require.Equal(t, []string{"Cheese"}, groups[2])
}
