package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/domain"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store/drivers/sqlite"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
)

// newTestStore opens a migrated throwaway database. A real file beats
// :memory: because the sql pool may open more than one connection.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newTestTokens() *jwtx.TokenService {
	return &jwtx.TokenService{
		Key: jwtx.Key{Secret: []byte("test-secret"), Lifetime: time.Hour},
	}
}

// signupUser registers a user and returns it together with a context
// carrying their identity.
func signupUser(t *testing.T, users *UserService, email string) (domain.User, context.Context) {
	t.Helper()

	u, err := users.Signup(context.Background(), email, "Test User", "password123")
	require.NoError(t, err)

	ctx := authx.WithIdentity(context.Background(), authx.Identity{ID: u.ID, Email: u.Email})
	return u, ctx
}
