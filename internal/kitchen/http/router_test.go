package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store/drivers/sqlite"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
)

// newTestRouter wires a full router against a throwaway database, the same
// way app.New does in production.
func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := &jwtx.TokenService{
		Key: jwtx.Key{Secret: []byte("test-secret"), Lifetime: time.Hour},
	}

	router := NewRouter(tokens, "test", st, slog.Default())
	router.UserService = &service.UserService{Store: st, Tokens: tokens}
	router.RecipeService = &service.RecipeService{Store: st}
	router.PantryService = &service.PantryService{Store: st}
	router.ApplyRoutes()
	return router
}

func doJSON(t *testing.T, router *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// signupAndLogin returns a valid access token for a fresh user.
func signupAndLogin(t *testing.T, router *Router, email string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "name": "Test User", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	t.Run("signup login me", func(t *testing.T) {
		token := signupAndLogin(t, router, "alice@example.com")

		rec := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		decodeBody(t, rec, &me)
		require.Equal(t, "alice@example.com", me.Email)
		require.Equal(t, "Test User", me.Name)
	})

	t.Run("me without token is 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	})

	t.Run("duplicate signup is 409", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email": "alice@example.com", "name": "Alice", "password": "password123",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid json is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRecipeEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	alice := signupAndLogin(t, router, "alice@example.com")
	bob := signupAndLogin(t, router, "bob@example.com")

	recipeBody := map[string]any{
		"title":       "Spaghetti Carbonara",
		"steps":       "Boil pasta. Fry guanciale. Combine.",
		"cookTimeMin": 25,
		"tags":        "pasta",
		"ingredients": []map[string]string{
			{"name": "Spaghetti", "quantity": "200g"},
			{"name": "Egg", "quantity": "2"},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/recipes", alice, recipeBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID          int64 `json:"id"`
		Ingredients []struct {
			Name string `json:"name"`
		} `json:"ingredients"`
	}
	decodeBody(t, rec, &created)
	require.NotZero(t, created.ID)
	require.Len(t, created.Ingredients, 2)

	recipeURL := "/api/recipes/" + jsonNumber(created.ID)

	t.Run("anonymous create is 401", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/recipes", "", recipeBody)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("other users can read", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, recipeURL, bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cross-user update is 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, recipeURL, bob, recipeBody)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cross-user delete is 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, recipeURL, bob, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("search with filters", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/recipes?q=carbonara&maxTime=30", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			TotalElements int64 `json:"totalElements"`
		}
		decodeBody(t, rec, &page)
		require.EqualValues(t, 1, page.TotalElements)
	})

	t.Run("owner can delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, recipeURL, alice, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, recipeURL, alice, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/recipes/not-a-number", alice, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPantryEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	alice := signupAndLogin(t, router, "alice@example.com")
	bob := signupAndLogin(t, router, "bob@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/pantry", alice, map[string]any{
		"ingredient": "Milk",
		"amount":     "1L",
		"expiresOn":  "2026-09-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID        int64   `json:"id"`
		ExpiresOn *string `json:"expiresOn"`
	}
	decodeBody(t, rec, &created)
	require.NotNil(t, created.ExpiresOn)
	require.Equal(t, "2026-09-15", *created.ExpiresOn)

	itemURL := "/api/pantry/" + jsonNumber(created.ID)

	t.Run("malformed expiry is 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/pantry", alice, map[string]any{
			"ingredient": "Milk",
			"amount":     "1L",
			"expiresOn":  "15/09/2026",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("cross-user read is 403", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, itemURL, bob, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list is scoped to caller", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/pantry", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			TotalElements int64 `json:"totalElements"`
		}
		decodeBody(t, rec, &page)
		require.Zero(t, page.TotalElements)
	})

	t.Run("update clears expiry", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, itemURL, alice, map[string]any{
			"ingredient": "Milk",
			"amount":     "2L",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var updated struct {
			Amount    string  `json:"amount"`
			ExpiresOn *string `json:"expiresOn"`
		}
		decodeBody(t, rec, &updated)
		require.Equal(t, "2L", updated.Amount)
		require.Nil(t, updated.ExpiresOn)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, itemURL, alice, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, itemURL, alice, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var health struct {
			Status string `json:"status"`
		}
		decodeBody(t, rec, &health)
		require.Equal(t, "ok", health.Status, path)
	}
}

func jsonNumber(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
