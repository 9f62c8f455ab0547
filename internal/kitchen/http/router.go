// Package http wires the service layer to the HTTP surface: routing,
// request/response shapes, and the per-route security rules.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *jwtx.TokenService
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService   *service.UserService
	RecipeService *service.RecipeService
	PantryService *service.PantryService
}

func NewRouter(
	tokens *jwtx.TokenService,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Global chain: request logging, then the authentication gate. The gate
	// attaches an identity when a valid bearer token is present and leaves
	// the request anonymous otherwise; per-route RequireAuth decides whether
	// anonymous gets through.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		authx.Middleware(tokens),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerRecipes()
	r.registerPantry()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{UserService: r.UserService}

	// POST /signup - public, moderate rate limit by IP
	r.Mux.Handle("POST /api/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /login - public, strict rate limit by IP (brute-force target)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /me - requires authentication
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			authx.RequireAuth,
		),
	)
}

func (r *Router) registerRecipes() {
	h := &RecipesHandler{RecipeService: r.RecipeService}

	r.Mux.Handle("GET /api/recipes",
		httpx.Chain(http.HandlerFunc(h.HandleSearch), authx.RequireAuth))
	r.Mux.Handle("POST /api/recipes",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), authx.RequireAuth))
	r.Mux.Handle("GET /api/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), authx.RequireAuth))
	r.Mux.Handle("PUT /api/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate), authx.RequireAuth))
	r.Mux.Handle("DELETE /api/recipes/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete), authx.RequireAuth))
}

func (r *Router) registerPantry() {
	h := &PantryHandler{PantryService: r.PantryService}

	r.Mux.Handle("GET /api/pantry",
		httpx.Chain(http.HandlerFunc(h.HandleList), authx.RequireAuth))
	r.Mux.Handle("POST /api/pantry",
		httpx.Chain(http.HandlerFunc(h.HandleAdd), authx.RequireAuth))
	r.Mux.Handle("GET /api/pantry/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), authx.RequireAuth))
	r.Mux.Handle("PUT /api/pantry/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate), authx.RequireAuth))
	r.Mux.Handle("DELETE /api/pantry/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete), authx.RequireAuth))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
