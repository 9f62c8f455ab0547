package authx

import (
	"net/http"
	"strings"

	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/jwtx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

// Middleware is the authentication gate. It runs once per request, before any
// handler, and either attaches an Identity to the request context or leaves
// the request anonymous. It never rejects a request itself: a missing,
// malformed, expired or badly signed token all downgrade to anonymous, and
// route-level rules (RequireAuth) or ownership checks decide later whether
// anonymous is acceptable.
func Middleware(tokens *jwtx.TokenService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			log := slogx.FromContext(r.Context())

			if err := tokens.Verify(raw); err != nil {
				log.Debug("bearer token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ExtractClaims(raw)
			if err != nil {
				// Verified but the uid claim is unusable. Still anonymous.
				log.Warn("verified token with unusable claims", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				ID:    claims.UserID,
				Email: claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header. The prefix
// must be exactly "Bearer " (case-sensitive, single space); anything else,
// including a bare "Bearer", means no token was presented.
func bearerToken(r *http.Request) (string, bool) {
	tok, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tok == "" {
		return "", false
	}
	return tok, true
}

// RequireAuth rejects anonymous requests with 401. This is the route-level
// boundary where fail-open-to-anonymous turns into fail-closed.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			httpx.WriteProblem(w, http.StatusUnauthorized,
				"Unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
