package http

import (
	"net/http"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It checks database connectivity and
// returns 503 while the service cannot do useful work.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
