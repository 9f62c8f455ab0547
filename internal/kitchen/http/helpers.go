package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tabletopkitchen/kitchen/internal/kitchen/service"
	"github.com/tabletopkitchen/kitchen/internal/kitchen/store"
	"github.com/tabletopkitchen/kitchen/pkg/authx"
	"github.com/tabletopkitchen/kitchen/pkg/httpx"
	"github.com/tabletopkitchen/kitchen/pkg/slogx"
)

const dateLayout = "2006-01-02"

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// writeServiceError maps service and store errors to problem responses.
// Unexpected errors are logged and come back as a generic 500 so internals
// never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrWeakPassword):
		httpx.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteProblem(w, http.StatusConflict, "Conflict", "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
	case errors.Is(err, authx.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		httpx.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, authx.ErrForbidden):
		httpx.WriteProblem(w, http.StatusForbidden, "Forbidden", "you do not own this resource")
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// parsePaging reads page/size query params. Missing or malformed values fall
// back to defaults in the service layer.
func parsePaging(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	return page, size
}

// parseSort reads a "field,dir" sort param ("createdAt,desc"). A bare field
// sorts ascending. Field validation happens against the driver whitelist, so
// unknown fields silently fall back to the default order.
func parseSort(r *http.Request) store.SortOrder {
	raw := r.URL.Query().Get("sort")
	if raw == "" {
		return store.SortOrder{}
	}
	field, dir, _ := strings.Cut(raw, ",")
	return store.SortOrder{
		Field: strings.TrimSpace(field),
		Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
	}
}

// parseDateParam reads an ISO date query param. Returns nil when absent,
// an error when present but malformed.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
