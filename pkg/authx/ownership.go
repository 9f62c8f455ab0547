package authx

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated: the context carries no identity at all.
	ErrUnauthenticated = errors.New("authx: unauthenticated")

	// ErrForbidden: an identity is present but does not own the resource.
	ErrForbidden = errors.New("authx: forbidden")
)

// Authorize is the single authorization rule in the system: the caller may
// touch a resource only when their id equals the resource's owner id. There
// is no admin override and no role hierarchy. Callers invoke this immediately
// before every update or delete of an owner-scoped resource; the result is
// never cached.
func Authorize(ctx context.Context, ownerID int64) error {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if id.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
