// Package authx holds the request-scoped identity, the authentication gate
// middleware that derives it from a bearer token, and the ownership rule used
// by mutating operations. Identity only ever comes out of a verified token;
// nothing else in the codebase is allowed to construct one from request data.
package authx

import "context"

// Identity is the authenticated caller. Immutable, created once per request
// by the gate, discarded with the request context.
type Identity struct {
	ID    int64
	Email string
	Name  string
}

type identityKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached to ctx, if any. A missing
// identity means the request is anonymous, which is a normal state, not an
// error.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
