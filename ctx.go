package gatekeeper

import "context"

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentityContext sets the authenticated identity in the given context
func WithIdentityContext(ctx context.Context, identity UserRecord) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the authenticated identity in the context
func IdentityFromContext(ctx context.Context) (UserRecord, bool) {
	raw, ok := ctx.Value(identityCtxKey).(UserRecord)
	return raw, ok
}
