package auth

import "context"

type ownerContextKey struct{}

func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, owner)
}

// OwnerFromContext returns the owner id resolved by the auth middleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerContextKey{}).(string)
	return owner, ok && owner != ""
}
