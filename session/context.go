package session

import "context"

type idContextKey struct{}

// WithID stores a session id in the context for transports that route by
// context rather than by explicit argument, such as the adk adapter.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idContextKey{}, id)
}

// IDFromContext returns the session id set by WithID.
func IDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(idContextKey{})
	if value == nil {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
