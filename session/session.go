package session

import "context"

// Session is the resolved identity of the authenticated caller. It is built
// once per request by the auth middleware and passed through context instead
// of living in process-global state, so every engine call is explicitly
// scoped to a user.
type Session struct {
	UID      string
	Email    string
	Username string
}

type ctxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the caller's session, or ok=false when the request is
// unauthenticated.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
