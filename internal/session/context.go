package session

import (
	"context"
)

// sessionKey is a context key type for storing verified sessions.
type sessionKey struct{}

// WithSession stores a verified session in the context.
// This is typically called by the session middleware after token verification.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// CurrentUser retrieves the verified session from the context.
// Returns (session, true) if present, or (nil, false) if no session was set.
func CurrentUser(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}
