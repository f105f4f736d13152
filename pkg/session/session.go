package session

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

// Session is one login of one user. It is referenced by the sid claim of the
// bearer token; deleting the row revokes the token immediately.
type Session struct {
	Id        string
	UserId    int
	CreatedAt time.Time
	ExpiresAt time.Time
}

var ErrSessionNotFound = errors.New("session not found")
var ErrNoSession = errors.New("no active session")

type contextKey string

const sessionKey contextKey = "session"

// WithSession stores the session on the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext retrieves the session stored by WithSession. Returns
// ErrNoSession when the request was anonymous.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey).(Session)
	if !ok {
		log.Trace("session not found in context")
		return Session{}, ErrNoSession
	}
	return s, nil
}
