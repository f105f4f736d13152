package session

import (
	"context"
	"sync"
)

// RepositoryStub is an in-memory Repository for service tests.
type RepositoryStub struct {
	mu       sync.Mutex
	sessions map[string]Session
	nonces   map[string]struct{}

	createErr error
	deleteErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		sessions: make(map[string]Session),
		nonces:   make(map[string]struct{}),
	}
}

func (r *RepositoryStub) CreateSession(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[s.Id] = s
	return nil
}

func (r *RepositoryStub) GetSession(ctx context.Context, id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *RepositoryStub) DeleteSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.sessions, id)
	return nil
}

func (r *RepositoryStub) StoreNonce(ctx context.Context, nonce string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nonces[nonce] = struct{}{}
	return nil
}

func (r *RepositoryStub) ConsumeNonce(ctx context.Context, nonce string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.nonces[nonce]
	delete(r.nonces, nonce)
	return ok, nil
}

// SetCreateError makes CreateSession fail with err.
func (r *RepositoryStub) SetCreateError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createErr = err
}

// SetDeleteError makes DeleteSession fail with err.
func (r *RepositoryStub) SetDeleteError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteErr = err
}

// Sessions returns all stored sessions (useful for test assertions).
func (r *RepositoryStub) Sessions() []Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Reset clears all state (useful between tests).
func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]Session)
	r.nonces = make(map[string]struct{})
	r.createErr = nil
	r.deleteErr = nil
}
