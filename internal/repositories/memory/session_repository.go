package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/buildquick/storefront/internal/domain"
	"github.com/buildquick/storefront/internal/repositories"
)

// SessionRepository keeps session state in process memory. It is the default
// backend: carts are session-scoped, so nothing needs to outlive the server.
// The mutex serialises mutations, which preserves the dispatch-order
// guarantee for basket updates.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewSessionRepository constructs an empty in-memory session store.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]domain.Session)}
}

// Get implements repositories.SessionRepository.
func (r *SessionRepository) Get(_ context.Context, sessionID string) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, &repositories.NotFoundError{Kind: "session", ID: id}
	}
	return session.Clone(), nil
}

// Save implements repositories.SessionRepository.
func (r *SessionRepository) Save(_ context.Context, session domain.Session) (domain.Session, error) {
	stored := session.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[stored.ID] = stored
	return stored.Clone(), nil
}

// Update implements repositories.SessionRepository. The mutex is held across
// the whole read-mutate-write, so concurrent updates to one session can never
// lose each other's writes.
func (r *SessionRepository) Update(_ context.Context, sessionID string, mutate func(*domain.Session)) (domain.Session, error) {
	id := strings.TrimSpace(sessionID)
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, &repositories.NotFoundError{Kind: "session", ID: id}
	}

	working := session.Clone()
	mutate(&working)
	r.sessions[id] = working.Clone()
	return working, nil
}

// Delete implements repositories.SessionRepository.
func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, strings.TrimSpace(sessionID))
	return nil
}

// Close implements repositories.SessionRepository.
func (r *SessionRepository) Close(context.Context) error { return nil }
