package session

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownSession signals a session id with no stored state. Callers must
// see it explicitly; silently starting a fresh session would hide lost state
// from the user.
var ErrUnknownSession = errors.New("unknown session id")

// Store is the persistence boundary for sessions. The engine only needs
// get/put semantics; expiry and durable storage belong to the surrounding
// service.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Both Get and Put deep-copy,
// so callers can never mutate stored state without an explicit Put.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	return sess.Clone()
}

func (m *MemoryStore) Put(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return errors.New("session must have an id")
	}
	stored, err := sess.Clone()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[sess.ID] = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
