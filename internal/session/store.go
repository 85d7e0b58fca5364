// File: backend/internal/session/store.go
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fntelecomllc/dialflow/backend/internal/five9"
)

// ErrNotFound reports an unknown or deleted session ID.
var ErrNotFound = errors.New("session: not found")

// Store holds all live operator sessions in memory. Reads return value
// snapshots; all mutation goes through Store methods so callers never share
// a mutable Session.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create opens a new session holding the given credentials and returns a
// snapshot of it.
func (s *Store) Create(creds five9.Credentials) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	sess := &Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastUsedAt:   now,
		Credentials:  creds,
		Campaigns:    []five9.Campaign{},
		ContactLists: []five9.ContactList{},
		Candidates:   []string{},
	}
	s.sessions[sess.ID] = sess
	return *sess
}

// Get returns a snapshot of the session with the given ID.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return *sess, nil
}

// Delete removes the session entirely.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Count reports the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetCredentials replaces the session's credentials.
func (s *Store) SetCredentials(id string, creds five9.Credentials) error {
	return s.update(id, func(sess *Session) {
		sess.Credentials = creds
	})
}

// ClearCredentials zeroes the session's credentials while keeping its
// fetched tables and debug captures.
func (s *Store) ClearCredentials(id string) error {
	return s.update(id, func(sess *Session) {
		sess.Credentials = five9.Credentials{}
	})
}

// SaveCampaigns replaces the session's campaign table.
func (s *Store) SaveCampaigns(id string, campaigns []five9.Campaign) error {
	return s.update(id, func(sess *Session) {
		sess.Campaigns = campaigns
	})
}

// SaveContactLists replaces the session's contact-list table.
func (s *Store) SaveContactLists(id string, lists []five9.ContactList) error {
	return s.update(id, func(sess *Session) {
		sess.ContactLists = lists
	})
}

// SaveCandidates replaces the campaigns-containing-selected-lists result.
func (s *Store) SaveCandidates(id string, candidates []string) error {
	return s.update(id, func(sess *Session) {
		sess.Candidates = candidates
	})
}

// RecordDebug stores the raw captures of the latest bridge call.
func (s *Store) RecordDebug(id, stdout, stderr string) error {
	return s.update(id, func(sess *Session) {
		sess.LastStdout = stdout
		sess.LastStderr = stderr
	})
}

func (s *Store) update(id string, apply func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	apply(sess)
	sess.LastUsedAt = time.Now()
	return nil
}
