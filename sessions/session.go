// Package sessions holds the process-wide authentication state. The store is
// constructed once at application start and passed by reference to every
// consumer; only the auth service mutates it.
package sessions

import (
	"sync"

	"github.com/dignahq/go-digna-client/users"
)

// Snapshot is a point-in-time read of the session. IsAuthenticated is derived
// from the user being present.
type Snapshot struct {
	User            *users.User
	Error           string
	Loading         bool
	IsAuthenticated bool
}

// Store is the session state holder. Reads take a snapshot; subscribers are
// notified after every mutation.
type Store struct {
	lock      sync.RWMutex
	user      *users.User
	err       string
	loading   bool
	nextSubID int
	subs      map[int]func(Snapshot)
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	var user *users.User
	if s.user != nil {
		copied := *s.user
		user = &copied
	}
	return Snapshot{
		User:            user,
		Error:           s.err,
		Loading:         s.loading,
		IsAuthenticated: s.user != nil,
	}
}

// User returns a copy of the current user, or nil when unauthenticated.
func (s *Store) User() *users.User {
	return s.Snapshot().User
}

func (s *Store) IsAuthenticated() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.user != nil
}

func (s *Store) Error() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.err
}

// Subscribe registers a callback invoked after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.lock.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.lock.Unlock()

	return func() {
		s.lock.Lock()
		delete(s.subs, id)
		s.lock.Unlock()
	}
}

// SetUser replaces the current user. Passing nil clears the session.
func (s *Store) SetUser(user *users.User) {
	s.lock.Lock()
	if user != nil {
		copied := *user
		s.user = &copied
	} else {
		s.user = nil
	}
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.lock.Unlock()
	notify(subs, snap)
}

func (s *Store) SetError(message string) {
	s.lock.Lock()
	s.err = message
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.lock.Unlock()
	notify(subs, snap)
}

func (s *Store) ClearError() {
	s.SetError("")
}

func (s *Store) SetLoading(loading bool) {
	s.lock.Lock()
	s.loading = loading
	snap := s.snapshotLocked()
	subs := s.subscribersLocked()
	s.lock.Unlock()
	notify(subs, snap)
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify runs outside the store lock so subscribers may read the store.
func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
