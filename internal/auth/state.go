// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth owns the client's session: who is logged in, with which
// credential, and how that survives process restarts.
//
// A Session is the in-process view. The persistent Record mirrors it in the
// credential store. Service is the only writer of both: Login, Register and
// Logout change them on request, and Reconcile derives the session from the
// record when the process starts.
package auth

import "sync"

// Phase is where a session stands.
type Phase int

const (
	// LoggedOut: no session. The zero State.
	LoggedOut Phase = iota
	// Provisional: restored from the store, not yet trusted or verified.
	Provisional
	// Confirmed: produced by a login, trusted under remember-me, or verified
	// by the identity provider.
	Confirmed
)

func (p Phase) String() string {
	switch p {
	case Provisional:
		return "provisional"
	case Confirmed:
		return "confirmed"
	default:
		return "logged out"
	}
}

// State is a read-only copy of the session.
type State struct {
	Phase      Phase
	UserID     string
	Username   string
	Credential string
}

// IsLoggedIn reports whether the state is provisional or confirmed.
func (s State) IsLoggedIn() bool { return s.Phase != LoggedOut }

// Session is the process-wide session container. Consumers read it through
// Snapshot and Subscribe; only this package mutates it.
type Session struct {
	mu        sync.Mutex
	state     State
	observers []observer
	nextID    int
}

type observer struct {
	id int
	fn func(State)
}

// NewSession returns a logged-out session.
func NewSession() *Session { return &Session{} }

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called after every transition, in
// registration order, on the goroutine that made the change.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) set(next State) {
	// logged in implies a credential, logged out carries nothing
	if next.Phase == LoggedOut || next.Credential == "" {
		next = State{}
	}

	s.mu.Lock()
	s.state = next
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()

	for _, o := range obs {
		o.fn(next)
	}
}

func (s *Session) reset() { s.set(State{}) }
