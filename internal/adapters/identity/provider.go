// Package identity carries the auth collaborator. Manual is a provider
// driven by explicit SignIn/SignOut calls, e.g. from the session
// endpoints of the HTTP surface.
package identity

import (
	"sync"

	"tripmarket/internal/domain"
)

type Manual struct {
	mu      sync.Mutex
	current *domain.Identity
	ch      chan *domain.Identity
}

func NewManual() *Manual {
	return &Manual{ch: make(chan *domain.Identity, 16)}
}

func (m *Manual) Current() *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	c := *m.current
	return &c
}

func (m *Manual) Changes() <-chan *domain.Identity { return m.ch }

func (m *Manual) SignIn(id domain.Identity) { m.set(&id) }

func (m *Manual) SignOut() { m.set(nil) }

func (m *Manual) set(id *domain.Identity) {
	m.mu.Lock()
	m.current = id
	m.mu.Unlock()
	// The consumer handles every transition, including repeats of the
	// same user. Drop rather than block if nobody is draining.
	select {
	case m.ch <- id:
	default:
	}
}
