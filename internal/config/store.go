package config

import (
	"sync/atomic"
)

// Identity is the tenant/client pair the token validator checks against.
type Identity struct {
	TenantID string
	ClientID string
}

// Complete reports whether both identifiers are set.
func (i Identity) Complete() bool {
	return i.TenantID != "" && i.ClientID != ""
}

// Store is the process-wide identity holder. It is written during startup
// (possibly after secrets are loaded) and read on every request. Writes are a
// single pointer swap, so readers never observe a torn value.
type Store struct {
	current atomic.Pointer[Identity]
}

// NewStore creates a Store seeded with initial.
func NewStore(initial Identity) *Store {
	s := &Store{}
	s.current.Store(&initial)
	return s
}

// Get returns the current identity.
func (s *Store) Get() Identity {
	if id := s.current.Load(); id != nil {
		return *id
	}
	return Identity{}
}

// TenantAndClient returns the current identifiers.
func (s *Store) TenantAndClient() (tenantID, clientID string) {
	id := s.Get()
	return id.TenantID, id.ClientID
}

// Update merges non-empty fields of next into the current identity.
// Last write wins.
func (s *Store) Update(next Identity) {
	for {
		old := s.current.Load()
		merged := Identity{}
		if old != nil {
			merged = *old
		}
		if next.TenantID != "" {
			merged.TenantID = next.TenantID
		}
		if next.ClientID != "" {
			merged.ClientID = next.ClientID
		}
		if s.current.CompareAndSwap(old, &merged) {
			return
		}
	}
}

//Personal.AI order the ending
