// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the state that lives as long as one host session:
// the default token set by connect/login and the gist cache. Every provider call
// receives its session explicitly; a session is released by its owner when the
// session ends.
package session

import (
	"sync"

	"gisthub/cli/internal/gistcache"

	"github.com/google/uuid"
)

// Session is one host session.
type Session struct {
	id    uuid.UUID
	cache *gistcache.Cache

	mu    sync.RWMutex
	token string
}

// New creates a session around cache.
func New(cache *gistcache.Cache) *Session {
	return &Session{id: uuid.New(), cache: cache}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id.String() }

// Cache returns the session's gist cache.
func (s *Session) Cache() *gistcache.Cache { return s.cache }

// Token returns the session's default token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the session's default token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Reset clears the cache and the token.
func (s *Session) Reset() {
	s.SetToken("")
	s.cache.Purge()
}

// Registry tracks open sessions.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	newCache func() (*gistcache.Cache, error)
}

// NewRegistry creates a registry whose sessions get caches from newCache.
func NewRegistry(newCache func() (*gistcache.Cache, error)) *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session), newCache: newCache}
}

// Open starts a new session.
func (r *Registry) Open() (*Session, error) {
	cache, err := r.newCache()
	if err != nil {
		return nil, err
	}
	s := New(cache)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
	return s, nil
}

// Get returns the open session with id.
func (r *Registry) Get(id string) (*Session, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[u]
	return s, ok
}

// Release ends a session and drops its state.
func (r *Registry) Release(id string) {
	u, err := uuid.Parse(id)
	if err != nil {
		return
	}
	r.mu.Lock()
	s, ok := r.sessions[u]
	delete(r.sessions, u)
	r.mu.Unlock()
	if ok {
		s.Reset()
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
