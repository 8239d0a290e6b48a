// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gistcache keeps a session's view of each owner's gists in memory.
//
// Listing an owner's gists is the expensive call behind nearly every provider
// operation, so each owner entry remembers when it was last refreshed and is
// only listed again (incrementally, with "since") once it is older than the TTL.
// File contents are never kept; they are fetched on demand.
package gistcache

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"gisthub/cli/internal/backend"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long an owner's listing is considered fresh.
	DefaultTTL = 30 * time.Second
	// DefaultOwners bounds how many owners one session remembers.
	DefaultOwners = 64
)

// UserGists is the cached listing of one owner.
type UserGists struct {
	Owner string

	mu         sync.RWMutex
	lastUpdate time.Time
	gists      map[string]*backend.Gist
}

func newUserGists(owner string) *UserGists {
	return &UserGists{Owner: owner, gists: make(map[string]*backend.Gist)}
}

// Store adds or replaces a gist, dropping file contents.
func (u *UserGists) Store(g *backend.Gist) {
	if g == nil {
		return
	}
	for _, f := range g.Files {
		f.Content = ""
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.gists[g.ID] = g
}

// Lookup returns the gist with id.
func (u *UserGists) Lookup(id string) (*backend.Gist, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	g, ok := u.gists[id]
	return g, ok
}

// Remove forgets a gist.
func (u *UserGists) Remove(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.gists, id)
}

// All returns the cached gists, newest first.
func (u *UserGists) All() []*backend.Gist {
	u.mu.RLock()
	out := make([]*backend.Gist, 0, len(u.gists))
	for _, g := range u.gists {
		out = append(out, g)
	}
	u.mu.RUnlock()

	slices.SortFunc(out, func(a, b *backend.Gist) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// LastUpdate returns when the listing was last refreshed (zero if never).
func (u *UserGists) LastUpdate() time.Time {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastUpdate
}

// Len returns the number of cached gists.
func (u *UserGists) Len() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.gists)
}

// Cache holds UserGists per owner for one session.
type Cache struct {
	mu     sync.Mutex
	owners *lru.Cache[string, *UserGists]
	ttl    time.Duration
	now    func() time.Time
}

// New creates a cache remembering up to size owners.
func New(size int, ttl time.Duration) (*Cache, error) {
	if size <= 0 {
		size = DefaultOwners
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	owners, err := lru.New[string, *UserGists](size)
	if err != nil {
		return nil, err
	}
	return &Cache{owners: owners, ttl: ttl, now: time.Now}, nil
}

// Owner returns the entry for owner, creating an empty one if needed.
// Logins are case-insensitive on GitHub, so the key is lowercased.
func (c *Cache) Owner(owner string) *UserGists {
	key := strings.ToLower(owner)
	c.mu.Lock()
	defer c.mu.Unlock()
	if u, ok := c.owners.Get(key); ok {
		return u
	}
	u := newUserGists(owner)
	c.owners.Add(key, u)
	return u
}

// Stale reports whether owner's listing needs a refresh.
func (c *Cache) Stale(owner string) bool {
	last := c.Owner(owner).LastUpdate()
	return last.IsZero() || c.now().Sub(last) >= c.ttl
}

// Refresh brings owner's listing up to date and makes sure gistID (if set) is
// present, fetching it directly when the listing does not include it. Secret
// gists are not listed unless the token belongs to their owner.
func (c *Cache) Refresh(ctx context.Context, api backend.API, owner, gistID string) (*UserGists, error) {
	u := c.Owner(owner)
	log := zap.L().With(zap.String("owner", owner))

	if c.Stale(owner) {
		since := u.LastUpdate()
		started := c.now()
		gists, err := api.ListUserGists(ctx, owner, since)
		if err != nil {
			return u, err
		}
		for _, g := range gists {
			u.Store(g)
		}
		u.mu.Lock()
		u.lastUpdate = started
		u.mu.Unlock()
		log.Debug("gist listing refreshed", zap.Int("fetched", len(gists)), zap.Time("since", since))
	}

	if gistID != "" {
		if _, ok := u.Lookup(gistID); !ok {
			g, err := api.GetGist(ctx, gistID, false)
			if err != nil {
				return u, err
			}
			if g != nil {
				u.Store(g)
				log.Debug("gist fetched outside listing", zap.String("gist", gistID))
			}
		}
	}
	return u, nil
}

// Purge drops every owner.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners.Purge()
}
