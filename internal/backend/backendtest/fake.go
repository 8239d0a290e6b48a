// Package backendtest provides an in-memory backend.API for tests.
package backendtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"gisthub/cli/internal/backend"
	apperrors "gisthub/cli/internal/errors"
)

// Fake is an in-memory gist store. The zero value is not usable; call New.
type Fake struct {
	mu    sync.Mutex
	now   func() time.Time
	seq   int
	gists map[string]*backend.Gist
	users map[string]bool

	// Login is returned by AuthenticatedUser; empty means anonymous.
	Login string
	// Secret gist ids are left out of listings.
	Secret map[string]bool
	// Err, when set for a method name, is returned by that method.
	Err map[string]error

	// Calls counts invocations per method name.
	Calls map[string]int
	// Since records the since argument of each ListUserGists call.
	Since []time.Time
	// Updates records every UpdateGist request.
	Updates []backend.UpdateRequest
}

// New returns an empty fake whose clock starts at a fixed instant.
func New() *Fake {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &Fake{
		gists:  make(map[string]*backend.Gist),
		users:  make(map[string]bool),
		Secret: make(map[string]bool),
		Err:    make(map[string]error),
		Calls:  make(map[string]int),
	}
	f.now = func() time.Time {
		f.seq++
		return base.Add(time.Duration(f.seq) * time.Minute)
	}
	return f
}

// AddUser registers a login.
func (f *Fake) AddUser(login string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(login)] = true
}

// AddGist stores a gist owned by owner with the given files and returns it.
func (f *Fake) AddGist(owner, id, description string, public bool, files map[string]string) *backend.Gist {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(owner)] = true
	now := f.now()
	g := &backend.Gist{
		ID:          id,
		Description: description,
		Public:      public,
		Owner:       owner,
		HTMLURL:     "https://gist.github.com/" + id,
		GitPullURL:  "https://gist.github.com/" + id + ".git",
		CreatedAt:   now,
		UpdatedAt:   now,
		Files:       make(map[string]*backend.GistFile, len(files)),
	}
	for name, content := range files {
		g.Files[name] = newFile(id, name, content)
	}
	f.gists[id] = g
	return clone(g, true)
}

// Gist returns a copy of the stored gist with contents.
func (f *Fake) Gist(id string) (*backend.Gist, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gists[id]
	if !ok {
		return nil, false
	}
	return clone(g, true), true
}

func (f *Fake) enter(method string) error {
	f.Calls[method]++
	return f.Err[method]
}

func (f *Fake) UserExists(_ context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UserExists"); err != nil {
		return false, err
	}
	return f.users[strings.ToLower(login)], nil
}

func (f *Fake) AuthenticatedUser(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("AuthenticatedUser"); err != nil {
		return "", err
	}
	if f.Login == "" {
		return "", apperrors.New(apperrors.Authentication, "look up authenticated user: token rejected")
	}
	return f.Login, nil
}

func (f *Fake) ListUserGists(_ context.Context, owner string, since time.Time) ([]*backend.Gist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListUserGists"); err != nil {
		return nil, err
	}
	f.Since = append(f.Since, since)
	if !f.users[strings.ToLower(owner)] {
		return nil, apperrors.New(apperrors.NotFound, "list gists for "+owner+": not found")
	}
	var out []*backend.Gist
	for _, g := range f.gists {
		if !strings.EqualFold(g.Owner, owner) || f.Secret[g.ID] {
			continue
		}
		if !since.IsZero() && !g.UpdatedAt.After(since) {
			continue
		}
		out = append(out, clone(g, false))
	}
	return out, nil
}

func (f *Fake) GetGist(_ context.Context, id string, _ bool) (*backend.Gist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetGist"); err != nil {
		return nil, err
	}
	g, ok := f.gists[id]
	if !ok {
		return nil, nil
	}
	return clone(g, true), nil
}

func (f *Fake) RawFile(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("RawFile"); err != nil {
		return nil, err
	}
	for _, g := range f.gists {
		for _, file := range g.Files {
			if file.RawURL == rawURL {
				return []byte(file.Content), nil
			}
		}
	}
	return nil, apperrors.New(apperrors.NotFound, "download "+rawURL+": not found")
}

func (f *Fake) CreateGist(_ context.Context, req backend.CreateRequest) (*backend.Gist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateGist"); err != nil {
		return nil, err
	}
	if f.Login == "" {
		return nil, apperrors.New(apperrors.Authentication, "create gist: token rejected")
	}
	if len(req.Files) == 0 {
		return nil, apperrors.New(apperrors.InvalidArgument, "create gist: rejected by GitHub")
	}
	now := f.now()
	id := fmt.Sprintf("%032x", f.seq)
	g := &backend.Gist{
		ID:          id,
		Description: req.Description,
		Public:      req.Public,
		Owner:       f.Login,
		HTMLURL:     "https://gist.github.com/" + id,
		GitPullURL:  "https://gist.github.com/" + id + ".git",
		CreatedAt:   now,
		UpdatedAt:   now,
		Files:       make(map[string]*backend.GistFile, len(req.Files)),
	}
	for name, content := range req.Files {
		g.Files[name] = newFile(id, name, content)
	}
	f.gists[id] = g
	return clone(g, true), nil
}

func (f *Fake) UpdateGist(_ context.Context, id string, req backend.UpdateRequest) (*backend.Gist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateGist"); err != nil {
		return nil, err
	}
	f.Updates = append(f.Updates, req)
	g, ok := f.gists[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "update gist "+id+": not found")
	}
	if f.Login == "" || !strings.EqualFold(f.Login, g.Owner) {
		return nil, apperrors.New(apperrors.PermissionDenied, "update gist "+id+": access denied")
	}
	if req.Description != "" {
		g.Description = req.Description
	}
	for name, content := range req.Files {
		if content == nil {
			delete(g.Files, name)
			continue
		}
		g.Files[name] = newFile(id, name, *content)
	}
	g.UpdatedAt = f.now()
	return clone(g, true), nil
}

func (f *Fake) DeleteGist(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteGist"); err != nil {
		return err
	}
	g, ok := f.gists[id]
	if !ok {
		return apperrors.New(apperrors.NotFound, "delete gist "+id+": not found")
	}
	if f.Login == "" || !strings.EqualFold(f.Login, g.Owner) {
		return apperrors.New(apperrors.PermissionDenied, "delete gist "+id+": access denied")
	}
	delete(f.gists, id)
	return nil
}

func newFile(id, name, content string) *backend.GistFile {
	return &backend.GistFile{
		Name:    name,
		RawURL:  "https://gist.githubusercontent.com/raw/" + id + "/" + name,
		Size:    len(content),
		Content: content,
	}
}

func clone(g *backend.Gist, withContent bool) *backend.Gist {
	out := *g
	out.Files = make(map[string]*backend.GistFile, len(g.Files))
	for name, f := range g.Files {
		c := *f
		if !withContent {
			c.Content = ""
		}
		out.Files[name] = &c
	}
	return &out
}

var _ backend.API = (*Fake)(nil)
