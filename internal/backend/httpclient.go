// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	acceptRaw    = "application/vnd.github.raw+json"
	acceptBase64 = "application/vnd.github.base64+json"
	pageSize     = 100
)

// GitHub implements API on top of go-github.
type GitHub struct {
	client *github.Client
}

// newGitHub creates a client with the given options.
// Requests go through the pacing transport, then the oauth2 transport when a
// token is set.
func newGitHub(opts Options) (*GitHub, error) {
	var rt http.RoundTripper = newPacedTransport(opts.Transport, opts.RateLimit, opts.Burst)
	if opts.Token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   rt,
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := github.NewClient(&http.Client{Transport: rt, Timeout: timeout})

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = u
	}
	return &GitHub{client: client}, nil
}

// ListUserGists pages through GET /users/{owner}/gists.
func (g *GitHub) ListUserGists(ctx context.Context, owner string, since time.Time) ([]*Gist, error) {
	opts := &github.GistListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: pageSize},
	}
	var out []*Gist
	for {
		page, resp, err := g.client.Gists.List(ctx, owner, opts)
		if err != nil {
			return nil, classify(err, resp, "list gists for "+owner)
		}
		for _, gist := range page {
			out = append(out, fromGitHub(gist))
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetGist calls GET /gists/{id}. A 404 yields (nil, nil).
func (g *GitHub) GetGist(ctx context.Context, id string, asBase64 bool) (*Gist, error) {
	req, err := g.client.NewRequest(http.MethodGet, "gists/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if asBase64 {
		req.Header.Set("Accept", acceptBase64)
	} else {
		req.Header.Set("Accept", acceptRaw)
	}

	var wire gistJSON
	resp, err := g.client.Do(ctx, req, &wire)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, classify(err, resp, "get gist "+id)
	}
	gist := wire.toGist()
	if asBase64 {
		for _, f := range gist.Files {
			if f.Truncated || f.Content == "" {
				continue
			}
			raw, err := decodeBase64(f.Content)
			if err != nil {
				return nil, fmt.Errorf("decode %s/%s: %w", id, f.Name, err)
			}
			f.Content = string(raw)
		}
	}
	return gist, nil
}

// RawFile downloads a truncated file through its raw URL.
func (g *GitHub) RawFile(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := g.client.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	resp, err := g.client.Do(ctx, req, &buf)
	if err != nil {
		return nil, classify(err, resp, "download "+rawURL)
	}
	return buf.Bytes(), nil
}

// CreateGist calls POST /gists.
func (g *GitHub) CreateGist(ctx context.Context, req CreateRequest) (*Gist, error) {
	in := &github.Gist{
		Public: github.Bool(req.Public),
		Files:  make(map[github.GistFilename]github.GistFile, len(req.Files)),
	}
	if req.Description != "" {
		in.Description = github.String(req.Description)
	}
	for name, content := range req.Files {
		in.Files[github.GistFilename(name)] = github.GistFile{Content: github.String(content)}
	}
	created, resp, err := g.client.Gists.Create(ctx, in)
	if err != nil {
		return nil, classify(err, resp, "create gist")
	}
	return fromGitHub(created), nil
}

// UpdateGist calls PATCH /gists/{id}. The body is built by hand because
// deleting a file needs an explicit JSON null, which go-github's typed
// GistFile map cannot express.
func (g *GitHub) UpdateGist(ctx context.Context, id string, req UpdateRequest) (*Gist, error) {
	body := map[string]any{}
	if req.Description != "" {
		body["description"] = req.Description
	}
	files := make(map[string]any, len(req.Files))
	for name, content := range req.Files {
		if content == nil {
			files[name] = nil
			continue
		}
		files[name] = map[string]string{"content": *content}
	}
	body["files"] = files

	hr, err := g.client.NewRequest(http.MethodPatch, "gists/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Accept", acceptRaw)

	var wire gistJSON
	resp, err := g.client.Do(ctx, hr, &wire)
	if err != nil {
		return nil, classify(err, resp, "update gist "+id)
	}
	return wire.toGist(), nil
}

// DeleteGist calls DELETE /gists/{id}.
func (g *GitHub) DeleteGist(ctx context.Context, id string) error {
	resp, err := g.client.Gists.Delete(ctx, id)
	if err != nil {
		return classify(err, resp, "delete gist "+id)
	}
	return nil
}

// gistJSON is the wire form of a single gist. go-github's GistFile has no
// truncated field, so single-gist responses are decoded here.
type gistJSON struct {
	ID          string    `json:"id"`
	Description *string   `json:"description"`
	Public      bool      `json:"public"`
	HTMLURL     string    `json:"html_url"`
	GitPullURL  string    `json:"git_pull_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *struct {
		Login string `json:"login"`
	} `json:"owner"`
	Files map[string]*struct {
		Filename  string `json:"filename"`
		Language  string `json:"language"`
		RawURL    string `json:"raw_url"`
		Size      int    `json:"size"`
		Truncated bool   `json:"truncated"`
		Content   string `json:"content"`
	} `json:"files"`
}

func (w *gistJSON) toGist() *Gist {
	g := &Gist{
		ID:         w.ID,
		Public:     w.Public,
		HTMLURL:    w.HTMLURL,
		GitPullURL: w.GitPullURL,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
		Files:      make(map[string]*GistFile, len(w.Files)),
	}
	if w.Description != nil {
		g.Description = *w.Description
	}
	if w.Owner != nil {
		g.Owner = w.Owner.Login
	}
	for key, f := range w.Files {
		if f == nil {
			continue
		}
		name := f.Filename
		if name == "" {
			name = key
		}
		g.Files[name] = &GistFile{
			Name:      name,
			Language:  f.Language,
			RawURL:    f.RawURL,
			Size:      f.Size,
			Truncated: f.Truncated,
			Content:   f.Content,
		}
	}
	return g
}

func fromGitHub(in *github.Gist) *Gist {
	g := &Gist{
		ID:          in.GetID(),
		Description: in.GetDescription(),
		Public:      in.GetPublic(),
		Owner:       in.GetOwner().GetLogin(),
		HTMLURL:     in.GetHTMLURL(),
		GitPullURL:  in.GetGitPullURL(),
		CreatedAt:   in.GetCreatedAt().Time,
		UpdatedAt:   in.GetUpdatedAt().Time,
		Files:       make(map[string]*GistFile, len(in.Files)),
	}
	for key, f := range in.Files {
		name := f.GetFilename()
		if name == "" {
			name = string(key)
		}
		g.Files[name] = &GistFile{
			Name:     name,
			Language: f.GetLanguage(),
			RawURL:   f.GetRawURL(),
			Size:     f.GetSize(),
			Content:  f.GetContent(),
		}
	}
	return g
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)
	return base64.StdEncoding.DecodeString(s)
}
