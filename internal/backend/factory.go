// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com/"

// Options configures a gist client.
type Options struct {
	// BaseURL overrides the API root (tests, GitHub Enterprise).
	BaseURL string
	// Token authenticates requests; empty means anonymous.
	Token string
	// RateLimit caps requests per second; zero disables pacing.
	RateLimit float64
	// Burst is the number of requests allowed at once when pacing.
	Burst int
	// Timeout bounds every HTTP request.
	Timeout time.Duration
	// Transport replaces http.DefaultTransport.
	Transport http.RoundTripper
}

// New creates a gist API implementation.
// Returns the go-github backed client.
func New(opts Options) (API, error) {
	return newGitHub(opts)
}
