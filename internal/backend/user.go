// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// UserExists calls GET /users/{login} and reports whether it answered 200.
func (g *GitHub) UserExists(ctx context.Context, login string) (bool, error) {
	_, resp, err := g.client.Users.Get(ctx, login)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, classify(err, resp, "look up user "+login)
	}
	return resp.StatusCode == http.StatusOK, nil
}

// AuthenticatedUser calls GET /user and returns the login.
func (g *GitHub) AuthenticatedUser(ctx context.Context) (string, error) {
	u, resp, err := g.client.Users.Get(ctx, "")
	if err != nil {
		return "", classify(err, resp, "look up authenticated user")
	}
	return u.GetLogin(), nil
}
