// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"time"
)

// Token sources recorded in State.
const (
	SourceDeviceFlow = "device"
	SourceToken      = "token"
)

// State represents persisted authentication state for the current user.
// The token itself is stored separately under its own keychain key.
type State struct {
	LoggedIn bool      `json:"logged_in"`
	Login    string    `json:"login"`
	Source   string    `json:"source"`
	Since    time.Time `json:"since"`
}

// IsLoggedIn reports whether the store holds a logged-in state.
func IsLoggedIn(store Store) (bool, error) {
	st, err := Load(store)
	if err != nil {
		return false, err
	}
	return st.LoggedIn, nil
}
