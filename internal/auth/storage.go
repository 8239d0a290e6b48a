// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements persistence for authentication state.
//
// This file stores the serialized state in the OS keychain via internal/keychain.
package auth

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Store is the secret storage auth state and tokens live in.
// *keychain.Manager implements it.
type Store interface {
	SaveAccessToken(token string) error
	LoadAccessToken() (string, error)
	SaveAuthState(data []byte) error
	LoadAuthState() ([]byte, error)
	ClearAuth() error
}

// Load reads the auth state from the store. Missing state yields zero value.
func Load(store Store) (State, error) {
	var s State
	data, err := store.LoadAuthState()
	if err != nil {
		zap.L().Debug("load auth state failed", zap.Error(err))
		return s, err
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		zap.L().Debug("decode auth state failed", zap.Error(err))
		return s, err
	}
	return s, nil
}

// Save writes the auth state to the store.
func Save(store Store, s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	zap.L().Debug("saving auth state", zap.Bool("logged_in", s.LoggedIn), zap.String("login", s.Login))
	return store.SaveAuthState(b)
}

// Clear removes the token and the auth state from the store.
func Clear(store Store) error {
	return store.ClearAuth()
}
