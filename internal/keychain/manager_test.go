// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewWithKeyring(keyring.NewArrayKeyring(nil))
}

func TestAccessTokenLifecycle(t *testing.T) {
	m := newTestManager()

	_, err := m.LoadAccessToken()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SaveAccessToken("ghp_first"))
	require.NoError(t, m.SaveAccessToken("ghp_second"))
	token, err := m.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_second", token)

	assert.Error(t, m.SaveAccessToken(""))
}

func TestAuthStateMissingIsEmpty(t *testing.T) {
	m := newTestManager()

	data, err := m.LoadAuthState()
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, m.SaveAuthState([]byte(`{"login":"octocat"}`)))
	data, err = m.LoadAuthState()
	require.NoError(t, err)
	assert.JSONEq(t, `{"login":"octocat"}`, string(data))
}

func TestClearAuth(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.ClearAuth())

	require.NoError(t, m.SaveAccessToken("ghp_x"))
	require.NoError(t, m.SaveAuthState([]byte("{}")))
	require.NoError(t, m.ClearAuth())

	_, err := m.LoadAccessToken()
	assert.ErrorIs(t, err, ErrNotFound)
	data, err := m.LoadAuthState()
	require.NoError(t, err)
	assert.Nil(t, data)
}
