// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/backend/backendtest"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/keychain"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeFlow struct {
	token string
	err   error
	polls int
}

func (f *fakeFlow) BeginDeviceLink(context.Context) (*backend.DeviceLink, error) {
	return &backend.DeviceLink{UserCode: "ABCD-1234", VerificationURI: "https://github.com/login/device"}, nil
}

func (f *fakeFlow) PollDeviceLink(context.Context, *backend.DeviceLink) (*oauth2.Token, error) {
	f.polls++
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: f.token}, nil
}

type fixture struct {
	store  *keychain.Manager
	api    *backendtest.Fake
	flow   *fakeFlow
	tokens []string
	svc    *Service
}

func newFixture() *fixture {
	f := &fixture{
		store: keychain.NewWithKeyring(keyring.NewArrayKeyring(nil)),
		api:   backendtest.New(),
		flow:  &fakeFlow{token: "gho_device"},
	}
	f.api.Login = "octocat"
	f.svc = NewService(f.store, f.flow, func(token string) (backend.API, error) {
		f.tokens = append(f.tokens, token)
		return f.api, nil
	})
	f.svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestDeviceLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	link, err := f.svc.StartLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ABCD-1234", link.UserCode)

	login, err := f.svc.CompleteLogin(ctx, link)
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	assert.Equal(t, []string{"gho_device"}, f.tokens)
	assert.Equal(t, "gho_device", f.svc.Token())

	st, err := Load(f.store)
	require.NoError(t, err)
	assert.Equal(t, State{LoggedIn: true, Login: "octocat", Source: SourceDeviceFlow, Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, st)
}

func TestDeviceLoginDenied(t *testing.T) {
	f := newFixture()
	f.flow.err = apperrors.New(apperrors.Authentication, "access_denied")

	_, err := f.svc.CompleteLogin(context.Background(), &backend.DeviceLink{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Authentication))
	assert.Empty(t, f.svc.Token())

	loggedIn, err := IsLoggedIn(f.store)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestConnectValidatesToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Connect(ctx, "  ")
	assert.True(t, apperrors.Is(err, apperrors.InvalidArgument))

	f.api.Login = ""
	_, err = f.svc.Connect(ctx, "ghp_bad")
	assert.True(t, apperrors.Is(err, apperrors.Authentication))
	assert.Empty(t, f.svc.Token())

	f.api.Login = "hubot"
	login, err := f.svc.Connect(ctx, " ghp_good ")
	require.NoError(t, err)
	assert.Equal(t, "hubot", login)
	assert.Equal(t, "ghp_good", f.svc.Token())

	st, err := Load(f.store)
	require.NoError(t, err)
	assert.Equal(t, SourceToken, st.Source)
}

func TestWhoAmI(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		f := newFixture()
		login, ok, err := f.svc.WhoAmI(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, login)
	})

	t.Run("valid token", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Connect(ctx, "ghp_good")
		require.NoError(t, err)

		login, ok, err := f.svc.WhoAmI(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "octocat", login)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Connect(ctx, "ghp_revoked")
		require.NoError(t, err)
		f.api.Login = ""

		_, ok, err := f.svc.WhoAmI(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, f.svc.Token())
	})

	t.Run("offline uses stored login", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Connect(ctx, "ghp_good")
		require.NoError(t, err)
		f.api.Err["AuthenticatedUser"] = errors.New("dial tcp: no route to host")

		login, ok, err := f.svc.WhoAmI(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "octocat", login)
	})
}

func TestLogout(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Connect(context.Background(), "ghp_good")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout())
	assert.Empty(t, f.svc.Token())
	loggedIn, err := IsLoggedIn(f.store)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}
