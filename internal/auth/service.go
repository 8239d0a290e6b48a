// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides authentication services for the gisthub CLI.
// It runs the GitHub device authorization flow, stores personal access tokens
// and validates the stored token against the API. Tokens and state are kept
// in the OS keychain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gisthub/cli/internal/backend"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/keychain"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Flow is the device authorization grant.
type Flow interface {
	BeginDeviceLink(ctx context.Context) (*backend.DeviceLink, error)
	PollDeviceLink(ctx context.Context, link *backend.DeviceLink) (*oauth2.Token, error)
}

// APIFactory creates a gist client authenticated with token.
type APIFactory func(token string) (backend.API, error)

// Service centralizes authentication-related operations against GitHub
// and local secure storage.
type Service struct {
	store  Store
	flow   Flow
	newAPI APIFactory
	now    func() time.Time
}

// NewService constructs an auth Service.
func NewService(store Store, flow Flow, newAPI APIFactory) *Service {
	return &Service{store: store, flow: flow, newAPI: newAPI, now: time.Now}
}

// StartLogin begins the device-link login flow.
func (s *Service) StartLogin(ctx context.Context) (*backend.DeviceLink, error) {
	return s.flow.BeginDeviceLink(ctx)
}

// CompleteLogin waits for the user to approve link, then stores the issued
// token and returns the login it belongs to.
func (s *Service) CompleteLogin(ctx context.Context, link *backend.DeviceLink) (string, error) {
	tok, err := s.flow.PollDeviceLink(ctx, link)
	if err != nil {
		return "", err
	}
	return s.save(ctx, tok.AccessToken, SourceDeviceFlow)
}

// Connect validates a personal access token and stores it.
func (s *Service) Connect(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.New(apperrors.InvalidArgument, "token is empty")
	}
	return s.save(ctx, token, SourceToken)
}

func (s *Service) save(ctx context.Context, token, source string) (string, error) {
	login, err := s.verify(ctx, token)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveAccessToken(token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	if err := Save(s.store, State{LoggedIn: true, Login: login, Source: source, Since: s.now()}); err != nil {
		return "", fmt.Errorf("store auth state: %w", err)
	}
	zap.L().Info("authenticated", zap.String("login", login), zap.String("source", source))
	return login, nil
}

func (s *Service) verify(ctx context.Context, token string) (string, error) {
	api, err := s.newAPI(token)
	if err != nil {
		return "", err
	}
	return api.AuthenticatedUser(ctx)
}

// Token returns the stored access token, or "" when none is stored or the
// keychain cannot be read.
func (s *Service) Token() string {
	token, err := s.store.LoadAccessToken()
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			zap.L().Debug("load access token failed", zap.Error(err))
		}
		return ""
	}
	return token
}

// WhoAmI validates the stored token and returns its login.
// A token GitHub rejects is removed. When GitHub cannot be reached the login
// from the stored state is returned with ok set.
func (s *Service) WhoAmI(ctx context.Context) (login string, ok bool, err error) {
	token := s.Token()
	if token == "" {
		return "", false, nil
	}

	login, err = s.verify(ctx, token)
	switch {
	case err == nil:
		return login, true, nil
	case apperrors.Is(err, apperrors.Authentication):
		zap.L().Info("stored token rejected, logging out", zap.Error(err))
		if cerr := Clear(s.store); cerr != nil {
			return "", false, cerr
		}
		return "", false, nil
	}

	st, lerr := Load(s.store)
	if lerr != nil || !st.LoggedIn {
		return "", false, err
	}
	zap.L().Debug("using cached login", zap.String("login", st.Login), zap.Error(err))
	return st.Login, true, nil
}

// Logout removes the token and state.
func (s *Service) Logout() error {
	return Clear(s.store)
}
