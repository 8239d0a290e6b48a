// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "gisthub/cli/internal/errors"

	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

// DefaultClientID is the GitHub App used for the device flow.
const DefaultClientID = "Iv23liqX6f3ynRFszwKd"

// DeviceLink is an in-progress device authorization.
type DeviceLink struct {
	UserCode        string
	VerificationURI string
	Interval        time.Duration
	Expiry          time.Time

	resp *oauth2.DeviceAuthResponse
}

// DeviceFlow runs the OAuth 2.0 device authorization grant against GitHub.
type DeviceFlow struct {
	cfg *oauth2.Config
}

// NewDeviceFlow returns a device flow for clientID with the "gist" scope.
// An empty endpoint uses github.com.
func NewDeviceFlow(clientID string, endpoint oauth2.Endpoint) *DeviceFlow {
	if clientID == "" {
		clientID = DefaultClientID
	}
	if endpoint.DeviceAuthURL == "" {
		endpoint = oauthgithub.Endpoint
	}
	return &DeviceFlow{cfg: &oauth2.Config{
		ClientID: clientID,
		Endpoint: endpoint,
		Scopes:   []string{"gist"},
	}}
}

// BeginDeviceLink requests a device and user code.
func (d *DeviceFlow) BeginDeviceLink(ctx context.Context) (*DeviceLink, error) {
	resp, err := d.cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, authError(err)
	}
	return &DeviceLink{
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		Interval:        time.Duration(resp.Interval) * time.Second,
		Expiry:          resp.Expiry,
		resp:            resp,
	}, nil
}

// PollDeviceLink waits until the user approved the code and returns the token.
// authorization_pending keeps polling at the current interval and slow_down
// adds five seconds to it; any other error ends the flow.
func (d *DeviceFlow) PollDeviceLink(ctx context.Context, link *DeviceLink) (*oauth2.Token, error) {
	if link == nil || link.resp == nil {
		return nil, errors.New("device link was not started")
	}
	tok, err := d.cfg.DeviceAccessToken(ctx, link.resp)
	if err != nil {
		return nil, authError(err)
	}
	return tok, nil
}

func authError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return err
	}
	var b strings.Builder
	b.WriteString(re.ErrorCode)
	if re.ErrorDescription != "" {
		fmt.Fprintf(&b, " - %s", re.ErrorDescription)
	}
	if re.ErrorURI != "" {
		fmt.Fprintf(&b, " - %s", re.ErrorURI)
	}
	if re.ErrorCode == "" {
		return apperrors.Wrap(apperrors.Authentication, "device authorization failed", err)
	}
	return apperrors.Wrap(apperrors.Authentication, b.String(), err)
}
