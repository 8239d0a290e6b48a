// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

// errNoSecurityCommand reports that the macOS security tool cannot hold
// gisthub credentials on this platform; the keyring backends are used instead.
var errNoSecurityCommand = errors.New("gisthub: macOS security command is not available on this platform")

type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	return nil, errNoSecurityCommand
}

func (*securityBackend) Set(string, string) error   { return errNoSecurityCommand }
func (*securityBackend) Get(string) (string, error) { return "", errNoSecurityCommand }
func (*securityBackend) Delete(string) error        { return errNoSecurityCommand }
