// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It sets up the process-wide zap logger, masks GitHub credentials in log
// messages and formats errors for user-friendly display.
//
// Tokens must never reach a log file or the terminal unmasked: every string
// that may carry a request header, a URL with a query string or a config dump
// goes through Mask first.
package logging

import (
	"regexp"
)

var (
	reToken      = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reGitHubPAT  = regexp.MustCompile(`\b(ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{8,}`)
	reFineGrain  = regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{8,}`)
	reSecret     = regexp.MustCompile(`(?i)(client_secret=|device_code=)([^\s&;]+)`)
	reURLUserPwd = regexp.MustCompile(`(?i)(://)([^:/@\s]+):([^@\s]+)(@)`)
)

// Mask replaces sensitive values in the input string with "*".
func Mask(s string) string {
	out := s
	out = reGitHubPAT.ReplaceAllString(out, "${1}_***")
	out = reFineGrain.ReplaceAllString(out, "github_pat_***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reSecret.ReplaceAllString(out, "$1***")
	out = reURLUserPwd.ReplaceAllString(out, "$1*:*$4")
	return out
}
