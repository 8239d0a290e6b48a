// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Provider operations attach a Kind to every error record
// they emit so the terminal can group failures (missing input, missing gist, missing
// token) without parsing message text.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// and errors.Is / errors.As from the standard library see through the wrapper.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InvalidArgument indicates missing or malformed addressing information or options.
	InvalidArgument Kind = "invalid_argument"
	// NotFound indicates the owner, gist or gist file does not exist.
	NotFound Kind = "not_found"
	// PermissionDenied indicates the operation is refused for the current credential.
	PermissionDenied Kind = "permission_denied"
	// ResourceExists indicates a conflicting item already exists.
	ResourceExists Kind = "resource_exists"
	// NotSupported indicates the provider does not implement the operation.
	NotSupported Kind = "not_supported"
	// Authentication indicates the OAuth flow or a token was rejected.
	Authentication Kind = "authentication"
	// Protocol indicates a broken exchange between the host and a worker.
	Protocol Kind = "protocol"
	// InvalidData indicates content that the remote store cannot represent.
	InvalidData Kind = "invalid_data"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped error.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the outermost *E in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
