// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the messages exchanged between a provider worker and the
// terminal host. Each message kind is its own struct carrying exactly the fields it
// needs; Message is a closed set, so a type switch over it is exhaustive.
//
// The types in this package are transport-agnostic: the bridge moves them over
// in-process channels, and the host renders them.
package model

import (
	"fmt"
	"time"

	apperrors "gisthub/cli/internal/errors"
)

// Message is one event travelling from the worker to the host.
type Message interface {
	message()
}

// Output is an item written by the worker (a gist, a gist file, or a name).
type Output struct {
	Item        any
	Path        string
	IsContainer bool
}

// Error carries a non-terminating error record.
type Error struct {
	Record *ErrorRecord
}

// Warning is a warning line.
type Warning struct {
	Text string
}

// Verbose is a verbose diagnostic line.
type Verbose struct {
	Text string
}

// Debug is a debug diagnostic line.
type Debug struct {
	Text string
}

// Information carries an information record.
type Information struct {
	Record InformationRecord
}

// Progress carries a progress update.
type Progress struct {
	Record ProgressRecord
}

// ConfirmRequest asks the host whether action may be performed on target.
// It is the only message that expects a reply.
type ConfirmRequest struct {
	Target string
	Action string
}

func (Output) message()         {}
func (Error) message()          {}
func (Warning) message()        {}
func (Verbose) message()        {}
func (Debug) message()          {}
func (Information) message()    {}
func (Progress) message()       {}
func (ConfirmRequest) message() {}

// ErrorRecord describes a failure the worker reports without aborting the call.
type ErrorRecord struct {
	// Err is the underlying error.
	Err error
	// ID is a stable identifier such as "GistHubGistNotFound".
	ID string
	// Category is the machine-readable category.
	Category apperrors.Kind
	// Target is the path the error applies to.
	Target string
}

// NewErrorRecord builds an ErrorRecord from a message.
func NewErrorRecord(id string, category apperrors.Kind, target, format string, args ...any) *ErrorRecord {
	return &ErrorRecord{
		Err:      apperrors.New(category, fmt.Sprintf(format, args...)),
		ID:       id,
		Category: category,
		Target:   target,
	}
}

// Message returns the human-readable part of the record.
func (r *ErrorRecord) Message() string {
	if r == nil || r.Err == nil {
		return ""
	}
	if e, ok := r.Err.(*apperrors.E); ok && e.Err == nil {
		return e.Message
	}
	return r.Err.Error()
}

func (r *ErrorRecord) Error() string {
	return fmt.Sprintf("%s (%s): %s", r.ID, r.Target, r.Message())
}

func (r *ErrorRecord) Unwrap() error { return r.Err }

// InformationRecord is a structured informational message.
type InformationRecord struct {
	Message string
	Source  string
	Tags    []string
	Time    time.Time
}

// ProgressRecord reports progress of a long-running activity.
// Percent is -1 when unknown.
type ProgressRecord struct {
	Activity  string
	Status    string
	Percent   int
	Completed bool
}
