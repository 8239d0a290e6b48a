// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package content

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	apperrors "gisthub/cli/internal/errors"
)

// ErrBlankContent is returned by Close when the buffered text is empty or only
// whitespace; gists cannot hold empty files.
var ErrBlankContent = errors.New("content is empty or whitespace only")

// DefaultDelimiter is the platform line ending appended after each record.
var DefaultDelimiter = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// Committer sends the final content to the gist.
type Committer func(content string) error

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Delimiter follows every record; empty selects DefaultDelimiter.
	Delimiter string
	// Target names the gist file in error messages.
	Target string
}

// Writer buffers records in memory and commits them once on Close.
// The buffer starts with the seed content and the position at 0, so writes
// overwrite the seed unless the caller seeks to the end first.
type Writer struct {
	buf       []byte
	pos       int64
	delimiter string
	target    string
	commit    Committer
	closed    bool
	closeErr  error
}

// NewWriter returns a Writer seeded with seed.
func NewWriter(seed []byte, commit Committer, opts WriterOptions) *Writer {
	delim := opts.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}
	return &Writer{
		buf:       append([]byte(nil), seed...),
		delimiter: delim,
		target:    opts.Target,
		commit:    commit,
	}
}

// Write buffers each record followed by the delimiter and returns records.
func (w *Writer) Write(records []any) ([]any, error) {
	if w.closed {
		return nil, ErrClosed
	}
	for _, rec := range records {
		w.writeString(render(rec))
		w.writeString(w.delimiter)
	}
	return records, nil
}

// Seek moves the write position; positions past the end are zero-filled on
// the next write.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	if w.closed {
		return 0, ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = w.pos
	case io.SeekEnd:
		base = int64(len(w.buf))
	default:
		return w.pos, fmt.Errorf("invalid whence %d", whence)
	}
	next := base + offset
	if next < 0 {
		return w.pos, fmt.Errorf("negative position %d", next)
	}
	w.pos = next
	return next, nil
}

// Close commits the buffered content. Blank content is rejected and nothing
// is sent. Later calls return the result of the first.
func (w *Writer) Close() error {
	if w.closed {
		return w.closeErr
	}
	w.closed = true
	w.closeErr = w.flush()
	return w.closeErr
}

func (w *Writer) flush() error {
	text := string(w.buf)
	if strings.TrimSpace(text) == "" {
		return apperrors.Wrap(apperrors.InvalidData,
			fmt.Sprintf("cannot set gist '%s' to an empty or whitespace only string", w.target),
			ErrBlankContent)
	}
	return w.commit(text)
}

// String returns the buffered content.
func (w *Writer) String() string { return string(w.buf) }

func (w *Writer) writeString(s string) {
	end := w.pos + int64(len(s))
	if n := int64(len(w.buf)); end > n {
		if end > int64(cap(w.buf)) {
			grown := make([]byte, end, 2*end)
			copy(grown, w.buf)
			w.buf = grown
		} else {
			w.buf = w.buf[:end]
			clear(w.buf[n:])
		}
	}
	copy(w.buf[w.pos:], s)
	w.pos = end
}

func render(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
