// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package content frames gist file content as records.
//
// A Reader turns a seekable byte stream into lines, single bytes, or one
// whole-remainder record, and can be read repeatedly with a record limit: when a
// call stops early it seeks the stream back by exactly the bytes it buffered but
// did not return, so the next call resumes at the right byte.
//
// A Writer collects records into an in-memory buffer and sends the joined text to
// the gist once, on Close.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// defaultBufferSize is the read size of one internal fill in text mode.
const defaultBufferSize = 256

var (
	// ErrClosed is returned by operations on a closed Reader or Writer.
	ErrClosed = errors.New("content stream is closed")
)

// ReaderOptions fixes a Reader's mode at construction.
type ReaderOptions struct {
	// AsBytes returns byte values instead of text lines.
	AsBytes bool
	// Raw returns the whole remainder as one record.
	Raw bool
	// Delimiter splits text records; empty selects the CR / LF / CRLF policy.
	Delimiter string

	bufferSize int
}

// Reader reads records from a seekable stream of known length.
// A Reader is owned by one caller and is not safe for concurrent use.
type Reader struct {
	src    io.ReadSeeker
	length int64
	pos    int64

	asBytes    bool
	raw        bool
	delimiter  []byte
	bufferSize int
	closed     bool
}

// NewReader measures src and returns a Reader positioned at src's current offset.
func NewReader(src io.ReadSeeker, opts ReaderOptions) (*Reader, error) {
	if opts.Delimiter != "" && (opts.AsBytes || opts.Raw) {
		return nil, fmt.Errorf("a delimiter cannot be combined with byte or raw mode")
	}
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	length, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}

	size := opts.bufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	r := &Reader{
		src:        src,
		length:     length,
		pos:        pos,
		asBytes:    opts.AsBytes,
		raw:        opts.Raw,
		bufferSize: size,
	}
	if opts.Delimiter != "" {
		r.delimiter = []byte(opts.Delimiter)
	}
	return r, nil
}

// NewBytesReader is NewReader over an in-memory blob.
func NewBytesReader(data []byte, opts ReaderOptions) (*Reader, error) {
	return NewReader(bytes.NewReader(data), opts)
}

// Read returns up to maxCount records; maxCount <= 0 means all remaining.
// Text records are strings, byte records are byte values, and a raw record is
// a string (text) or a []byte (bytes). At end of stream the result is empty.
func (r *Reader) Read(maxCount int) ([]any, error) {
	if r.closed {
		return nil, ErrClosed
	}
	if r.pos >= r.length {
		return []any{}, nil
	}
	switch {
	case r.raw:
		return r.readRemainder()
	case r.asBytes:
		return r.readBytes(maxCount)
	default:
		return r.readLines(maxCount)
	}
}

// Seek moves the underlying stream.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	if r.closed {
		return 0, ErrClosed
	}
	pos, err := r.src.Seek(offset, whence)
	if err != nil {
		return r.pos, err
	}
	r.pos = pos
	return pos, nil
}

// Close releases the stream. Closing twice is a no-op.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Len returns the total stream length.
func (r *Reader) Len() int64 { return r.length }

func (r *Reader) readRemainder() ([]any, error) {
	data := make([]byte, r.length-r.pos)
	n, err := io.ReadFull(r.src, data)
	r.pos += int64(n)
	if err != nil {
		return nil, err
	}
	if r.asBytes {
		return []any{data}, nil
	}
	return []any{string(data)}, nil
}

func (r *Reader) readBytes(maxCount int) ([]any, error) {
	n := r.length - r.pos
	if maxCount > 0 && int64(maxCount) < n {
		n = int64(maxCount)
	}
	data := make([]byte, n)
	read, err := io.ReadFull(r.src, data)
	r.pos += int64(read)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(data))
	for i, b := range data {
		out[i] = b
	}
	return out, nil
}

func (r *Reader) readLines(maxCount int) ([]any, error) {
	records := []any{}
	var carry []byte
	buf := make([]byte, r.bufferSize)

	for maxCount <= 0 || len(records) < maxCount {
		n, err := r.fill(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
		// The carried bytes were already searched; only a partial delimiter
		// at their end can still complete a boundary.
		from := r.rescanFrom(len(carry))
		span := append(carry, buf[:n]...)
		carry = nil
		atEOF := r.pos >= r.length

		for len(span) > 0 {
			if maxCount > 0 && len(records) == maxCount {
				if err := r.unread(len(span)); err != nil {
					return nil, err
				}
				return records, nil
			}
			idx, width := r.split(span, from, atEOF)
			if idx < 0 {
				carry = span
				break
			}
			records = append(records, string(span[:idx]))
			span = span[idx+width:]
			from = 0
		}
	}
	if len(carry) > 0 {
		records = append(records, string(carry))
	}
	return records, nil
}

// fill reads the next chunk, never past the measured length.
func (r *Reader) fill(buf []byte) (int, error) {
	want := r.length - r.pos
	if want <= 0 {
		return 0, nil
	}
	if want > int64(len(buf)) {
		want = int64(len(buf))
	}
	n, err := io.ReadFull(r.src, buf[:want])
	r.pos += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, err
	}
	if n < int(want) {
		// The stream ended before its measured length.
		r.length = r.pos
	}
	return n, nil
}

// unread moves the stream back over n buffered but unreturned bytes.
func (r *Reader) unread(n int) error {
	pos, err := r.src.Seek(-int64(n), io.SeekCurrent)
	if err != nil {
		return err
	}
	r.pos = pos
	return nil
}

// rescanFrom returns where the search for a boundary resumes in a span that
// starts with carried bytes already searched without a match.
func (r *Reader) rescanFrom(carried int) int {
	overlap := 1
	if r.delimiter != nil {
		overlap = len(r.delimiter) - 1
	}
	return max(carried-overlap, 0)
}

// split finds the first record boundary in span at or after from and returns
// its index and the delimiter width, or -1 when span holds no complete record
// yet.
func (r *Reader) split(span []byte, from int, atEOF bool) (int, int) {
	if r.delimiter != nil {
		idx := bytes.Index(span[from:], r.delimiter)
		if idx < 0 {
			return -1, 0
		}
		return from + idx, len(r.delimiter)
	}

	lf := indexFrom(span, from, '\n')
	cr := indexFrom(span, from, '\r')
	switch {
	case lf >= 0 && (cr < 0 || lf < cr):
		return lf, 1
	case cr < 0:
		return -1, 0
	case lf == cr+1:
		return cr, 2
	case cr != len(span)-1 || atEOF:
		return cr, 1
	default:
		// A CR at the end of the buffered data may be the first half of CRLF.
		return -1, 0
	}
}

func indexFrom(span []byte, from int, c byte) int {
	idx := bytes.IndexByte(span[from:], c)
	if idx < 0 {
		return -1
	}
	return from + idx
}
