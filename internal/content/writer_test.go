// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package content

import (
	"errors"
	"io"
	"testing"

	apperrors "gisthub/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commitRecorder struct {
	calls   int
	content string
}

func (c *commitRecorder) commit(content string) error {
	c.calls++
	c.content = content
	return nil
}

func TestWriterJoinsRecords(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter(nil, rec.commit, WriterOptions{Delimiter: "\n", Target: "a.txt"})

	echoed, err := w.Write([]any{"one", "two"})
	require.NoError(t, err)
	assert.Equal(t, []any{"one", "two"}, echoed)

	_, err = w.Write([]any{3, []byte("four")})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "one\ntwo\n3\nfour\n", rec.content)
}

func TestWriterDefaultDelimiter(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter(nil, rec.commit, WriterOptions{})

	_, err := w.Write([]any{"x"})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "x"+DefaultDelimiter, rec.content)
}

func TestWriterOverwritesSeed(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter([]byte("abcdefgh"), rec.commit, WriterOptions{Delimiter: "|"})

	_, err := w.Write([]any{"XY"})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "XY|defgh", rec.content)
}

func TestWriterAppendsAfterSeekEnd(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter([]byte("first\n"), rec.commit, WriterOptions{Delimiter: "\n"})

	pos, err := w.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	_, err = w.Write([]any{"second"})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "first\nsecond\n", rec.content)
}

func TestWriterSeekPastEndZeroFills(t *testing.T) {
	w := NewWriter([]byte("ab"), func(string) error { return nil }, WriterOptions{Delimiter: "\n"})

	_, err := w.Seek(2, io.SeekEnd)
	require.NoError(t, err)
	_, err = w.Write([]any{"c"})
	require.NoError(t, err)
	assert.Equal(t, "ab\x00\x00c\n", w.String())
}

func TestWriterSeekRejectsNegative(t *testing.T) {
	w := NewWriter([]byte("ab"), func(string) error { return nil }, WriterOptions{})

	_, err := w.Seek(-3, io.SeekEnd)
	assert.Error(t, err)

	pos, err := w.Seek(1, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pos)
}

func TestWriterRejectsBlankContent(t *testing.T) {
	tests := []struct {
		name    string
		records []any
	}{
		{name: "nothing written", records: nil},
		{name: "spaces", records: []any{"   ", "\t"}},
		{name: "empty records", records: []any{"", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &commitRecorder{}
			w := NewWriter(nil, rec.commit, WriterOptions{Delimiter: "\n", Target: "notes.md"})
			_, err := w.Write(tt.records)
			require.NoError(t, err)

			err = w.Close()
			require.ErrorIs(t, err, ErrBlankContent)
			assert.True(t, apperrors.Is(err, apperrors.InvalidData))
			assert.Contains(t, err.Error(), "notes.md")
			assert.ErrorIs(t, w.Close(), ErrBlankContent)
			assert.Zero(t, rec.calls)
		})
	}
}

func TestWriterCommitsOnce(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter(nil, rec.commit, WriterOptions{Delimiter: "\n"})

	_, err := w.Write([]any{"data"})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, 1, rec.calls)

	_, err = w.Write([]any{"late"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWriterCloseRepeatsCommitFailure(t *testing.T) {
	failure := errors.New("gist update failed")
	calls := 0
	w := NewWriter(nil, func(string) error {
		calls++
		return failure
	}, WriterOptions{Delimiter: "\n"})

	_, err := w.Write([]any{"data"})
	require.NoError(t, err)
	require.ErrorIs(t, w.Close(), failure)
	require.ErrorIs(t, w.Close(), failure)
	assert.Equal(t, 1, calls)
}

func TestWriterLargeOutput(t *testing.T) {
	rec := &commitRecorder{}
	w := NewWriter(nil, rec.commit, WriterOptions{Delimiter: "\n"})

	for i := 0; i < 1000; i++ {
		_, err := w.Write([]any{"line"})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	assert.Len(t, rec.content, 5000)
}
