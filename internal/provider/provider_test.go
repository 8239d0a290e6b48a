// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package provider

import (
	"context"
	"io"
	"testing"

	"gisthub/cli/internal/backend"
	"gisthub/cli/internal/backend/backendtest"
	"gisthub/cli/internal/bridge"
	"gisthub/cli/internal/bridge/model"
	"gisthub/cli/internal/content"
	apperrors "gisthub/cli/internal/errors"
	"gisthub/cli/internal/gistcache"
	"gisthub/cli/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	value       any
	path        string
	isContainer bool
}

type confirmCall struct{ target, action string }

type testHost struct {
	items    []item
	errors   []*model.ErrorRecord
	verbose  []string
	confirms []confirmCall
	deny     bool
}

func (h *testHost) WriteItem(v any, path string, isContainer bool) {
	h.items = append(h.items, item{v, path, isContainer})
}
func (h *testHost) WriteError(rec *model.ErrorRecord) { h.errors = append(h.errors, rec) }
func (h *testHost) WriteWarning(string) {}
func (h *testHost) WriteVerbose(text string) { h.verbose = append(h.verbose, text) }
func (h *testHost) WriteDebug(string) {}
func (h *testHost) WriteInformation(model.InformationRecord) {}
func (h *testHost) WriteProgress(model.ProgressRecord) {}
func (h *testHost) Confirm(target, action string) bool {
	h.confirms = append(h.confirms, confirmCall{target, action})
	return !h.deny
}

func (h *testHost) errorIDs() []string {
	var ids []string
	for _, e := range h.errors {
		ids = append(ids, e.ID)
	}
	return ids
}

type fixture struct {
	api     *backendtest.Fake
	host    *testHost
	session *session.Session
	tokens  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cache, err := gistcache.New(gistcache.DefaultOwners, gistcache.DefaultTTL)
	require.NoError(t, err)
	f := &fixture{
		api:     backendtest.New(),
		host:    &testHost{},
		session: session.New(cache),
	}
	f.api.AddGist("octocat", "aaa", "first", true, map[string]string{"hello.txt": "Hello\nWorld"})
	f.api.AddGist("octocat", "bbb", "second", false, map[string]string{
		"one.txt": "1",
		"two.txt": "2",
	})
	return f
}

func (f *fixture) translator(command string, force bool) *Translator {
	prov := New(func(token string) (backend.API, error) {
		f.tokens = append(f.tokens, token)
		return f.api, nil
	})
	return NewTranslator(prov, f.host, bridge.Invocation{
		Session: f.session,
		Drive:   &bridge.Drive{Name: DefaultDriveName},
		Force:   force,
		Command: bridge.Command{Name: command},
	})
}

func (f *fixture) login(user string) {
	f.api.Login = user
	f.session.SetToken("session-token")
}

func TestGetItemRequiresOwnerAndGist(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("get", false)

	require.NoError(t, tr.GetItem(context.Background(), ""))
	require.NoError(t, tr.GetItem(context.Background(), "octocat"))

	assert.Equal(t, []string{ErrIDUserRequired, ErrIDIdRequired}, f.host.errorIDs())
	assert.Equal(t, apperrors.InvalidArgument, f.host.errors[0].Category)
	assert.Zero(t, f.api.Calls["ListUserGists"])
}

func TestGetItemGistAndFile(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("get", false)

	require.NoError(t, tr.GetItem(context.Background(), "octocat/BBB"))
	require.NoError(t, tr.GetItem(context.Background(), "octocat/aaa/hello.txt"))
	require.NoError(t, tr.GetItem(context.Background(), "octocat/aaa/missing.txt"))
	require.NoError(t, tr.GetItem(context.Background(), "octocat/zzz"))

	require.Len(t, f.host.items, 2)
	info, ok := f.host.items[0].value.(*GistInfo)
	require.True(t, ok)
	assert.True(t, f.host.items[0].isContainer)
	assert.Equal(t, "bbb", info.ID)
	assert.Equal(t, "Gist:octocat/bbb", info.Path)
	assert.True(t, info.IsSecret)
	require.Len(t, info.Files, 2)
	assert.Equal(t, "one.txt", info.Files[0].Name)
	assert.Equal(t, "Gist:octocat/bbb/one.txt", info.Files[0].Path)

	file, ok := f.host.items[1].value.(*GistFile)
	require.True(t, ok)
	assert.False(t, f.host.items[1].isContainer)
	assert.Equal(t, "hello.txt", file.Name)
	assert.Equal(t, "octocat/aaa/hello.txt", file.ProviderPath())

	assert.Equal(t, []string{ErrIDGistFileNotFound, ErrIDGistNotFound}, f.host.errorIDs())
	assert.Equal(t, 1, f.api.Calls["ListUserGists"], "listing is cached between calls")
}

func TestGetChildItems(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("ls", false)

	require.NoError(t, tr.GetChildItems(context.Background(), "octocat", true, ChildOptions{}))
	require.NoError(t, tr.GetChildItems(context.Background(), "octocat/bbb", true, ChildOptions{}))
	require.NoError(t, tr.GetChildItems(context.Background(), "octocat/aaa", false, ChildOptions{}))

	var got []any
	var paths []string
	for _, it := range f.host.items {
		got = append(got, it.value)
		paths = append(paths, it.path)
	}
	require.Len(t, got, 5)
	assert.Equal(t, []any{"bbb", "aaa", "one.txt", "two.txt"}, got[:4])
	assert.Equal(t, []string{"octocat/bbb", "octocat/aaa", "octocat/bbb/one.txt", "octocat/bbb/two.txt", "octocat/aaa/hello.txt"}, paths)
	_, isFile := got[4].(*GistFile)
	assert.True(t, isFile)

	require.NoError(t, tr.GetChildItems(context.Background(), "", false, ChildOptions{}))
	assert.Equal(t, []string{ErrIDUserRequired}, f.host.errorIDs())
}

func TestItemExists(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("test", false)
	ctx := context.Background()

	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"octocat", true},
		{"ghost", false},
		{"octocat/aaa", true},
		{"octocat/nope", false},
		{"octocat/aaa/hello.txt", true},
		{"octocat/aaa/other.txt", false},
	}
	for _, tt := range tests {
		got, err := tr.ItemExists(ctx, tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestContainerQueries(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("test", false)
	ctx := context.Background()

	isContainer, err := tr.IsItemContainer(ctx, "octocat/aaa")
	require.NoError(t, err)
	assert.True(t, isContainer)
	isContainer, err = tr.IsItemContainer(ctx, "octocat/aaa/hello.txt")
	require.NoError(t, err)
	assert.False(t, isContainer)

	valid, err := tr.IsValidPath(ctx, `any\thing`)
	require.NoError(t, err)
	assert.True(t, valid)

	has, err := tr.HasChildItems(ctx, "octocat/aaa")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = tr.HasChildItems(ctx, "octocat/aaa/hello.txt")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = tr.HasChildItems(ctx, "octocat/unknown")
	require.NoError(t, err)
	assert.False(t, has)

	name, err := tr.GetChildName(ctx, "octocat/aaa/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", name)
}

func TestNewItemCreatesGist(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("new", false)

	err := tr.NewItem(context.Background(), "octocat/Notes.md", "", "# notes", NewItemOptions{Description: "mine", Public: true})
	require.NoError(t, err)

	require.Empty(t, f.host.errors)
	assert.Equal(t, []confirmCall{{"octocat/Notes.md", "Create Gist"}}, f.host.confirms)
	require.Len(t, f.host.items, 1)
	file := f.host.items[0].value.(*GistFile)
	assert.Equal(t, "Notes.md", file.Name)
	assert.Equal(t, "mine", file.Gist.Description)
	assert.False(t, file.Gist.IsSecret)

	stored, ok := f.api.Gist(file.Gist.ID)
	require.True(t, ok)
	assert.Equal(t, "# notes", stored.Files["Notes.md"].Content)
}

func TestNewItemValidation(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		itemType string
		value    any
		opts     NewItemOptions
		force    bool
		login    bool
		want     string
	}{
		{name: "no owner", path: "", value: "x", want: ErrIDUserRequired},
		{name: "no id", path: "octocat", value: "x", want: ErrIDIdOrFileNameRequired},
		{name: "item type", path: "octocat/f.txt", itemType: "file", value: "x", want: ErrIDItemTypeNotSupported},
		{name: "blank content", path: "octocat/f.txt", value: "  ", want: ErrIDContentRequired},
		{name: "no token", path: "octocat/f.txt", value: "x", want: ErrIDNoToken},
		{name: "unknown gist", path: "octocat/zzz/f.txt", value: "x", login: true, want: ErrIDGistNotFound},
		{name: "scope change", path: "octocat/bbb/f.txt", value: "x", login: true, opts: NewItemOptions{Public: true}, want: ErrIDCannotChangeScope},
		{name: "description change", path: "octocat/bbb/f.txt", value: "x", login: true, opts: NewItemOptions{Description: "other"}, want: ErrIDCannotChangeDescription},
		{name: "duplicate file", path: "octocat/bbb/one.txt", value: "x", login: true, want: ErrIDCannotCreateDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.login {
				f.login("octocat")
			}
			tr := f.translator("new", tt.force)

			require.NoError(t, tr.NewItem(context.Background(), tt.path, tt.itemType, tt.value, tt.opts))
			assert.Equal(t, []string{tt.want}, f.host.errorIDs())
			assert.Empty(t, f.host.confirms)
			assert.Zero(t, f.api.Calls["CreateGist"]+f.api.Calls["UpdateGist"])
		})
	}
}

func TestNewItemAddsFileWithForce(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("new", true)

	require.NoError(t, tr.NewItem(context.Background(), "octocat/bbb/one.txt", "", "replaced", NewItemOptions{Description: "renamed"}))

	assert.Equal(t, []confirmCall{{"octocat/bbb/one.txt", "Create Gist file"}}, f.host.confirms)
	stored, _ := f.api.Gist("bbb")
	assert.Equal(t, "replaced", stored.Files["one.txt"].Content)
	assert.Equal(t, "renamed", stored.Description)
	require.Len(t, f.host.items, 1)
	assert.Equal(t, "octocat/bbb/one.txt", f.host.items[0].path)
}

func TestNewItemDeclined(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	f.host.deny = true
	tr := f.translator("new", false)

	require.NoError(t, tr.NewItem(context.Background(), "octocat/x.txt", "", "x", NewItemOptions{}))
	assert.Len(t, f.host.confirms, 1)
	assert.Zero(t, f.api.Calls["CreateGist"])
	assert.Empty(t, f.host.items)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("rm", false)
	ctx := context.Background()

	require.NoError(t, tr.RemoveItem(ctx, "octocat/bbb/two.txt"))
	stored, _ := f.api.Gist("bbb")
	assert.NotContains(t, stored.Files, "two.txt")
	require.Len(t, f.api.Updates, 1)
	assert.Nil(t, f.api.Updates[0].Files["two.txt"])

	require.NoError(t, tr.RemoveItem(ctx, "octocat/aaa"))
	_, ok := f.api.Gist("aaa")
	assert.False(t, ok)

	exists, err := tr.ItemExists(ctx, "octocat/aaa")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, []confirmCall{
		{"octocat/bbb/two.txt", "Remove Gist File"},
		{"octocat/aaa", "Remove Gist"},
	}, f.host.confirms)
}

func TestRemoveItemErrors(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("rm", false)
	ctx := context.Background()

	require.NoError(t, tr.RemoveItem(ctx, "octocat"))
	require.NoError(t, tr.RemoveItem(ctx, "octocat/aaa"))
	f.login("octocat")
	require.NoError(t, tr.RemoveItem(ctx, "octocat/aaa/none.txt"))

	assert.Equal(t, []string{ErrIDIdRequired, ErrIDNoToken, ErrIDGistFileNotFound}, f.host.errorIDs())
	assert.Zero(t, f.api.Calls["DeleteGist"])
}

func TestRemoteFailureEndsCall(t *testing.T) {
	f := newFixture(t)
	f.login("someone-else")
	tr := f.translator("rm", false)

	err := tr.RemoveItem(context.Background(), "octocat/aaa")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.PermissionDenied))
}

func TestClearContent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.translator("set", false).ClearContent(context.Background(), "octocat/aaa/hello.txt"))

	err := f.translator("clear", false).ClearContent(context.Background(), "octocat/aaa/hello.txt")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.NotSupported))
	assert.Contains(t, err.Error(), ErrNotSupported)
}

func TestGetContentReader(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("cat", false)
	ctx := context.Background()

	r, err := tr.GetContentReader(ctx, "octocat/aaa", ContentReadOptions{})
	require.NoError(t, err)
	require.NotNil(t, r)
	lines, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []any{"Hello", "World"}, lines)

	r, err = tr.GetContentReader(ctx, "octocat/bbb/two.txt", ContentReadOptions{AsByteStream: true})
	require.NoError(t, err)
	b, err := r.Read(0)
	require.NoError(t, err)
	assert.Equal(t, []any{byte('2')}, b)

	r, err = tr.GetContentReader(ctx, "octocat/bbb", ContentReadOptions{})
	require.NoError(t, err)
	assert.Nil(t, r)
	require.Len(t, f.host.errors, 1)
	assert.Equal(t, ErrIDFileRequired, f.host.errors[0].ID)
	assert.Contains(t, f.host.errors[0].Message(), "Available files: 'one.txt', 'two.txt'")
}

func TestGetContentReaderOptionErrors(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("cat", false)
	ctx := context.Background()

	for _, opts := range []ContentReadOptions{
		{Delimiter: ",", AsByteStream: true},
		{Delimiter: ",", Raw: true},
	} {
		r, err := tr.GetContentReader(ctx, "octocat/aaa", opts)
		require.NoError(t, err)
		assert.Nil(t, r)
	}
	r, err := tr.GetContentReader(ctx, "octocat", ContentReadOptions{})
	require.NoError(t, err)
	assert.Nil(t, r)
	r, err = tr.GetContentReader(ctx, "octocat/aaa/nope.txt", ContentReadOptions{})
	require.NoError(t, err)
	assert.Nil(t, r)

	assert.Equal(t, []string{ErrIDDelimiterAsByteStream, ErrIDDelimiterRaw, ErrIDGistIdRequired, ErrIDGistFileNotFound}, f.host.errorIDs())
	assert.Equal(t, 1, f.api.Calls["GetGist"], "only the missing file reached the API")
}

func TestGetContentWriterSetReplaces(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("set", false)

	w, err := tr.GetContentWriter(context.Background(), "octocat/aaa/hello.txt", ContentWriteOptions{Delimiter: "\n"})
	require.NoError(t, err)
	require.NotNil(t, w)
	_, err = w.Write([]any{"new"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	stored, _ := f.api.Gist("aaa")
	assert.Equal(t, "new\n", stored.Files["hello.txt"].Content)
}

func TestGetContentWriterAddAppends(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("add", false)

	w, err := tr.GetContentWriter(context.Background(), "octocat/aaa/hello.txt", ContentWriteOptions{Delimiter: "\n"})
	require.NoError(t, err)
	_, err = w.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	_, err = w.Write([]any{"!"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	stored, _ := f.api.Gist("aaa")
	assert.Equal(t, "Hello\nWorld!\n", stored.Files["hello.txt"].Content)
}

func TestGetContentWriterNewFileAndBlank(t *testing.T) {
	f := newFixture(t)
	f.login("octocat")
	tr := f.translator("set", false)

	w, err := tr.GetContentWriter(context.Background(), "octocat/aaa/new.txt", ContentWriteOptions{})
	require.NoError(t, err)
	require.NotNil(t, w)
	_, err = w.Write([]any{" "})
	require.NoError(t, err)
	err = w.Close()
	require.ErrorIs(t, err, content.ErrBlankContent)
	assert.Zero(t, f.api.Calls["UpdateGist"])
}

func TestGetContentWriterErrors(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("set", false)
	ctx := context.Background()

	for _, path := range []string{"octocat", "octocat/aaa", "octocat/aaa/hello.txt"} {
		w, err := tr.GetContentWriter(ctx, path, ContentWriteOptions{})
		require.NoError(t, err)
		assert.Nil(t, w)
	}
	f.login("octocat")
	w, err := tr.GetContentWriter(ctx, "octocat/zzz/a.txt", ContentWriteOptions{})
	require.NoError(t, err)
	assert.Nil(t, w)

	assert.Equal(t, []string{ErrIDGistIdRequired, ErrIDFileNameRequired, ErrIDNoToken, ErrIDGistNotFound}, f.host.errorIDs())
}

func TestTokenPrecedence(t *testing.T) {
	f := newFixture(t)
	f.session.SetToken("session")
	ctx := context.Background()

	tr := f.translator("ls", false)
	require.NoError(t, tr.GetChildItems(ctx, "octocat", true, ChildOptions{}))
	f.session.Cache().Purge()

	tr.inv.Drive.Credential = "drive"
	require.NoError(t, tr.GetChildItems(ctx, "octocat", true, ChildOptions{}))

	tr.inv.Credential = "flag"
	require.NoError(t, tr.GetChildItems(ctx, "octocat", true, ChildOptions{}))

	require.NoError(t, tr.GetChildItems(ctx, "octocat", true, ChildOptions{Token: "option"}))

	assert.Equal(t, []string{"session", "drive", "flag", "option"}, f.tokens)
}

func TestNewDrive(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("drive", false)
	ctx := context.Background()

	d, err := tr.NewDrive(ctx, &bridge.Drive{Name: "Mine", Root: "octocat"})
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2, f.session.Cache().Owner("octocat").Len())

	d, err = tr.NewDrive(ctx, &bridge.Drive{Name: "Ghost", Root: "ghost"})
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = tr.NewDrive(ctx, &bridge.Drive{Name: "Gist"})
	require.NoError(t, err)
	assert.NotNil(t, d)

	d, err = tr.NewDrive(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, d)

	assert.Equal(t, []string{ErrIDUserNotFound, ErrIDDriveNull}, f.host.errorIDs())
}

func TestVerboseEntryLines(t *testing.T) {
	f := newFixture(t)
	tr := f.translator("get", false)

	require.NoError(t, tr.GetItem(context.Background(), "octocat/aaa"))
	require.NotEmpty(t, f.host.verbose)
	assert.Equal(t, "GetItem: 'octocat/aaa'", f.host.verbose[0])
}
