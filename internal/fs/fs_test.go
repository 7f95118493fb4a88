// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/lexer.go/internal/exc"
	"gopkg.microglot.org/lexer.go/internal/idl"
)

func mapFS(files fstest.MapFS) FileSystemLocalOption {
	return WithOptionFSFactory(func(string) fs.FS { return files })
}

func readAll(t *testing.T, ctx context.Context, f idl.File) string {
	t.Helper()
	body, err := f.Body(ctx)
	require.NoError(t, err)
	var b strings.Builder
	for {
		chunk, err := body.Read(ctx, 3)
		_, _ = b.Write(chunk)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	require.NoError(t, body.Close(ctx))
	return b.String()
}

func TestFileSystemLocal(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"src/main.lx":       {Data: []byte("let x = 1;")},
		"src/notes.txt":     {Data: []byte("notes")},
		"src/image.png":     {Data: []byte{0x89}},
		"src/.hidden.lx":    {Data: []byte("hidden")},
		"src/nested/a.lx":   {Data: []byte("nested")},
		"other/README":      {Data: []byte("readme")},
		"empty/.gitkeep.lx": {Data: []byte("")},
	}
	ctx := context.Background()
	local, err := NewFileSystemLocal("/unused", mapFS(files))
	require.NoError(t, err)

	testCases := []struct {
		name     string
		uri      string
		expected map[string]idl.FileKind
		code     string
	}{
		{
			name: "directory",
			uri:  "/src",
			expected: map[string]idl.FileKind{
				"/src/main.lx":   idl.FileKindSource,
				"/src/notes.txt": idl.FileKindText,
			},
		},
		{
			name: "file uri",
			uri:  "file:///src/main.lx",
			expected: map[string]idl.FileKind{
				"/src/main.lx": idl.FileKindSource,
			},
		},
		{
			name: "explicit unknown file",
			uri:  "other/README",
			expected: map[string]idl.FileKind{
				"/other/README": idl.FileKindNone,
			},
		},
		{
			name: "path escaping root",
			uri:  "/../../src/notes.txt",
			expected: map[string]idl.FileKind{
				"/src/notes.txt": idl.FileKindText,
			},
		},
		{
			name: "missing",
			uri:  "/nope.lx",
			code: exc.CodeFileNotFound,
		},
		{
			name: "no matching files",
			uri:  "/empty",
			code: exc.CodeFileNotFound,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			result, err := local.Open(ctx, testCase.uri)
			if testCase.code != "" {
				require.True(t, exc.HasCode(err, testCase.code), "%v", err)
				return
			}
			require.NoError(t, err)
			found := make(map[string]idl.FileKind, len(result))
			for _, f := range result {
				found[f.Path(ctx)] = f.Kind(ctx)
			}
			require.Equal(t, testCase.expected, found)
		})
	}
}

func TestFileSystemLocalBody(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	content := "let x = 1;\nlet y = x.z;\n"
	local, err := NewFileSystemLocal("/unused", mapFS(fstest.MapFS{"a.lx": {Data: []byte(content)}}))
	require.NoError(t, err)
	result, err := local.Open(ctx, "/")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, content, readAll(t, ctx, result[0]))
	require.Equal(t, content, readAll(t, ctx, result[0]))
}

func TestFileSystemLocalFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	local, err := NewFileSystemLocal("/unused",
		mapFS(fstest.MapFS{"a.lx": {}, "b.md": {}, ".c": {}}),
		WithOptionFileFilter(func(ctx context.Context, fname string) bool { return true }),
	)
	require.NoError(t, err)
	result, err := local.Open(ctx, "/")
	require.NoError(t, err)
	var paths []string
	for _, f := range result {
		paths = append(paths, f.Path(ctx))
	}
	sort.Strings(paths)
	require.Equal(t, []string{"/.c", "/a.lx", "/b.md"}, paths)
}

func TestFileSystemLocalWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	local, err := NewFileSystemLocal(root)
	require.NoError(t, err)
	require.NoError(t, local.Write(ctx, "/out/tokens.txt", "Symbol 'x'\n"))

	b, err := os.ReadFile(filepath.Join(root, "out", "tokens.txt"))
	require.NoError(t, err)
	require.Equal(t, "Symbol 'x'\n", string(b))

	result, err := local.Open(ctx, "out")
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, "Symbol 'x'\n", readAll(t, ctx, result[0]))
}

func TestFileSystemMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first, err := NewFileSystemLocal("/first", mapFS(fstest.MapFS{"a.lx": {Data: []byte("first")}}))
	require.NoError(t, err)
	second, err := NewFileSystemLocal("/second", mapFS(fstest.MapFS{
		"a.lx": {Data: []byte("shadowed")},
		"b.lx": {Data: []byte("second")},
	}))
	require.NoError(t, err)
	multi := FileSystemMulti{first, second}

	result, err := multi.Open(ctx, "/a.lx")
	require.NoError(t, err)
	require.Equal(t, "first", readAll(t, ctx, result[0]))

	result, err = multi.Open(ctx, "/b.lx")
	require.NoError(t, err)
	require.Equal(t, "second", readAll(t, ctx, result[0]))

	_, err = multi.Open(ctx, "/c.lx")
	require.True(t, exc.HasCode(err, exc.CodeFileNotFound))
	err = multi.Write(ctx, "/c.lx", "")
	require.True(t, exc.HasCode(err, exc.CodeUnsuportedFileSystemOperation))
}

func TestFileString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := NewFileString("/virtual.lx", "a b", idl.FileKindSource)
	require.Equal(t, "/virtual.lx", f.Path(ctx))
	require.Equal(t, idl.FileKindSource, f.Kind(ctx))
	require.Equal(t, "a b", readAll(t, ctx, f))

	r := NewFileReader("-", strings.NewReader("once"), idl.FileKindText)
	require.Equal(t, "once", readAll(t, ctx, r))
	require.Equal(t, "", readAll(t, ctx, r))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	require.Equal(t, idl.FileKindSource, KindOf("a/b.lx"))
	require.Equal(t, idl.FileKindSource, KindOf("B.LX"))
	require.Equal(t, idl.FileKindText, KindOf("notes.txt"))
	require.Equal(t, idl.FileKindNone, KindOf("image.png"))
	require.False(t, DefaultFileFilter(context.Background(), ".hidden.lx"))
	require.True(t, DefaultFileFilter(context.Background(), "shown.lx"))
}
