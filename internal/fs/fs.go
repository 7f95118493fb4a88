// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/lexer.go/internal/exc"
	"gopkg.microglot.org/lexer.go/internal/idl"
)

const (
	sourceExt = ".lx"  // Source text written for the lexer
	textExt   = ".txt" // Any other plain text
)

var knownExts = map[string]idl.FileKind{
	sourceExt: idl.FileKindSource,
	textExt:   idl.FileKindText,
}

// KindOf classifies a path by its extension. Unknown extensions are
// FileKindNone.
func KindOf(path string) idl.FileKind {
	return knownExts[strings.ToLower(filepath.Ext(path))]
}

// DefaultFileFilter accepts files with a known extension unless they are
// hidden.
func DefaultFileFilter(ctx context.Context, fname string) bool {
	if strings.HasPrefix(fname, ".") {
		return false
	}
	return KindOf(fname) != idl.FileKindNone
}

var _ idl.FileSystem = FileSystemMulti{}

// FileSystemMulti is an ordered set of FileSystem implementations that are
// tried in order. Note that this type does not implement write operations.
// Those must be performed on individual backends.
type FileSystemMulti []idl.FileSystem

func (r FileSystemMulti) Open(ctx context.Context, uri string) ([]idl.File, error) {
	for _, fs := range r {
		files, err := fs.Open(ctx, uri)
		if err != nil {
			continue
		}
		return files, nil
	}
	return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("could not open %s from any file system", uri))
}

func (r FileSystemMulti) Write(ctx context.Context, uri string, content string) error {
	return exc.New(exc.Location{URI: uri}, exc.CodeUnsuportedFileSystemOperation, "cannot write to a composite file system")
}

// FileFilter is a filter function type used to select which files to open when
// the path being opened is a directory. Implementations should return true if
// the file should be opened, false otherwise.
type FileFilter func(ctx context.Context, fname string) bool

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle. The default value is os.DirFS. The string
// value provided to the factory function is the root directory of the file
// system. All paths given to open or write are considered relative to this
// root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

// WithOptionFileFilter installs a custom filter function used to select files
// when a target is a directory. The default is DefaultFileFilter.
func WithOptionFileFilter(v FileFilter) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fileFilter = v
	}
}

type fileSystemLocal struct {
	root       string
	fsFactory  func(string) fs.FS
	fileFilter FileFilter
}

// NewFileSystemLocal creates a new FileSystem rooted at a local directory.
//
// Opening a regular file always yields that file, classified with KindOf.
// Opening a directory yields the regular files directly inside it that pass
// the file filter. Sub-directories are not searched.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (idl.FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: root}, err)
	}
	result := &fileSystemLocal{
		root:       absroot,
		fsFactory:  os.DirFS,
		fileFilter: DefaultFileFilter,
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

// relative converts a URI or path into the un-rooted, slash separated form
// that fs.FS requires. The root itself becomes ".".
func relative(uri string) string {
	path := uri
	u, err := url.Parse(uri)
	if err == nil {
		path = u.Path
	}
	p := filepath.ToSlash(filepath.Clean(filepath.Join("/", path)))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		p = "."
	}
	return p
}

func (r *fileSystemLocal) Open(ctx context.Context, uri string) ([]idl.File, error) {
	dir := r.fsFactory(r.root)
	p := relative(uri)
	stat, err := fs.Stat(dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	if !stat.IsDir() {
		return []idl.File{r.file(dir, p)}, nil
	}
	entries, err := fs.ReadDir(dir, p)
	if err != nil {
		return nil, fsErr(p, err)
	}
	files := make([]idl.File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !r.fileFilter(ctx, entry.Name()) {
			continue
		}
		files = append(files, r.file(dir, pathJoin(p, entry.Name())))
	}
	if len(files) < 1 {
		return nil, exc.New(exc.Location{URI: uri}, exc.CodeFileNotFound, fmt.Sprintf("found directory %s but it has no matching files", uri))
	}
	return files, nil
}

func (r *fileSystemLocal) file(dir fs.FS, p string) idl.File {
	return NewFileFN("/"+p, func() (io.ReadCloser, error) {
		f, err := dir.Open(p)
		if err != nil {
			return nil, fsErr(p, err)
		}
		return f, nil
	}, KindOf(p))
}

func pathJoin(dir string, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

func (r *fileSystemLocal) Write(ctx context.Context, uri string, content string) error {
	p := filepath.Join(r.root, filepath.FromSlash(relative(uri)))
	d := filepath.Dir(p)
	if err := os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

func fsErr(path string, err error) error {
	var errT *fs.PathError
	if errors.As(err, &errT) {
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodeFileNotFound, errT)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(exc.Location{URI: errT.Path}, exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(exc.Location{URI: errT.Path}, errT)
		}
	}
	return exc.WrapUnknown(exc.Location{URI: path}, err)
}
