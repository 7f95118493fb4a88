// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package driver

import (
	"path/filepath"

	"gopkg.microglot.org/lexer.go/internal/fs"
	"gopkg.microglot.org/lexer.go/internal/idl"
)

const appName = "lexc"

// DefaultRoots lists the shared data directories that are searched for
// targets after any explicitly configured roots.
func DefaultRoots(lookup func(string) (string, bool)) []string {
	return getDefaultRoots(lookup)
}

// NewDefaultFS creates a FileSystem over the given roots followed by the
// default roots.
func NewDefaultFS(lookup func(string) (string, bool), roots ...string) (idl.FileSystem, error) {
	all := make([]string, 0, len(roots))
	all = append(all, roots...)
	all = append(all, getDefaultRoots(lookup)...)
	f := make(fs.FileSystemMulti, 0, len(all))
	for _, root := range all {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}
