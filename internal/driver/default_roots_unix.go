// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build aix || darwin || dragonfly || freebsd || (js && wasm) || linux || netbsd || openbsd || solaris

package driver

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultDataDirs = "/usr/local/share/:/usr/share/"

// getDefaultRoots follows the XDG base directory layout. The user data home
// is searched before the system data directories.
func getDefaultRoots(lookup func(string) (string, bool)) []string {
	expand := func(p string) string {
		return os.Expand(p, func(s string) string {
			v, _ := lookup(s)
			return v
		})
	}
	var roots []string
	if dataHome, ok := lookup("XDG_DATA_HOME"); ok && dataHome != "" {
		roots = append(roots, filepath.Join(expand(dataHome), appName))
	} else if home, ok := lookup("HOME"); ok && home != "" {
		roots = append(roots, filepath.Join(home, ".local", "share", appName))
	}
	xdgDirs, ok := lookup("XDG_DATA_DIRS")
	if !ok || xdgDirs == "" {
		xdgDirs = defaultDataDirs
	}
	for _, dataDir := range strings.Split(xdgDirs, ":") {
		if dataDir == "" {
			continue
		}
		roots = append(roots, filepath.Join(expand(dataDir), appName))
	}
	return roots
}
