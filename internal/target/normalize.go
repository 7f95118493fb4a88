// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"net/url"
	"path"
	"path/filepath"
)

// Stdin is the target that names standard input.
const Stdin = "-"

// Normalize processes a given lex target and converts it into a standard
// form.
//
// Targets may be any valid URI or file path. When the target is a file path or
// a file URI then the path is made absolute relative to the file system root.
// All non-file URIs are left as-is with the expectation that they will be
// handled by some other implementation. Stdin is returned unchanged.
func Normalize(target string) string {
	if target == Stdin {
		return target
	}
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	target = filepath.ToSlash(target)
	if !path.IsAbs(target) {
		return path.Join("/", target)
	}
	return path.Clean(target)
}
