// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"gopkg.microglot.org/lexer.go/internal/idl"
)

// StartPosition is the position of the first code point of any input.
var StartPosition = idl.Position{Line: 1, Column: 1}

// UpdatePosition returns the position that follows point when point was found
// at previous. Only a line feed starts a new line.
func UpdatePosition(point idl.CodePoint, previous idl.Position) idl.Position {
	if point == '\n' {
		return idl.Position{Line: previous.Line + 1, Column: 1}
	}
	return idl.Position{Line: previous.Line, Column: previous.Column + 1}
}
