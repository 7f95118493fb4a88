// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"fmt"
	"strconv"
)

// Position is a 1-based line and column in source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type TokenKind uint32

const (
	TokenKindInvalid TokenKind = iota
	TokenKindWhitespace
	TokenKindSymbol
	TokenKindNumberWholePart
	TokenKindNumberFractionalPart
	TokenKindNumberExponent
	TokenKindStringStart
	TokenKindStringEnd
	TokenKindStringContent
	TokenKindStringInterpolationStart
	TokenKindStringInterpolationEnd
	TokenKindParenStart
	TokenKindParenEnd
	TokenKindBracketStart
	TokenKindBracketEnd
	TokenKindColon
	TokenKindEquals
	TokenKindSemicolon
	TokenKindComment
	TokenKindDot
	TokenKindEllipsis
	TokenKindThinArrow
	TokenKindFatArrow
	TokenKindOperator
	TokenKindOperatorEquals
	TokenKindHash
	TokenKindQuestionMark
)

var tokenKindNames = [...]string{
	TokenKindInvalid:                  "Invalid",
	TokenKindWhitespace:               "Whitespace",
	TokenKindSymbol:                   "Symbol",
	TokenKindNumberWholePart:          "NumberWholePart",
	TokenKindNumberFractionalPart:     "NumberFractionalPart",
	TokenKindNumberExponent:           "NumberExponent",
	TokenKindStringStart:              "StringStart",
	TokenKindStringEnd:                "StringEnd",
	TokenKindStringContent:            "StringContent",
	TokenKindStringInterpolationStart: "StringInterpolationStart",
	TokenKindStringInterpolationEnd:   "StringInterpolationEnd",
	TokenKindParenStart:               "ParenStart",
	TokenKindParenEnd:                 "ParenEnd",
	TokenKindBracketStart:             "BracketStart",
	TokenKindBracketEnd:               "BracketEnd",
	TokenKindColon:                    "Colon",
	TokenKindEquals:                   "Equals",
	TokenKindSemicolon:                "Semicolon",
	TokenKindComment:                  "Comment",
	TokenKindDot:                      "Dot",
	TokenKindEllipsis:                 "Ellipsis",
	TokenKindThinArrow:                "ThinArrow",
	TokenKindFatArrow:                 "FatArrow",
	TokenKindOperator:                 "Operator",
	TokenKindOperatorEquals:           "OperatorEquals",
	TokenKindHash:                     "Hash",
	TokenKindQuestionMark:             "QuestionMark",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("unknown-%d", k)
}

func (k TokenKind) MarshalText() ([]byte, error) {
	if int(k) >= len(tokenKindNames) {
		return nil, fmt.Errorf("unknown token kind %d", k)
	}
	return []byte(tokenKindNames[k]), nil
}

func (k *TokenKind) UnmarshalText(b []byte) error {
	for offset, name := range tokenKindNames {
		if name == string(b) {
			*k = TokenKind(offset)
			return nil
		}
	}
	return fmt.Errorf("unknown token kind %q", string(b))
}

// Token is a lexeme along with the position of its first code point.
type Token struct {
	Kind    TokenKind
	Content string
	Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Content)
}
