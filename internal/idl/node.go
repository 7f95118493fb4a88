// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package idl

import (
	"fmt"
	"strings"
)

type TokenNodeKind uint32

const (
	TokenNodeKindInvalid TokenNodeKind = iota
	TokenNodeKindSymbol
	TokenNodeKindNumber
	TokenNodeKindString
	TokenNodeKindParen
	TokenNodeKindBracket
	TokenNodeKindColon
	TokenNodeKindEquals
	TokenNodeKindSemicolon
	TokenNodeKindDot
	TokenNodeKindEllipsis
	TokenNodeKindThinArrow
	TokenNodeKindFatArrow
	TokenNodeKindOperator
	TokenNodeKindOperatorEquals
	TokenNodeKindHash
	TokenNodeKindQuestionMark
)

var tokenNodeKindNames = [...]string{
	TokenNodeKindInvalid:        "Invalid",
	TokenNodeKindSymbol:         "Symbol",
	TokenNodeKindNumber:         "Number",
	TokenNodeKindString:         "String",
	TokenNodeKindParen:          "Paren",
	TokenNodeKindBracket:        "Bracket",
	TokenNodeKindColon:          "Colon",
	TokenNodeKindEquals:         "Equals",
	TokenNodeKindSemicolon:      "Semicolon",
	TokenNodeKindDot:            "Dot",
	TokenNodeKindEllipsis:       "Ellipsis",
	TokenNodeKindThinArrow:      "ThinArrow",
	TokenNodeKindFatArrow:       "FatArrow",
	TokenNodeKindOperator:       "Operator",
	TokenNodeKindOperatorEquals: "OperatorEquals",
	TokenNodeKindHash:           "Hash",
	TokenNodeKindQuestionMark:   "QuestionMark",
}

func (k TokenNodeKind) String() string {
	if int(k) < len(tokenNodeKindNames) {
		return tokenNodeKindNames[k]
	}
	return fmt.Sprintf("unknown-%d", k)
}

func (k TokenNodeKind) MarshalText() ([]byte, error) {
	if int(k) >= len(tokenNodeKindNames) {
		return nil, fmt.Errorf("unknown token node kind %d", k)
	}
	return []byte(tokenNodeKindNames[k]), nil
}

// TokenNode groups the tokens of one syntactic unit together with the
// whitespace and comments around it.
type TokenNode struct {
	Kind           TokenNodeKind
	Children       []Token
	LeadingTrivia  []Token
	TrailingTrivia []Token
}

// Text reproduces the source text covered by the node, trivia included.
func (n TokenNode) Text() string {
	var b strings.Builder
	for _, group := range [][]Token{n.LeadingTrivia, n.Children, n.TrailingTrivia} {
		for _, t := range group {
			_, _ = b.WriteString(t.Content)
		}
	}
	return b.String()
}
