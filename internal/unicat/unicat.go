// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package unicat classifies code points by their Unicode general category.
package unicat

import (
	"unicode"
)

type Category uint8

const (
	Unassigned Category = iota // Cn
	LetterUppercase
	LetterLowercase
	LetterTitlecase
	LetterModifier
	LetterOther
	MarkNonspacing
	MarkSpacingCombining
	MarkEnclosing
	NumberDecimal
	NumberLetter
	NumberOther
	PunctuationConnector
	PunctuationDash
	PunctuationOpen
	PunctuationClose
	PunctuationInitialQuote
	PunctuationFinalQuote
	PunctuationOther
	SymbolMath
	SymbolCurrency
	SymbolModifier
	SymbolOther
	SeparatorSpace
	SeparatorLine
	SeparatorParagraph
	OtherControl
	OtherFormat
	OtherSurrogate
	OtherPrivateUse
)

var categories = [...]struct {
	abbrev string
	table  *unicode.RangeTable
}{
	Unassigned:              {"Cn", nil},
	LetterUppercase:         {"Lu", unicode.Lu},
	LetterLowercase:         {"Ll", unicode.Ll},
	LetterTitlecase:         {"Lt", unicode.Lt},
	LetterModifier:          {"Lm", unicode.Lm},
	LetterOther:             {"Lo", unicode.Lo},
	MarkNonspacing:          {"Mn", unicode.Mn},
	MarkSpacingCombining:    {"Mc", unicode.Mc},
	MarkEnclosing:           {"Me", unicode.Me},
	NumberDecimal:           {"Nd", unicode.Nd},
	NumberLetter:            {"Nl", unicode.Nl},
	NumberOther:             {"No", unicode.No},
	PunctuationConnector:    {"Pc", unicode.Pc},
	PunctuationDash:         {"Pd", unicode.Pd},
	PunctuationOpen:         {"Ps", unicode.Ps},
	PunctuationClose:        {"Pe", unicode.Pe},
	PunctuationInitialQuote: {"Pi", unicode.Pi},
	PunctuationFinalQuote:   {"Pf", unicode.Pf},
	PunctuationOther:        {"Po", unicode.Po},
	SymbolMath:              {"Sm", unicode.Sm},
	SymbolCurrency:          {"Sc", unicode.Sc},
	SymbolModifier:          {"Sk", unicode.Sk},
	SymbolOther:             {"So", unicode.So},
	SeparatorSpace:          {"Zs", unicode.Zs},
	SeparatorLine:           {"Zl", unicode.Zl},
	SeparatorParagraph:      {"Zp", unicode.Zp},
	OtherControl:            {"Cc", unicode.Cc},
	OtherFormat:             {"Cf", unicode.Cf},
	OtherSurrogate:          {"Cs", unicode.Cs},
	OtherPrivateUse:         {"Co", unicode.Co},
}

// String returns the two letter abbreviation used by the Unicode database.
func (c Category) String() string {
	if int(c) < len(categories) {
		return categories[c].abbrev
	}
	return "??"
}

// Of returns the general category of r. Code points outside of every table,
// including invalid ones, are Unassigned.
func Of(r rune) Category {
	// ASCII is resolved without a table search.
	switch {
	case r < 0 || r > unicode.MaxRune:
		return Unassigned
	case r < 0x80:
		return ofASCII(r)
	}
	for offset := range categories {
		table := categories[offset].table
		if table != nil && unicode.Is(table, r) {
			return Category(offset)
		}
	}
	return Unassigned
}

// In reports whether r belongs to any of the given categories.
func In(r rune, cats ...Category) bool {
	c := Of(r)
	for _, candidate := range cats {
		if c == candidate {
			return true
		}
	}
	return false
}

// Set is a fixed collection of categories that can be tested in constant time.
type Set uint32

func NewSet(cats ...Category) Set {
	var s Set
	for _, c := range cats {
		s = s | (1 << c)
	}
	return s
}

// With returns a new set containing the categories of both.
func (s Set) With(cats ...Category) Set {
	return s | NewSet(cats...)
}

func (s Set) Has(c Category) bool {
	return s&(1<<c) != 0
}

// Contains reports whether the category of r is in the set.
func (s Set) Contains(r rune) bool {
	return s.Has(Of(r))
}

func ofASCII(r rune) Category {
	switch {
	case r >= 'A' && r <= 'Z':
		return LetterUppercase
	case r >= 'a' && r <= 'z':
		return LetterLowercase
	case r >= '0' && r <= '9':
		return NumberDecimal
	case r < 0x20 || r == 0x7F:
		return OtherControl
	case r == ' ':
		return SeparatorSpace
	}
	switch r {
	case '_':
		return PunctuationConnector
	case '-':
		return PunctuationDash
	case '(', '[', '{':
		return PunctuationOpen
	case ')', ']', '}':
		return PunctuationClose
	case '+', '<', '=', '>', '|', '~':
		return SymbolMath
	case '$':
		return SymbolCurrency
	case '^', '`':
		return SymbolModifier
	default:
		// ! " # % & ' * , . / : ; ? @ \
		return PunctuationOther
	}
}
