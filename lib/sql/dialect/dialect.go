// Package dialect defines the lexical rules the SQL lexer uses to recognise
// unquoted identifiers.
package dialect

import (
	"fmt"
	"strings"
	"unicode"
)

// Dialect decides which characters may start and continue an unquoted identifier.
type Dialect interface {
	IsIdentifierStart(r rune) bool
	IsIdentifierPart(r rune) bool
}

// ByName returns the dialect called name. The names are "url" and "generic";
// an empty name selects URL.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "url":
		return URL{}, nil
	case "generic":
		return Generic{}, nil
	default:
		return nil, fmt.Errorf("dialect: unknown dialect %q", name)
	}
}

// Generic follows the conventional rules: a letter or underscore starts an
// identifier, letters, digits and underscores continue it.
type Generic struct{}

func (Generic) IsIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func (Generic) IsIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// URL lets a bare URL or file path such as https://host/data.csv?a=1&b=2 lex as
// a single identifier. Only ASCII letters may start an identifier so numeric
// literals keep lexing as numbers.
type URL struct{}

func (URL) IsIdentifierStart(r rune) bool {
	return isASCIILetter(r)
}

func (URL) IsIdentifierPart(r rune) bool {
	if isASCIILetter(r) || isASCIIDigit(r) {
		return true
	}
	switch r {
	case ':', '/', '?', '&', '=', '-', '_', '.':
		return true
	default:
		return false
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
