package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/dialect"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/token"
)

// Lexer converts raw SQL text into a stream of tokens.
type Lexer struct {
	input   string
	dialect dialect.Dialect

	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

// New creates a Lexer that recognises identifiers with the generic dialect.
func New(input string) *Lexer {
	return NewWithDialect(input, dialect.Generic{})
}

// NewWithDialect creates a Lexer whose unquoted identifiers follow d.
func NewWithDialect(input string, d dialect.Dialect) *Lexer {
	if d == nil {
		d = dialect.Generic{}
	}
	l := &Lexer{input: input, dialect: d, line: 1}
	l.readRune()
	return l
}

// NextToken advances and returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipIgnored()

	pos := token.Position{Line: l.line, Column: l.column}
	if l.ch == 0 {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	if l.dialect.IsIdentifierStart(l.ch) {
		word := l.readIdentifier()
		upper := strings.ToUpper(word)
		if kw := token.Lookup(upper); kw != token.IDENT {
			return token.Token{Type: kw, Literal: upper, Raw: word, Pos: pos}
		}
		return token.Token{Type: token.IDENT, Literal: word, Raw: word, Pos: pos}
	}
	if unicode.IsDigit(l.ch) {
		return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
	}

	switch l.ch {
	case '\'':
		return token.Token{Type: token.STRING, Literal: l.readQuoted('\''), Pos: pos}
	case '"':
		return token.Token{Type: token.IDENT, Literal: l.readQuoted('"'), Pos: pos}
	case '<':
		switch l.peekRune() {
		case '=':
			return l.pair(token.LTE, pos)
		case '>':
			return l.pair(token.NEQ, pos)
		}
	case '>':
		if l.peekRune() == '=' {
			return l.pair(token.GTE, pos)
		}
	case '!':
		if l.peekRune() == '=' {
			return l.pair(token.NEQ, pos)
		}
	case '|':
		if l.peekRune() == '|' {
			return l.pair(token.CONCAT, pos)
		}
	}

	typ, ok := singles[l.ch]
	if !ok {
		typ = token.ILLEGAL
	}
	tok := token.Token{Type: typ, Literal: string(l.ch), Pos: pos}
	l.readRune()
	return tok
}

var singles = map[rune]token.Type{
	',': token.COMMA,
	';': token.SEMICOLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'.': token.DOT,
	'*': token.STAR,
	'+': token.PLUS,
	'-': token.MINUS,
	'/': token.SLASH,
	'%': token.PERCENT,
	'^': token.CARET,
	'=': token.EQ,
	'<': token.LT,
	'>': token.GT,
	'?': token.PLACEHOLDER,
}

// pair emits a two-character operator starting at the current rune.
func (l *Lexer) pair(t token.Type, pos token.Position) token.Token {
	first := l.ch
	l.readRune()
	tok := token.Token{Type: t, Literal: string([]rune{first, l.ch}), Pos: pos}
	l.readRune()
	return tok
}

func (l *Lexer) readRune() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += size
	l.ch = r
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// skipIgnored drops whitespace, -- line comments and /* */ block comments.
func (l *Lexer) skipIgnored() {
	for {
		switch {
		case l.ch != 0 && unicode.IsSpace(l.ch):
			l.readRune()
		case l.ch == '-' && l.peekRune() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readRune()
			}
		case l.ch == '/' && l.peekRune() == '*':
			l.readRune()
			l.readRune()
			for l.ch != 0 && !(l.ch == '*' && l.peekRune() == '/') {
				l.readRune()
			}
			if l.ch != 0 {
				l.readRune()
				l.readRune()
			}
		default:
			return
		}
	}
}

// readIdentifier consumes identifier characters allowed by the dialect. A dot
// directly followed by '*' is left for the parser so that t.* stays a
// qualified wildcard even when '.' may continue an identifier.
func (l *Lexer) readIdentifier() string {
	start := l.position
	for l.ch != 0 && l.dialect.IsIdentifierPart(l.ch) {
		if l.ch == '.' && l.peekRune() == '*' {
			break
		}
		l.readRune()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	hasDot := false
	for unicode.IsDigit(l.ch) || (!hasDot && l.ch == '.') {
		if l.ch == '.' {
			hasDot = true
		}
		l.readRune()
	}
	return l.input[start:l.position]
}

// readQuoted reads a quote-delimited literal where a doubled quote escapes itself.
func (l *Lexer) readQuoted(quote rune) string {
	var b strings.Builder
	for {
		l.readRune()
		switch l.ch {
		case 0:
			return b.String()
		case quote:
			if l.peekRune() != quote {
				l.readRune()
				return b.String()
			}
			b.WriteRune(quote)
			l.readRune()
		default:
			b.WriteRune(l.ch)
		}
	}
}
