package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/dialect"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/token"
)

func collect(l *Lexer) []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF || len(out) > 1000 {
			return out
		}
	}
}

func TestNextTokenSelect(t *testing.T) {
	input := `SELECT a.id, name
FROM accounts AS a
WHERE amount >= 1000.50 AND status != 'it''s' -- trailing comment
ORDER BY updated_at DESC;`

	expected := []token.Token{
		{Type: token.SELECT, Literal: "SELECT"},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.DOT, Literal: "."},
		{Type: token.IDENT, Literal: "id"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "name"},
		{Type: token.FROM, Literal: "FROM"},
		{Type: token.IDENT, Literal: "accounts"},
		{Type: token.AS, Literal: "AS"},
		{Type: token.IDENT, Literal: "a"},
		{Type: token.WHERE, Literal: "WHERE"},
		{Type: token.IDENT, Literal: "amount"},
		{Type: token.GTE, Literal: ">="},
		{Type: token.NUMBER, Literal: "1000.50"},
		{Type: token.AND, Literal: "AND"},
		{Type: token.IDENT, Literal: "status"},
		{Type: token.NEQ, Literal: "!="},
		{Type: token.STRING, Literal: "it's"},
		{Type: token.ORDER, Literal: "ORDER"},
		{Type: token.BY, Literal: "BY"},
		{Type: token.IDENT, Literal: "updated_at"},
		{Type: token.DESC, Literal: "DESC"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.EOF, Literal: ""},
	}

	l := New(input)
	for i, exp := range expected {
		tok := l.NextToken()
		if tok.Type != exp.Type || tok.Literal != exp.Literal {
			t.Fatalf("token[%d] - expected %#v, got %#v", i, exp, tok)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `a <> b <= c || d ^ e % f /* block */ ? "Weird ""Name"""`

	expected := []token.Type{
		token.IDENT, token.NEQ, token.IDENT, token.LTE, token.IDENT, token.CONCAT,
		token.IDENT, token.CARET, token.IDENT, token.PERCENT, token.IDENT,
		token.PLACEHOLDER, token.IDENT, token.EOF,
	}

	toks := collect(New(input))
	require.Len(t, toks, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp, toks[i].Type, "token[%d]", i)
	}
	assert.Equal(t, `Weird "Name"`, toks[len(toks)-2].Literal)
}

func TestURLDialectReadsWholeURL(t *testing.T) {
	url := "https://raw.githubusercontent.com/owid/covid-19-data/master/public/data/latest/owid-covid-latest.csv"
	input := "SELECT location name FROM " + url + " WHERE new_deaths >= 500"

	toks := collect(NewWithDialect(input, dialect.URL{}))
	types := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.Type{
		token.SELECT, token.IDENT, token.IDENT, token.FROM, token.IDENT,
		token.WHERE, token.IDENT, token.GTE, token.NUMBER, token.EOF,
	}, types)
	assert.Equal(t, url, toks[4].Literal)
}

func TestURLDialectQueryString(t *testing.T) {
	src := "http://abc.xyz/abc?a=1&b=2"
	toks := collect(NewWithDialect("FROM "+src+" LIMIT 5", dialect.URL{}))
	require.Len(t, toks, 5)
	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, src, toks[1].Literal)
	assert.Equal(t, token.LIMIT, toks[2].Type)
	assert.Equal(t, "5", toks[3].Literal)
}

func TestURLDialectFilePath(t *testing.T) {
	toks := collect(NewWithDialect("file:///tmp/data-2024_v1.csv", dialect.URL{}))
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENT, toks[0].Type)
	assert.Equal(t, "file:///tmp/data-2024_v1.csv", toks[0].Literal)
}

func TestURLDialectAdjacentOperatorJoinsIdentifier(t *testing.T) {
	// '=' continues an identifier, so an unspaced comparison is one word.
	toks := collect(NewWithDialect("a=1", dialect.URL{}))
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENT, toks[0].Type)
	assert.Equal(t, "a=1", toks[0].Literal)

	toks = collect(NewWithDialect("a = 1", dialect.URL{}))
	require.Len(t, toks, 4)
	assert.Equal(t, token.EQ, toks[1].Type)
}

func TestURLDialectQualifiedWildcard(t *testing.T) {
	toks := collect(NewWithDialect("t.*, data.csv.*", dialect.URL{}))
	expected := []token.Token{
		{Type: token.IDENT, Literal: "t"},
		{Type: token.DOT, Literal: "."},
		{Type: token.STAR, Literal: "*"},
		{Type: token.COMMA, Literal: ","},
		{Type: token.IDENT, Literal: "data.csv"},
		{Type: token.DOT, Literal: "."},
		{Type: token.STAR, Literal: "*"},
		{Type: token.EOF, Literal: ""},
	}
	require.Len(t, toks, len(expected))
	for i, exp := range expected {
		assert.Equal(t, exp.Type, toks[i].Type, "token[%d]", i)
		assert.Equal(t, exp.Literal, toks[i].Literal, "token[%d]", i)
	}
}

func TestURLDialectNumbersStayNumbers(t *testing.T) {
	toks := collect(NewWithDialect("5 5.0 x5", dialect.URL{}))
	require.Len(t, toks, 4)
	assert.Equal(t, token.NUMBER, toks[0].Type)
	assert.Equal(t, token.NUMBER, toks[1].Type)
	assert.Equal(t, "5.0", toks[1].Literal)
	assert.Equal(t, token.IDENT, toks[2].Type)
}

func TestPositions(t *testing.T) {
	toks := collect(New("SELECT\n  a"))
	require.Len(t, toks, 3)
	assert.Equal(t, token.Position{Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3}, toks[1].Pos)
}
