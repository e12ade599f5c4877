package parser

import (
	"fmt"
	"strings"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/lexer"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/token"
)

const (
	// MaxParserDepth limits recursion depth to prevent stack overflow
	MaxParserDepth = 100
	// MaxExpressionCount limits number of expressions in lists
	MaxExpressionCount = 1000
)

// Parser consumes SQL tokens and produces AST nodes for a core ANSI subset.
type Parser struct {
	l      *lexer.Lexer
	errors []error

	curToken  token.Token
	peekToken token.Token

	depth int
}

// New returns a parser over the provided lexer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: make([]error, 0)}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors exposes parsing errors encountered so far.
func (p *Parser) Errors() []error {
	return p.errors
}

func (p *Parser) addError(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, &SyntaxError{Pos: pos, Msg: msg})
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.peekToken.Pos, "expected %s, got %s", t, p.peekToken.Type)
	return false
}

// ParseStatements parses every semicolon separated statement in the input.
// Parsing stops at the first syntax error; the statements parsed so far are
// returned and the error is available through Errors.
func (p *Parser) ParseStatements() []ast.Statement {
	stmts := make([]ast.Statement, 0, 1)
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return stmts
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.EOF) {
			p.addError(p.peekToken.Pos, "unexpected token %s after statement", p.peekToken.Type)
			return stmts
		}
		p.nextToken()
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.WITH:
		with := p.parseWithClause()
		if !p.curTokenIs(token.SELECT) {
			return nil
		}
		stmt := p.parseSelectStatement()
		if stmt == nil {
			return nil
		}
		stmt.With = with
		return stmt
	case token.SELECT:
		if stmt := p.parseSelectStatement(); stmt != nil {
			return stmt
		}
		return nil
	}

	if !isWord(p.curToken) {
		p.addError(p.curToken.Pos, "unexpected token %s at start of statement", p.curToken.Type)
		return nil
	}
	stmt := &ast.RawStatement{Verb: strings.ToUpper(p.curToken.Literal)}
	for !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
	}
	return stmt
}

// isWord reports whether tok is an identifier or a keyword.
func isWord(tok token.Token) bool {
	if tok.Type == token.IDENT {
		return true
	}
	return tok.Literal != "" && token.Lookup(tok.Literal) == tok.Type
}

func (p *Parser) parseWithClause() *ast.WithClause {
	clause := &ast.WithClause{}
	if p.peekTokenIs(token.RECURSIVE) {
		p.nextToken()
		clause.Recursive = true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return clause
		}
		cte := ast.CommonTableExpression{Name: p.parseIdentifier()}

		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if p.expectPeek(token.IDENT) {
				cte.Columns = append(cte.Columns, p.parseIdentifier())
				for p.peekTokenIs(token.COMMA) {
					p.nextToken()
					if !p.expectPeek(token.IDENT) {
						return clause
					}
					cte.Columns = append(cte.Columns, p.parseIdentifier())
				}
			}
			if !p.expectPeek(token.RPAREN) {
				return clause
			}
		}

		if !p.expectPeek(token.AS) || !p.expectPeek(token.LPAREN) || !p.expectPeek(token.SELECT) {
			return clause
		}
		cte.Select = p.parseSelectStatement()
		if !p.expectPeek(token.RPAREN) {
			return clause
		}
		clause.CTEs = append(clause.CTEs, cte)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	p.expectPeek(token.SELECT)
	return clause
}

func (p *Parser) parseSelectStatement() *ast.SelectStatement {
	p.depth++
	if p.depth > MaxParserDepth {
		p.addError(p.curToken.Pos, "maximum nesting depth exceeded")
		p.depth--
		return nil
	}
	defer func() { p.depth-- }()

	stmt := p.parseSelectCore()
	if stmt == nil {
		return nil
	}
	return p.parseSetOperations(stmt)
}

func (p *Parser) parseSelectCore() *ast.SelectStatement {
	stmt := &ast.SelectStatement{}

	if p.peekTokenIs(token.DISTINCT) {
		p.nextToken()
		stmt.Distinct = true
	}

	p.nextToken()
	stmt.Columns = p.parseSelectList()

	if p.peekTokenIs(token.FROM) {
		p.nextToken()
		p.nextToken()
		stmt.From = p.parseFromList()
	}

	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		p.nextToken()
		stmt.Where = p.parseExpression(lowest)
	}

	if p.peekTokenIs(token.GROUP) {
		p.nextToken()
		if p.expectPeek(token.BY) {
			p.nextToken()
			stmt.GroupBy = p.parseExpressionList()
		}
	}

	if p.peekTokenIs(token.HAVING) {
		p.nextToken()
		p.nextToken()
		stmt.Having = p.parseExpression(lowest)
	}

	if p.peekTokenIs(token.ORDER) {
		p.nextToken()
		if p.expectPeek(token.BY) {
			p.nextToken()
			stmt.OrderBy = p.parseOrderList()
		}
	}

	p.parseLimitOffset(stmt)
	return stmt
}

// parseLimitOffset accepts LIMIT and OFFSET in either order.
func (p *Parser) parseLimitOffset(stmt *ast.SelectStatement) {
	for p.peekTokenIs(token.LIMIT) || p.peekTokenIs(token.OFFSET) {
		if stmt.Limit == nil {
			stmt.Limit = &ast.LimitClause{}
		}
		p.nextToken()
		kind := p.curToken
		p.nextToken()
		expr := p.parseExpression(lowest)
		if kind.Type == token.LIMIT {
			if stmt.Limit.Count != nil {
				p.addError(kind.Pos, "duplicate LIMIT clause")
				return
			}
			stmt.Limit.Count = expr
			continue
		}
		if stmt.Limit.Offset != nil {
			p.addError(kind.Pos, "duplicate OFFSET clause")
			return
		}
		stmt.Limit.Offset = expr
	}
}

func (p *Parser) parseSetOperations(stmt *ast.SelectStatement) *ast.SelectStatement {
	for {
		op, ok := p.peekSetOperator()
		if !ok {
			return stmt
		}

		p.nextToken()
		all := false
		if p.peekTokenIs(token.ALL) {
			p.nextToken()
			all = true
		}

		var right *ast.SelectStatement
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			if !p.expectPeek(token.SELECT) {
				return stmt
			}
			right = p.parseSelectStatement()
			if !p.expectPeek(token.RPAREN) {
				return stmt
			}
		} else {
			if !p.expectPeek(token.SELECT) {
				return stmt
			}
			right = p.parseSelectStatement()
		}

		stmt.SetOps = append(stmt.SetOps, ast.SetOperation{Operator: op, All: all, Select: right})
	}
}

func (p *Parser) peekSetOperator() (ast.SetOperator, bool) {
	switch p.peekToken.Type {
	case token.UNION:
		return ast.SetOpUnion, true
	case token.INTERSECT:
		return ast.SetOpIntersect, true
	case token.EXCEPT:
		return ast.SetOpExcept, true
	default:
		return "", false
	}
}

func (p *Parser) parseSelectList() []ast.SelectItem {
	items := make([]ast.SelectItem, 0)

	for {
		var expr ast.Expr
		if p.curTokenIs(token.STAR) {
			expr = &ast.StarExpr{}
		} else {
			expr = p.parseExpression(lowest)
		}

		alias := p.parseAliasIfPresent()
		items = append(items, ast.SelectItem{Expr: expr, Alias: alias})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		if len(items) >= MaxExpressionCount {
			p.addError(p.peekToken.Pos, "maximum expression count exceeded")
			break
		}
		p.nextToken()
		p.nextToken()
	}

	return items
}

func (p *Parser) parseOrderList() []ast.OrderItem {
	items := make([]ast.OrderItem, 0)

	for {
		item := ast.OrderItem{Expr: p.parseExpression(lowest)}
		switch {
		case p.peekTokenIs(token.ASC):
			p.nextToken()
			item.Direction = ast.Ascending
		case p.peekTokenIs(token.DESC):
			p.nextToken()
			item.Direction = ast.Descending
		}
		items = append(items, item)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}

	return items
}

func (p *Parser) parseExpressionList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpression(lowest)}
	for p.peekTokenIs(token.COMMA) {
		if len(exprs) >= MaxExpressionCount {
			p.addError(p.peekToken.Pos, "maximum expression count exceeded")
			break
		}
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseExpression(lowest))
	}
	return exprs
}

func (p *Parser) parseWindowSpecification() *ast.WindowSpecification {
	spec := &ast.WindowSpecification{}
	if !p.expectPeek(token.LPAREN) {
		return spec
	}
	for !p.peekTokenIs(token.RPAREN) {
		switch {
		case p.peekTokenIs(token.PARTITION) && spec.PartitionBy == nil:
			p.nextToken()
			if !p.expectPeek(token.BY) {
				return spec
			}
			p.nextToken()
			spec.PartitionBy = p.parseExpressionList()
		case p.peekTokenIs(token.ORDER) && spec.OrderBy == nil:
			p.nextToken()
			if !p.expectPeek(token.BY) {
				return spec
			}
			p.nextToken()
			spec.OrderBy = p.parseOrderList()
		default:
			p.addError(p.peekToken.Pos, "unexpected token %s in window specification", p.peekToken.Type)
			return spec
		}
	}
	p.nextToken()
	return spec
}

func (p *Parser) parseAliasIfPresent() string {
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return ""
		}
		return p.curToken.Literal
	}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		return p.curToken.Literal
	}
	return ""
}

func (p *Parser) parseFromList() []ast.TableExpr {
	items := []ast.TableExpr{p.parseTableExpression()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		items = append(items, p.parseTableExpression())
	}
	return items
}

func (p *Parser) parseTableExpression() ast.TableExpr {
	left := p.parseTableFactor()

	for {
		joinType, ok := p.peekJoinType()
		if !ok {
			return left
		}

		p.nextToken()
		if !p.curTokenIs(token.JOIN) {
			if p.peekTokenIs(token.OUTER) {
				p.nextToken()
			}
			if !p.expectPeek(token.JOIN) {
				return left
			}
		}

		p.nextToken()
		right := p.parseTableFactor()
		join := &ast.JoinExpr{Left: left, Right: right, Type: joinType}
		if p.peekTokenIs(token.ON) {
			p.nextToken()
			p.nextToken()
			join.Condition.On = p.parseExpression(lowest)
		}
		left = join
	}
}

func (p *Parser) peekJoinType() (ast.JoinType, bool) {
	switch p.peekToken.Type {
	case token.JOIN, token.INNER:
		return ast.JoinInner, true
	case token.LEFT:
		return ast.JoinLeft, true
	case token.RIGHT:
		return ast.JoinRight, true
	case token.FULL:
		return ast.JoinFull, true
	case token.CROSS:
		return ast.JoinCross, true
	default:
		return "", false
	}
}

func (p *Parser) parseTableFactor() ast.TableExpr {
	switch p.curToken.Type {
	case token.IDENT:
		ident := p.parseQualifiedName()
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			call := p.parseCall(*ident)
			return &ast.TableFunction{Call: call, Alias: p.parseAliasIfPresent()}
		}
		return &ast.TableName{Name: ident, Alias: p.parseAliasIfPresent()}
	case token.LPAREN:
		p.nextToken()
		if p.curTokenIs(token.SELECT) {
			sub := p.parseSelectStatement()
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			return &ast.SubqueryTable{Select: sub, Alias: p.parseAliasIfPresent()}
		}
		nested := p.parseTableExpression()
		p.expectPeek(token.RPAREN)
		return nested
	default:
		if isWord(p.curToken) {
			name := &ast.Identifier{Parts: []string{p.curToken.Raw}}
			return &ast.TableName{Name: name, Alias: p.parseAliasIfPresent()}
		}
		p.addError(p.curToken.Pos, "unexpected token %s in FROM clause", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseIdentifier() *ast.Identifier {
	return &ast.Identifier{Parts: []string{p.curToken.Literal}}
}

func (p *Parser) parseQualifiedName() *ast.Identifier {
	parts := []string{p.curToken.Literal}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return &ast.Identifier{Parts: parts}
		}
		parts = append(parts, p.curToken.Literal)
	}
	return &ast.Identifier{Parts: parts}
}

// parseColumnRef parses a possibly qualified column name or a qualified
// wildcard such as t.*.
func (p *Parser) parseColumnRef() ast.Expr {
	parts := []string{p.curToken.Literal}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if p.peekTokenIs(token.STAR) {
			p.nextToken()
			return &ast.StarExpr{Table: &ast.Identifier{Parts: parts}}
		}
		if !p.expectPeek(token.IDENT) {
			break
		}
		parts = append(parts, p.curToken.Literal)
	}
	return &ast.Identifier{Parts: parts}
}

const (
	_ int = iota
	lowest
	precedenceOr
	precedenceAnd
	precedenceComparison
	precedenceSum
	precedenceProduct
	precedencePrefix
	precedenceCall
)

var precedences = map[token.Type]int{
	token.OR:      precedenceOr,
	token.AND:     precedenceAnd,
	token.NOT:     precedenceComparison,
	token.EQ:      precedenceComparison,
	token.NEQ:     precedenceComparison,
	token.LT:      precedenceComparison,
	token.LTE:     precedenceComparison,
	token.GT:      precedenceComparison,
	token.GTE:     precedenceComparison,
	token.IN:      precedenceComparison,
	token.BETWEEN: precedenceComparison,
	token.LIKE:    precedenceComparison,
	token.IS:      precedenceComparison,
	token.PLUS:    precedenceSum,
	token.MINUS:   precedenceSum,
	token.CONCAT:  precedenceSum,
	token.STAR:    precedenceProduct,
	token.SLASH:   precedenceProduct,
	token.PERCENT: precedenceProduct,
	token.CARET:   precedenceProduct,
	token.LPAREN:  precedenceCall,
	token.OVER:    precedenceCall,
}

// typedLiteralPrefixes are the type names that turn a following string into a typed literal.
var typedLiteralPrefixes = map[string]struct{}{
	"DATE":      {},
	"TIME":      {},
	"TIMESTAMP": {},
	"INTERVAL":  {},
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowest
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	p.depth++
	if p.depth > MaxParserDepth {
		p.addError(p.curToken.Pos, "expression nesting too deep")
		p.depth--
		return nil
	}
	defer func() { p.depth-- }()

	var left ast.Expr

	switch p.curToken.Type {
	case token.IDENT:
		if _, ok := typedLiteralPrefixes[strings.ToUpper(p.curToken.Literal)]; ok && p.peekTokenIs(token.STRING) {
			typ := strings.ToUpper(p.curToken.Literal)
			p.nextToken()
			left = &ast.TypedLiteral{Type: typ, Value: p.curToken.Literal}
		} else {
			left = p.parseColumnRef()
		}
	case token.NUMBER:
		left = &ast.NumericLiteral{Value: p.curToken.Literal}
	case token.STRING:
		left = &ast.StringLiteral{Value: p.curToken.Literal}
	case token.TRUE:
		left = &ast.BooleanLiteral{Value: true}
	case token.FALSE:
		left = &ast.BooleanLiteral{Value: false}
	case token.NULL:
		left = &ast.NullLiteral{}
	case token.PLACEHOLDER:
		left = &ast.Placeholder{Symbol: p.curToken.Literal}
	case token.STAR:
		left = &ast.StarExpr{}
	case token.MINUS, token.PLUS:
		operator := p.curToken.Literal
		p.nextToken()
		left = &ast.UnaryExpr{Operator: operator, Expr: p.parseExpression(precedencePrefix)}
	case token.NOT:
		p.nextToken()
		left = &ast.UnaryExpr{Operator: "NOT", Expr: p.parseExpression(precedencePrefix)}
	case token.LPAREN:
		p.nextToken()
		if p.curTokenIs(token.SELECT) {
			left = &ast.SubqueryExpr{Select: p.parseSelectStatement()}
		} else {
			left = p.parseExpression(lowest)
		}
		if !p.expectPeek(token.RPAREN) {
			return left
		}
	case token.EXISTS:
		left = p.parseExistsExpression(false)
	case token.CASE:
		left = p.parseCaseExpression()
	case token.CAST:
		left = p.parseCastExpression()
	default:
		p.addError(p.curToken.Pos, "unexpected token %s", p.curToken.Type)
		return nil
	}

	for !terminatesExpression(p.peekToken.Type) {
		prec := p.peekPrecedence()
		if precedence >= prec {
			break
		}

		p.nextToken()
		left = p.parseInfixExpression(left)
	}

	return left
}

func terminatesExpression(t token.Type) bool {
	switch t {
	case token.SEMICOLON, token.COMMA, token.RPAREN, token.GROUP, token.ORDER, token.LIMIT, token.OFFSET,
		token.HAVING, token.UNION, token.INTERSECT, token.EXCEPT, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExistsExpression(negate bool) ast.Expr {
	if !p.expectPeek(token.LPAREN) || !p.expectPeek(token.SELECT) {
		return nil
	}
	sub := p.parseSelectStatement()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.ExistsExpr{Not: negate, Subquery: sub}
}

func (p *Parser) parseCaseExpression() ast.Expr {
	expr := &ast.CaseExpr{}
	if !p.peekTokenIs(token.WHEN) {
		p.nextToken()
		expr.Operand = p.parseExpression(lowest)
	}
	for p.peekTokenIs(token.WHEN) {
		p.nextToken()
		p.nextToken()
		cond := p.parseExpression(lowest)
		if !p.expectPeek(token.THEN) {
			return expr
		}
		p.nextToken()
		expr.When = append(expr.When, ast.WhenClause{Condition: cond, Result: p.parseExpression(lowest)})
	}
	if len(expr.When) == 0 {
		p.addError(p.peekToken.Pos, "CASE requires at least one WHEN branch")
		return expr
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		expr.Else = p.parseExpression(lowest)
	}
	p.expectPeek(token.END)
	return expr
}

func (p *Parser) parseCastExpression() ast.Expr {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	inner := p.parseExpression(lowest)
	if !p.expectPeek(token.AS) || !p.expectPeek(token.IDENT) {
		return nil
	}
	cast := &ast.CastExpr{Expr: inner, Type: strings.ToUpper(p.curToken.Literal)}
	if p.peekTokenIs(token.LPAREN) {
		// type modifiers such as DECIMAL(10, 2) are not kept
		for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
			p.nextToken()
		}
	}
	p.expectPeek(token.RPAREN)
	return cast
}

func (p *Parser) parseInfixExpression(left ast.Expr) ast.Expr {
	switch p.curToken.Type {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.CARET, token.CONCAT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.AND, token.OR:
		operator := strings.ToUpper(p.curToken.Literal)
		precedence := p.curPrecedence()
		p.nextToken()
		right := p.parseExpression(precedence)
		return &ast.BinaryExpr{Left: left, Operator: operator, Right: right}
	case token.IN:
		return p.parseInExpression(left, false)
	case token.LIKE:
		return p.parseLikeExpression(left, false)
	case token.BETWEEN:
		return p.parseBetweenExpression(left, false)
	case token.IS:
		return p.parseIsNullExpression(left)
	case token.NOT:
		switch {
		case p.peekTokenIs(token.IN):
			p.nextToken()
			return p.parseInExpression(left, true)
		case p.peekTokenIs(token.LIKE):
			p.nextToken()
			return p.parseLikeExpression(left, true)
		case p.peekTokenIs(token.BETWEEN):
			p.nextToken()
			return p.parseBetweenExpression(left, true)
		default:
			p.addError(p.curToken.Pos, "unexpected NOT after expression")
			return left
		}
	case token.LPAREN:
		ident, ok := left.(*ast.Identifier)
		if !ok {
			p.addError(p.curToken.Pos, "unexpected '(' after expression")
			return left
		}
		return p.parseCall(*ident)
	case token.OVER:
		call, ok := left.(*ast.FuncCall)
		if !ok {
			p.addError(p.curToken.Pos, "OVER requires preceding function call")
			return left
		}
		call.Over = p.parseWindowSpecification()
		return call
	default:
		return left
	}
}

// parseCall parses the argument list of a call; the current token is '('.
func (p *Parser) parseCall(name ast.Identifier) *ast.FuncCall {
	call := &ast.FuncCall{Name: name}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	if p.curTokenIs(token.DISTINCT) {
		call.Distinct = true
		p.nextToken()
	}
	call.Args = p.parseExpressionList()
	p.expectPeek(token.RPAREN)
	return call
}

func (p *Parser) parseInExpression(left ast.Expr, not bool) ast.Expr {
	expr := &ast.InExpr{Expr: left, Not: not}
	if !p.expectPeek(token.LPAREN) {
		return expr
	}
	p.nextToken()
	if p.curTokenIs(token.SELECT) {
		expr.Subquery = p.parseSelectStatement()
	} else {
		expr.List = p.parseExpressionList()
	}
	p.expectPeek(token.RPAREN)
	return expr
}

func (p *Parser) parseLikeExpression(left ast.Expr, not bool) ast.Expr {
	p.nextToken()
	pattern := p.parseExpression(precedenceComparison)
	return &ast.LikeExpr{Expr: left, Not: not, Pattern: pattern}
}

func (p *Parser) parseBetweenExpression(left ast.Expr, not bool) ast.Expr {
	between := &ast.BetweenExpr{Expr: left, Not: not}
	p.nextToken()
	between.Lower = p.parseExpression(precedenceComparison)
	if !p.expectPeek(token.AND) {
		return between
	}
	p.nextToken()
	between.Upper = p.parseExpression(precedenceComparison)
	return between
}

func (p *Parser) parseIsNullExpression(left ast.Expr) ast.Expr {
	not := false
	if p.peekTokenIs(token.NOT) {
		p.nextToken()
		not = true
	}
	if !p.expectPeek(token.NULL) {
		return left
	}
	return &ast.IsNullExpr{Expr: left, Not: not}
}
