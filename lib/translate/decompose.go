package translate

import (
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
)

// Facets are the parts of a plain SELECT that a plan is built from. Slices
// keep the order of the query text.
type Facets struct {
	Selection []ast.SelectItem
	Condition ast.Expr
	Source    []ast.TableExpr
	OrderBy   []ast.OrderItem
	Offset    ast.Expr
	Limit     ast.Expr
}

// SingleStatement returns the only statement of stmts.
func SingleStatement(stmts []ast.Statement) (ast.Statement, error) {
	if len(stmts) != 1 {
		return nil, newError(ErrMultipleStatements, "expected exactly one statement, got %d", len(stmts))
	}
	return stmts[0], nil
}

// Decompose splits a plain SELECT into its facets. Compound queries and
// anything other than SELECT are rejected with ErrUnsupportedStatement.
func Decompose(stmt ast.Statement) (*Facets, error) {
	switch s := stmt.(type) {
	case *ast.SelectStatement:
		if s == nil {
			break
		}
		if err := checkPlainSelect(s); err != nil {
			return nil, err
		}
		f := &Facets{
			Selection: s.Columns,
			Condition: s.Where,
			Source:    s.From,
			OrderBy:   s.OrderBy,
		}
		if s.Limit != nil {
			f.Offset = s.Limit.Offset
			f.Limit = s.Limit.Count
		}
		return f, nil
	case *ast.RawStatement:
		return nil, newError(ErrUnsupportedStatement, "%s", s.Verb)
	}
	return nil, newError(ErrUnsupportedStatement, "%T", stmt)
}

func checkPlainSelect(s *ast.SelectStatement) error {
	switch {
	case len(s.SetOps) > 0:
		op := string(s.SetOps[0].Operator)
		if s.SetOps[0].All {
			op += " ALL"
		}
		return newError(ErrUnsupportedStatement, "%s", op)
	case s.With != nil:
		return newError(ErrUnsupportedStatement, "WITH clause")
	case s.Distinct:
		return newError(ErrUnsupportedStatement, "SELECT DISTINCT")
	case len(s.GroupBy) > 0:
		return newError(ErrUnsupportedStatement, "GROUP BY")
	case s.Having != nil:
		return newError(ErrUnsupportedStatement, "HAVING")
	}
	return nil
}
