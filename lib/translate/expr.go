package translate

import (
	"strconv"
	"strings"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
)

var binaryOperators = map[string]plan.Operator{
	"+":   plan.Plus,
	"-":   plan.Minus,
	"*":   plan.Multiply,
	"/":   plan.Divide,
	"%":   plan.Modulus,
	">":   plan.Gt,
	"<":   plan.Lt,
	">=":  plan.GtEq,
	"<=":  plan.LtEq,
	"=":   plan.Eq,
	"!=":  plan.NotEq,
	"<>":  plan.NotEq,
	"AND": plan.And,
	"OR":  plan.Or,
}

// Expr converts a scalar SQL expression into an engine expression. The first
// unsupported node aborts the conversion.
func Expr(expr ast.Expr) (plan.Expr, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		col, err := column(e, ErrUnsupportedExpression)
		if err != nil {
			return nil, err
		}
		return col, nil
	case *ast.NumericLiteral, *ast.BooleanLiteral, *ast.NullLiteral,
		*ast.StringLiteral, *ast.TypedLiteral, *ast.Placeholder:
		v, err := literal(e)
		if err != nil {
			return nil, err
		}
		return plan.Literal{Value: v}, nil
	case *ast.BinaryExpr:
		op, ok := binaryOperators[strings.ToUpper(e.Operator)]
		if !ok {
			return nil, newError(ErrUnsupportedOperator, "%s", e.Operator)
		}
		left, err := Expr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := Expr(e.Right)
		if err != nil {
			return nil, err
		}
		return plan.BinaryOp{Left: left, Op: op, Right: right}, nil
	case *ast.IsNullExpr:
		inner, err := Expr(e.Expr)
		if err != nil {
			return nil, err
		}
		if e.Not {
			return plan.IsNotNull{Expr: inner}, nil
		}
		return plan.IsNull{Expr: inner}, nil
	case nil:
		return nil, newError(ErrUnsupportedExpression, "missing expression")
	default:
		return nil, newError(ErrUnsupportedExpression, "%s", describe(expr))
	}
}

// literal coerces a literal token. Every number becomes a Float64, so 5 and
// 5.0 are the same value.
func literal(expr ast.Expr) (plan.Value, error) {
	switch e := expr.(type) {
	case *ast.NumericLiteral:
		f, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return plan.Value{}, newError(ErrUnsupportedLiteral, "%s", e.Value)
		}
		return plan.Float64(f), nil
	case *ast.BooleanLiteral:
		return plan.Boolean(e.Value), nil
	case *ast.NullLiteral:
		return plan.Null(), nil
	default:
		return plan.Value{}, newError(ErrUnsupportedLiteral, "%s", describe(expr))
	}
}

func column(ident *ast.Identifier, kind error) (plan.Column, error) {
	if len(ident.Parts) != 1 {
		return plan.Column{}, newError(kind, "compound identifier %s", strings.Join(ident.Parts, "."))
	}
	return plan.Column{Name: ident.Parts[0]}, nil
}

// Projection converts one SELECT list item. Only bare or aliased column
// names and wildcards are accepted.
func Projection(item ast.SelectItem) (plan.Expr, error) {
	switch e := item.Expr.(type) {
	case *ast.Identifier:
		col, err := column(e, ErrUnsupportedProjection)
		if err != nil {
			return nil, err
		}
		if item.Alias != "" {
			return plan.Alias{Expr: col, Name: item.Alias}, nil
		}
		return col, nil
	case *ast.StarExpr:
		if item.Alias != "" {
			return nil, newError(ErrUnsupportedProjection, "aliased wildcard %s AS %s", describe(e), item.Alias)
		}
		if e.Table == nil {
			return plan.Wildcard{}, nil
		}
		return plan.QualifiedWildcard{Qualifier: strings.Join(e.Table.Parts, ".")}, nil
	case nil:
		return nil, newError(ErrUnsupportedProjection, "missing expression")
	default:
		return nil, newError(ErrUnsupportedProjection, "%s", describe(e))
	}
}

// OrderKey converts an ORDER BY item. The item must name a column; the key is
// ascending unless DESC is given.
func OrderKey(item ast.OrderItem) (plan.OrderKey, error) {
	ident, ok := item.Expr.(*ast.Identifier)
	if !ok {
		return plan.OrderKey{}, newError(ErrUnsupportedOrderBy, "%s", describe(item.Expr))
	}
	col, err := column(ident, ErrUnsupportedOrderBy)
	if err != nil {
		return plan.OrderKey{}, err
	}
	return plan.OrderKey{Column: col.Name, Descending: item.Direction == ast.Descending}, nil
}

// Offset returns the row offset given by an integer literal. ok is false when
// expr is absent or not an integer literal and the default 0 applies.
func Offset(expr ast.Expr) (offset int64, ok bool) {
	lit, isLit := expr.(*ast.NumericLiteral)
	if !isLit {
		return 0, false
	}
	n, err := strconv.ParseInt(lit.Value, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Limit returns the row count given by an integer literal. ok is false when
// expr is absent or not an integer literal and plan.Unbounded applies.
func Limit(expr ast.Expr) (limit uint64, ok bool) {
	lit, isLit := expr.(*ast.NumericLiteral)
	if !isLit {
		return plan.Unbounded, false
	}
	n, err := strconv.ParseUint(lit.Value, 10, 64)
	if err != nil {
		return plan.Unbounded, false
	}
	return n, true
}
