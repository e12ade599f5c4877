package plan

import (
	"math"
	"strconv"
	"strings"
)

// Expr is an engine expression node. The set of implementations is closed:
// Column, Literal, Alias, BinaryOp, IsNull, IsNotNull, Wildcard and
// QualifiedWildcard.
type Expr interface {
	String() string
	planExpr()
}

// Column references a source column by name.
type Column struct {
	Name string
}

// Literal is a constant value.
type Literal struct {
	Value Value
}

// Alias renames the output of Expr.
type Alias struct {
	Expr Expr
	Name string
}

// BinaryOp applies Op to Left and Right.
type BinaryOp struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// IsNull holds when Expr evaluates to null.
type IsNull struct {
	Expr Expr
}

// IsNotNull holds when Expr evaluates to a non-null value.
type IsNotNull struct {
	Expr Expr
}

// Wildcard selects every source column. It only appears in a projection.
type Wildcard struct{}

// QualifiedWildcard selects every column of the relation named Qualifier.
// It only appears in a projection.
type QualifiedWildcard struct {
	Qualifier string
}

func (Column) planExpr()            {}
func (Literal) planExpr()           {}
func (Alias) planExpr()             {}
func (BinaryOp) planExpr()          {}
func (IsNull) planExpr()            {}
func (IsNotNull) planExpr()         {}
func (Wildcard) planExpr()          {}
func (QualifiedWildcard) planExpr() {}

func (c Column) String() string  { return c.Name }
func (l Literal) String() string { return l.Value.String() }
func (a Alias) String() string   { return a.Expr.String() + " AS " + a.Name }
func (b BinaryOp) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}
func (n IsNull) String() string            { return n.Expr.String() + " IS NULL" }
func (n IsNotNull) String() string         { return n.Expr.String() + " IS NOT NULL" }
func (Wildcard) String() string            { return "*" }
func (q QualifiedWildcard) String() string { return q.Qualifier + ".*" }

// OutputName returns the column name a projection item produces.
func OutputName(e Expr) string {
	switch v := e.(type) {
	case Alias:
		return v.Name
	case Column:
		return v.Name
	default:
		return e.String()
	}
}

// Kind enumerates literal value kinds.
type Kind int

const (
	KindNull Kind = iota
	KindFloat64
	KindBoolean
)

// Value is a literal value: a 64-bit float, a boolean or null.
type Value struct {
	Kind  Kind
	Float float64
	Bool  bool
}

// Float64 returns a Float64 value.
func Float64(f float64) Value { return Value{Kind: KindFloat64, Float: f} }

// Boolean returns a Boolean value.
func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Null returns the null value.
func Null() Value { return Value{} }

// Any returns the Go representation of v: float64, bool or nil.
func (v Value) Any() any {
	switch v.Kind {
	case KindFloat64:
		return v.Float
	case KindBoolean:
		return v.Bool
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindFloat64:
		return formatFloat(v.Float)
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return "NULL"
	}
}

// formatFloat always keeps a fractional part so 5 prints as 5.0.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Operator enumerates binary operators.
type Operator int

const (
	Plus Operator = iota
	Minus
	Multiply
	Divide
	Modulus
	Gt
	Lt
	GtEq
	LtEq
	Eq
	NotEq
	And
	Or
)

var operatorSymbols = [...]string{
	Plus:     "+",
	Minus:    "-",
	Multiply: "*",
	Divide:   "/",
	Modulus:  "%",
	Gt:       ">",
	Lt:       "<",
	GtEq:     ">=",
	LtEq:     "<=",
	Eq:       "=",
	NotEq:    "!=",
	And:      "AND",
	Or:       "OR",
}

var operatorNames = [...]string{
	Plus:     "Plus",
	Minus:    "Minus",
	Multiply: "Multiply",
	Divide:   "Divide",
	Modulus:  "Modulus",
	Gt:       "Gt",
	Lt:       "Lt",
	GtEq:     "GtEq",
	LtEq:     "LtEq",
	Eq:       "Eq",
	NotEq:    "NotEq",
	And:      "And",
	Or:       "Or",
}

// Operators lists every operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, len(operatorSymbols))
	for i := range ops {
		ops[i] = Operator(i)
	}
	return ops
}

// String returns the SQL symbol of the operator.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorSymbols) {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
	return operatorSymbols[o]
}

// Name returns the operator's identifier, e.g. GtEq.
func (o Operator) Name() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return o.String()
	}
	return operatorNames[o]
}
