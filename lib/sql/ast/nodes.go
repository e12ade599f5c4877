package ast

// Node represents any AST element that can accept a Visitor.
type Node interface {
	Accept(Visitor)
}

// Statement is the root type for SQL statements.
type Statement interface {
	Node
	statementNode()
}

// Expr models SQL expressions.
type Expr interface {
	Node
	exprNode()
}

// TableExpr represents selectable table expressions.
type TableExpr interface {
	Node
	tableNode()
}

// SelectItem describes an item in the SELECT list.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderItem represents ORDER BY terms. Direction is empty when the query
// leaves it unspecified.
type OrderItem struct {
	Expr      Expr
	Direction OrderDirection
}

// OrderDirection enumerates ORDER BY directions.
type OrderDirection string

const (
	Ascending  OrderDirection = "ASC"
	Descending OrderDirection = "DESC"
)

// LimitClause captures LIMIT/OFFSET values.
type LimitClause struct {
	Count  Expr // nil for OFFSET only
	Offset Expr
}

// SelectStatement captures a SELECT query. From holds the comma separated
// FROM items in source order.
type SelectStatement struct {
	With     *WithClause
	Distinct bool
	Columns  []SelectItem
	From     []TableExpr
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderItem
	Limit    *LimitClause
	SetOps   []SetOperation
}

func (*SelectStatement) statementNode() {}

// WithClause stores common table expressions.
type WithClause struct {
	Recursive bool
	CTEs      []CommonTableExpression
}

// CommonTableExpression represents a single named subquery.
type CommonTableExpression struct {
	Name    *Identifier
	Columns []*Identifier
	Select  *SelectStatement
}

// RawStatement stands for any statement whose body the parser does not model
// (INSERT, CREATE, DROP, ...). Verb is the upper-cased leading word.
type RawStatement struct {
	Verb string
}

func (*RawStatement) statementNode() {}

// Identifier models possibly qualified identifiers.
type Identifier struct {
	Parts []string
}

func (Identifier) exprNode()  {}
func (Identifier) tableNode() {}

// TableName represents a table reference with optional alias.
type TableName struct {
	Name  *Identifier
	Alias string
}

func (*TableName) tableNode() {}

// TableFunction is a function call used as a FROM item, e.g. read_csv('x').
type TableFunction struct {
	Call  *FuncCall
	Alias string
}

func (*TableFunction) tableNode() {}

// SubqueryTable wraps a subquery used as table expression.
type SubqueryTable struct {
	Select *SelectStatement
	Alias  string
}

func (*SubqueryTable) tableNode() {}

// JoinType enumerates supported ANSI join types.
type JoinType string

const (
	JoinInner JoinType = "INNER"
	JoinLeft  JoinType = "LEFT"
	JoinRight JoinType = "RIGHT"
	JoinFull  JoinType = "FULL"
	JoinCross JoinType = "CROSS"
)

// JoinExpr represents a JOIN expression.
type JoinExpr struct {
	Left      TableExpr
	Right     TableExpr
	Type      JoinType
	Condition JoinCondition
}

func (*JoinExpr) tableNode() {}

// JoinCondition captures ON clauses.
type JoinCondition struct {
	On Expr
}

// SetOperator describes set combination types.
type SetOperator string

const (
	SetOpUnion     SetOperator = "UNION"
	SetOpIntersect SetOperator = "INTERSECT"
	SetOpExcept    SetOperator = "EXCEPT"
)

// SetOperation joins the current SELECT with another via UNION/INTERSECT/EXCEPT.
type SetOperation struct {
	Operator SetOperator
	All      bool
	Select   *SelectStatement
}

// StarExpr denotes the wildcard selector.
type StarExpr struct {
	Table *Identifier
}

func (*StarExpr) exprNode() {}

// Literal kinds.
type (
	NumericLiteral struct{ Value string }
	StringLiteral  struct{ Value string }
	BooleanLiteral struct{ Value bool }
	NullLiteral    struct{}
	Placeholder    struct{ Symbol string }
)

func (*NumericLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*BooleanLiteral) exprNode() {}
func (*NullLiteral) exprNode()    {}
func (*Placeholder) exprNode()    {}

// TypedLiteral is a string literal prefixed by a type name, e.g. DATE '2024-01-01'.
type TypedLiteral struct {
	Type  string
	Value string
}

func (*TypedLiteral) exprNode() {}

// BinaryExpr models binary operations like a+b or a AND b.
type BinaryExpr struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr models prefix operators.
type UnaryExpr struct {
	Operator string
	Expr     Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall models function invocations.
type FuncCall struct {
	Name     Identifier
	Distinct bool
	Args     []Expr
	Over     *WindowSpecification
}

func (*FuncCall) exprNode() {}

// WindowSpecification describes OVER(...) clauses on function calls.
type WindowSpecification struct {
	PartitionBy []Expr
	OrderBy     []OrderItem
}

// CaseExpr represents simple and searched CASE constructs.
type CaseExpr struct {
	Operand Expr
	When    []WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// WhenClause holds CASE branches.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CastExpr models CAST(expr AS type).
type CastExpr struct {
	Expr Expr
	Type string
}

func (*CastExpr) exprNode() {}

// BetweenExpr models BETWEEN operations.
type BetweenExpr struct {
	Expr  Expr
	Lower Expr
	Upper Expr
	Not   bool
}

func (*BetweenExpr) exprNode() {}

// InExpr models IN and NOT IN.
type InExpr struct {
	Expr     Expr
	Not      bool
	Subquery *SelectStatement
	List     []Expr
}

func (*InExpr) exprNode() {}

// LikeExpr models LIKE expressions.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	Pattern Expr
}

func (*LikeExpr) exprNode() {}

// IsNullExpr models IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

func (*IsNullExpr) exprNode() {}

// ExistsExpr models EXISTS (subquery).
type ExistsExpr struct {
	Not      bool
	Subquery *SelectStatement
}

func (*ExistsExpr) exprNode() {}

// SubqueryExpr allows scalar subqueries.
type SubqueryExpr struct {
	Select *SelectStatement
}

func (*SubqueryExpr) exprNode() {}
