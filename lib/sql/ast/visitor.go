package ast

// Visitor is implemented by algorithms that operate on AST nodes. Accept
// hands the node to the visitor; descending into children is up to it.
type Visitor interface {
	Visit(Node)
}

func (s *SelectStatement) Accept(v Visitor) { v.Visit(s) }
func (s *RawStatement) Accept(v Visitor)    { v.Visit(s) }
func (i *Identifier) Accept(v Visitor)      { v.Visit(i) }
func (t *TableName) Accept(v Visitor)       { v.Visit(t) }
func (t *TableFunction) Accept(v Visitor)   { v.Visit(t) }
func (t *SubqueryTable) Accept(v Visitor)   { v.Visit(t) }
func (j *JoinExpr) Accept(v Visitor)        { v.Visit(j) }
func (s *StarExpr) Accept(v Visitor)        { v.Visit(s) }
func (n *NumericLiteral) Accept(v Visitor)  { v.Visit(n) }
func (s *StringLiteral) Accept(v Visitor)   { v.Visit(s) }
func (b *BooleanLiteral) Accept(v Visitor)  { v.Visit(b) }
func (n *NullLiteral) Accept(v Visitor)     { v.Visit(n) }
func (p *Placeholder) Accept(v Visitor)     { v.Visit(p) }
func (t *TypedLiteral) Accept(v Visitor)    { v.Visit(t) }
func (b *BinaryExpr) Accept(v Visitor)      { v.Visit(b) }
func (u *UnaryExpr) Accept(v Visitor)       { v.Visit(u) }
func (f *FuncCall) Accept(v Visitor)        { v.Visit(f) }
func (c *CaseExpr) Accept(v Visitor)        { v.Visit(c) }
func (c *CastExpr) Accept(v Visitor)        { v.Visit(c) }
func (b *BetweenExpr) Accept(v Visitor)     { v.Visit(b) }
func (i *InExpr) Accept(v Visitor)          { v.Visit(i) }
func (l *LikeExpr) Accept(v Visitor)        { v.Visit(l) }
func (i *IsNullExpr) Accept(v Visitor)      { v.Visit(i) }
func (e *ExistsExpr) Accept(v Visitor)      { v.Visit(e) }
func (s *SubqueryExpr) Accept(v Visitor)    { v.Visit(s) }
