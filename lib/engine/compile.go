package engine

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
)

// rowColumn keeps the load order of rows; it breaks ties between equal sort
// keys so ordering is stable.
const rowColumn = "rn"

// columnName is the SQL name of the i-th table column. Source names are
// mapped to positions so that any header text is usable.
func columnName(i int) string {
	return "c" + strconv.Itoa(i)
}

type compiler struct {
	a       Adapter
	args    *argBuilder
	columns map[string]int
}

func newCompiler(a Adapter, t *frame.Table) *compiler {
	columns := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		columns[c.Name] = i
	}
	return &compiler{a: a, args: newArgBuilder(a.PlaceholderStyle()), columns: columns}
}

func (c *compiler) column(name string) (string, error) {
	i, ok := c.columns[name]
	if !ok {
		return "", &Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("engine: unknown column %q", name),
		}
	}
	return columnName(i), nil
}

func (c *compiler) expr(e plan.Expr) (string, error) {
	switch v := e.(type) {
	case plan.Column:
		return c.column(v.Name)
	case plan.Literal:
		switch v.Value.Kind {
		case plan.KindFloat64:
			return c.a.Param(c.args.Arg(v.Value.Float), frame.Float64), nil
		case plan.KindBoolean:
			return c.a.Param(c.args.Arg(v.Value.Bool), frame.Boolean), nil
		default:
			return "NULL", nil
		}
	case plan.IsNull:
		inner, err := c.expr(v.Expr)
		if err != nil {
			return "", err
		}
		return "(" + inner + " IS NULL)", nil
	case plan.IsNotNull:
		inner, err := c.expr(v.Expr)
		if err != nil {
			return "", err
		}
		return "(" + inner + " IS NOT NULL)", nil
	case plan.BinaryOp:
		left, err := c.expr(v.Left)
		if err != nil {
			return "", err
		}
		right, err := c.expr(v.Right)
		if err != nil {
			return "", err
		}
		return c.binary(left, v.Op, right), nil
	default:
		return "", &Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("engine: expression %s cannot be used in a filter", e),
		}
	}
}

func (c *compiler) binary(left string, op plan.Operator, right string) string {
	switch op {
	case plan.Divide:
		// true division, also for two integer operands
		return "(CAST(" + left + " AS " + c.a.ColumnType(frame.Float64) + ") / " + right + ")"
	case plan.Modulus:
		return c.a.Modulus(left, right)
	case plan.NotEq:
		return "(" + left + " <> " + right + ")"
	default:
		return "(" + left + " " + op.String() + " " + right + ")"
	}
}

// selectSQL builds the query returning every column of table in plan order:
// filtered, sorted with nulls last and sliced.
func (c *compiler) selectSQL(p *plan.Plan, table string, numColumns int) (string, []any, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i := 0; i < numColumns; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(columnName(i))
	}
	b.WriteString(" FROM ")
	b.WriteString(table)

	if p.Condition != nil {
		cond, err := c.expr(p.Condition)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(cond)
	}

	b.WriteString(" ORDER BY ")
	for _, key := range p.OrderBy {
		col, err := c.column(key.Column)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(col)
		if key.Descending {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		b.WriteString(" NULLS LAST, ")
	}
	b.WriteString(rowColumn)

	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	switch {
	case p.Bounded() && p.Limit <= math.MaxInt64:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(p.Limit, 10))
	case offset > 0:
		b.WriteString(" LIMIT ")
		b.WriteString(c.a.NoLimit())
	}
	if offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.FormatInt(offset, 10))
	}
	return b.String(), c.args.Args(), nil
}

func createSQL(a Adapter, table string, columns []frame.Column) string {
	var b strings.Builder
	b.WriteString("CREATE TEMPORARY TABLE ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(rowColumn)
	b.WriteString(" ")
	b.WriteString(a.ColumnType(frame.Int64))
	for i, col := range columns {
		b.WriteString(", ")
		b.WriteString(columnName(i))
		b.WriteString(" ")
		b.WriteString(a.ColumnType(col.Type))
	}
	b.WriteString(")")
	return b.String()
}

func insertSQL(a Adapter, table string, numColumns int) string {
	args := newArgBuilder(a.PlaceholderStyle())
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" VALUES (")
	for i := 0; i <= numColumns; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(args.Arg(nil))
	}
	b.WriteString(")")
	return b.String()
}
