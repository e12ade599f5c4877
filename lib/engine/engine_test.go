package engine

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
)

const source = "https://example.com/data.csv"

func sampleTable() *frame.Table {
	return &frame.Table{
		Columns: []frame.Column{
			{Name: "name", Type: frame.Utf8},
			{Name: "n", Type: frame.Int64},
			{Name: "x", Type: frame.Float64},
			{Name: "ok", Type: frame.Boolean},
		},
		Rows: [][]any{
			{"a", int64(1), 1.5, true},
			{"b", int64(2), nil, false},
			{"c", int64(3), 0.5, true},
			{"d", nil, 2.5, nil},
			{"e", int64(2), 1.5, false},
		},
	}
}

func newPlan(selection ...plan.Expr) *plan.Plan {
	p := plan.New(source)
	p.Selection = selection
	return p
}

func col(name string) plan.Expr { return plan.Column{Name: name} }

func num(f float64) plan.Expr { return plan.Literal{Value: plan.Float64(f)} }

func bin(l plan.Expr, op plan.Operator, r plan.Expr) plan.Expr {
	return plan.BinaryOp{Left: l, Op: op, Right: r}
}

func openSQLite(t *testing.T, driver string) *Engine {
	t.Helper()
	e, err := OpenAdapter(context.Background(), NewSQLite(driver), nil)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "cgo") {
		t.Skipf("%s driver unavailable: %v", driver, err)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

// backends returns every engine available in the test environment.
func backends(t *testing.T) map[string]*Engine {
	t.Helper()
	out := map[string]*Engine{"sqlite": openSQLite(t, "sqlite")}
	if e, err := OpenAdapter(context.Background(), NewSQLite("sqlite3"), nil); err == nil {
		t.Cleanup(func() { _ = e.Close() })
		out["sqlite3"] = e
	}
	if dsn := os.Getenv("SQL2FRAME_TEST_POSTGRES_DSN"); dsn != "" {
		e, err := OpenAdapter(context.Background(), NewPostgres(dsn), nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = e.Close() })
		out["postgres"] = e
	}
	return out
}

func column(t *testing.T, tbl *frame.Table, name string) []any {
	t.Helper()
	i, ok := tbl.ColumnIndex(name)
	require.True(t, ok, "column %q", name)
	out := make([]any, len(tbl.Rows))
	for r, row := range tbl.Rows {
		out[r] = row[i]
	}
	return out
}

func TestExecute(t *testing.T) {
	cases := []struct {
		name    string
		plan    func() *plan.Plan
		columns []string
		want    []any // values of the first output column
	}{
		{
			name:    "wildcard keeps load order",
			plan:    func() *plan.Plan { return newPlan(plan.Wildcard{}) },
			columns: []string{"name", "n", "x", "ok"},
			want:    []any{"a", "b", "c", "d", "e"},
		},
		{
			name: "filter",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(col("n"), plan.GtEq, num(2))
				return p
			},
			columns: []string{"name"},
			want:    []any{"b", "c", "e"},
		},
		{
			name: "filter with fractional literal on integer column",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(col("n"), plan.Gt, num(1.5))
				return p
			},
			columns: []string{"name"},
			want:    []any{"b", "c", "e"},
		},
		{
			name: "null comparison drops row",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(col("x"), plan.Lt, num(2))
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "c", "e"},
		},
		{
			name: "is null",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = plan.IsNull{Expr: col("x")}
				return p
			},
			columns: []string{"name"},
			want:    []any{"b"},
		},
		{
			name: "is not null with or",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(
					plan.IsNotNull{Expr: col("ok")},
					plan.And,
					bin(bin(col("n"), plan.Eq, num(1)), plan.Or, bin(col("n"), plan.Eq, num(3))),
				)
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "c"},
		},
		{
			name: "boolean column",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(col("ok"), plan.Eq, plan.Literal{Value: plan.Boolean(true)})
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "c"},
		},
		{
			name: "not equal",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(col("n"), plan.NotEq, num(2))
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "c"},
		},
		{
			name: "arithmetic",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(bin(col("n"), plan.Multiply, num(2)), plan.Eq, bin(col("n"), plan.Plus, num(2)))
				return p
			},
			columns: []string{"name"},
			want:    []any{"b", "e"},
		},
		{
			name: "division is not truncated",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(bin(col("n"), plan.Divide, num(2)), plan.Eq, num(1.5))
				return p
			},
			columns: []string{"name"},
			want:    []any{"c"},
		},
		{
			name: "modulus",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Condition = bin(bin(col("n"), plan.Modulus, num(2)), plan.Eq, num(0))
				return p
			},
			columns: []string{"name"},
			want:    []any{"b", "e"},
		},
		{
			name: "sort ascending puts nulls last",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.OrderBy = []plan.OrderKey{{Column: "x"}}
				return p
			},
			columns: []string{"name"},
			want:    []any{"c", "a", "e", "d", "b"},
		},
		{
			name: "sort descending puts nulls last",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.OrderBy = []plan.OrderKey{{Column: "n", Descending: true}}
				return p
			},
			columns: []string{"name"},
			want:    []any{"c", "b", "e", "a", "d"},
		},
		{
			name: "sort by several keys",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.OrderBy = []plan.OrderKey{{Column: "n"}, {Column: "name", Descending: true}}
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "e", "b", "c", "d"},
		},
		{
			name: "sort by column not selected",
			plan: func() *plan.Plan {
				p := newPlan(col("ok"))
				p.OrderBy = []plan.OrderKey{{Column: "name", Descending: true}}
				return p
			},
			columns: []string{"ok"},
			want:    []any{false, nil, true, false, true},
		},
		{
			name: "limit",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Limit = 2
				return p
			},
			columns: []string{"name"},
			want:    []any{"a", "b"},
		},
		{
			name: "offset and limit",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Offset = 1
				p.Limit = 2
				return p
			},
			columns: []string{"name"},
			want:    []any{"b", "c"},
		},
		{
			name: "offset only",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Offset = 3
				return p
			},
			columns: []string{"name"},
			want:    []any{"d", "e"},
		},
		{
			name: "offset past the end",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Offset = 10
				return p
			},
			columns: []string{"name"},
			want:    []any{},
		},
		{
			name: "zero limit",
			plan: func() *plan.Plan {
				p := newPlan(col("name"))
				p.Limit = 0
				return p
			},
			columns: []string{"name"},
			want:    []any{},
		},
		{
			name: "alias",
			plan: func() *plan.Plan {
				return newPlan(plan.Alias{Expr: col("n"), Name: "count"}, col("name"))
			},
			columns: []string{"count", "name"},
			want:    []any{int64(1), int64(2), int64(3), nil, int64(2)},
		},
		{
			name:    "qualified wildcard",
			plan:    func() *plan.Plan { return newPlan(plan.QualifiedWildcard{Qualifier: source}) },
			columns: []string{"name", "n", "x", "ok"},
			want:    []any{"a", "b", "c", "d", "e"},
		},
		{
			name: "wildcard qualified by source alias",
			plan: func() *plan.Plan {
				p := newPlan(plan.QualifiedWildcard{Qualifier: "c"})
				p.Alias = "c"
				return p
			},
			columns: []string{"name", "n", "x", "ok"},
			want:    []any{"a", "b", "c", "d", "e"},
		},
	}

	for backend, e := range backends(t) {
		for _, tc := range cases {
			t.Run(backend+"/"+tc.name, func(t *testing.T) {
				out, err := e.Execute(context.Background(), tc.plan(), sampleTable())
				require.NoError(t, err)
				assert.Equal(t, tc.columns, out.ColumnNames())
				assert.Equal(t, tc.want, column(t, out, tc.columns[0]))
			})
		}
	}
}

func TestExecuteKeepsColumnTypes(t *testing.T) {
	for backend, e := range backends(t) {
		t.Run(backend, func(t *testing.T) {
			in := sampleTable()
			out, err := e.Execute(context.Background(), newPlan(plan.Wildcard{}), in)
			require.NoError(t, err)
			assert.Equal(t, in.Columns, out.Columns)
			assert.Equal(t, in.Rows, out.Rows)
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	e := openSQLite(t, "sqlite")

	cases := []struct {
		name string
		plan *plan.Plan
		msg  string
	}{
		{
			name: "unknown selected column",
			plan: newPlan(col("missing")),
			msg:  `engine: unknown column "missing"`,
		},
		{
			name: "unknown filter column",
			plan: func() *plan.Plan {
				p := newPlan(plan.Wildcard{})
				p.Condition = bin(col("missing"), plan.Eq, num(1))
				return p
			}(),
			msg: `engine: unknown column "missing"`,
		},
		{
			name: "unknown order column",
			plan: func() *plan.Plan {
				p := newPlan(plan.Wildcard{})
				p.OrderBy = []plan.OrderKey{{Column: "missing"}}
				return p
			}(),
			msg: `engine: unknown column "missing"`,
		},
		{
			name: "qualifier does not match source",
			plan: newPlan(plan.QualifiedWildcard{Qualifier: "t"}),
			msg:  `engine: t.* does not match source "` + source + `"`,
		},
		{
			name: "qualifier does not match alias",
			plan: func() *plan.Plan {
				p := newPlan(plan.QualifiedWildcard{Qualifier: "t"})
				p.Alias = "c"
				return p
			}(),
			msg: `engine: t.* does not match source "` + source + `"`,
		},
		{
			name: "duplicate output column",
			plan: newPlan(col("name"), plan.Wildcard{}),
			msg:  `engine: duplicate output column "name"`,
		},
		{
			name: "alias collides",
			plan: newPlan(col("n"), plan.Alias{Expr: col("x"), Name: "n"}),
			msg:  `engine: duplicate output column "n"`,
		},
		{
			name: "wildcard in filter",
			plan: func() *plan.Plan {
				p := newPlan(plan.Wildcard{})
				p.Condition = plan.Wildcard{}
				return p
			}(),
			msg: "engine: expression * cannot be used in a filter",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Execute(context.Background(), tc.plan, sampleTable())
			require.Error(t, err)
			assert.EqualError(t, err, tc.msg)
			var engErr *Error
			require.True(t, errors.As(err, &engErr))
			assert.Equal(t, http.StatusBadRequest, engErr.Code)
		})
	}
}

func TestExecuteEmptySelection(t *testing.T) {
	e := openSQLite(t, "sqlite")
	out, err := e.Execute(context.Background(), newPlan(), sampleTable())
	require.NoError(t, err)
	assert.Empty(t, out.Columns)
	assert.Len(t, out.Rows, 5)
}

func TestExecuteCanceledContext(t *testing.T) {
	e := openSQLite(t, "sqlite")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Execute(ctx, newPlan(plan.Wildcard{}), sampleTable())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteConcurrent(t *testing.T) {
	e := openSQLite(t, "sqlite")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := newPlan(col("name"))
			p.Offset = int64(i % 5)
			p.Limit = 1
			out, err := e.Execute(context.Background(), p, sampleTable())
			if err == nil && len(out.Rows) != 1 {
				err = errors.New("unexpected row count")
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter(Config{})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, a.Backend())

	a, err = NewAdapter(Config{Backend: BackendSQLite3})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite3, a.Backend())

	a, err = NewAdapter(Config{Backend: BackendPostgres, DSN: "postgres://localhost/db"})
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, a.Backend())
	assert.Equal(t, PlaceholderDollar, a.PlaceholderStyle())

	_, err = NewAdapter(Config{Backend: BackendPostgres})
	assert.EqualError(t, err, "engine: postgres backend requires a DSN")

	_, err = NewAdapter(Config{Backend: "duckdb"})
	assert.EqualError(t, err, `engine: unknown backend "duckdb"`)
}

func TestSelectSQL(t *testing.T) {
	tbl := sampleTable()
	p := newPlan(plan.Wildcard{})
	p.Condition = bin(bin(col("n"), plan.Divide, num(2)), plan.Gt, num(1))
	p.OrderBy = []plan.OrderKey{{Column: "x", Descending: true}}
	p.Offset = 3

	query, args, err := newCompiler(NewSQLite("sqlite"), tbl).selectSQL(p, "t", len(tbl.Columns))
	require.NoError(t, err)
	assert.Equal(t, "SELECT c0, c1, c2, c3 FROM t WHERE ((CAST(c1 AS REAL) / ?) > ?) ORDER BY c2 DESC NULLS LAST, rn LIMIT -1 OFFSET 3", query)
	assert.Equal(t, []any{2.0, 1.0}, args)

	p.Limit = 4
	query, args, err = newCompiler(NewPostgres("dsn"), tbl).selectSQL(p, "t", len(tbl.Columns))
	require.NoError(t, err)
	assert.Equal(t, "SELECT c0, c1, c2, c3 FROM t WHERE ((CAST(c1 AS DOUBLE PRECISION) / CAST($1 AS DOUBLE PRECISION)) > CAST($2 AS DOUBLE PRECISION)) ORDER BY c2 DESC NULLS LAST, rn LIMIT 4 OFFSET 3", query)
	assert.Equal(t, []any{2.0, 1.0}, args)
}

func TestCreateAndInsertSQL(t *testing.T) {
	cols := sampleTable().Columns
	assert.Equal(t, "CREATE TEMPORARY TABLE t (rn INTEGER, c0 TEXT, c1 INTEGER, c2 REAL, c3 BOOLEAN)", createSQL(NewSQLite("sqlite"), "t", cols))
	assert.Equal(t, "CREATE TEMPORARY TABLE t (rn BIGINT, c0 TEXT, c1 BIGINT, c2 DOUBLE PRECISION, c3 BOOLEAN)", createSQL(NewPostgres("dsn"), "t", cols))
	assert.Equal(t, "INSERT INTO t VALUES (?, ?, ?)", insertSQL(NewSQLite("sqlite"), "t", 2))
	assert.Equal(t, "INSERT INTO t VALUES ($1, $2, $3)", insertSQL(NewPostgres("dsn"), "t", 2))
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   any
		typ  frame.Type
		want any
	}{
		{nil, frame.Int64, nil},
		{int64(3), frame.Int64, int64(3)},
		{int64(3), frame.Float64, 3.0},
		{int64(1), frame.Boolean, true},
		{int64(0), frame.Boolean, false},
		{true, frame.Boolean, true},
		{[]byte("x"), frame.Utf8, "x"},
		{"x", frame.Utf8, "x"},
	}
	for _, tc := range cases {
		got, err := normalize(tc.in, tc.typ)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := normalize("x", frame.Int64)
	assert.EqualError(t, err, "unexpected string value for Int64 column")
}
