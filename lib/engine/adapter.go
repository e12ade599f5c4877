package engine

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendSQLite3  Backend = "sqlite3"
	BackendPostgres Backend = "postgres"
)

type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota
	PlaceholderDollar
)

// Adapter abstracts the SQL dialect differences between backends.
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() PlaceholderStyle
	Connect(ctx context.Context) (*sql.DB, error)

	// ColumnType returns the DDL type used to store values of t.
	ColumnType(t frame.Type) string
	// Param wraps a placeholder so the backend reads it as type t.
	Param(placeholder string, t frame.Type) string
	// Modulus returns the SQL for left % right.
	Modulus(left, right string) string
	// NoLimit is the LIMIT operand meaning "all rows".
	NoLimit() string
}

// argBuilder collects bound arguments and hands out placeholders.
type argBuilder struct {
	style PlaceholderStyle
	args  []any
}

func newArgBuilder(style PlaceholderStyle) *argBuilder {
	return &argBuilder{style: style}
}

func (b *argBuilder) Arg(v any) string {
	b.args = append(b.args, v)
	if b.style == PlaceholderDollar {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

func (b *argBuilder) Args() []any { return b.args }
