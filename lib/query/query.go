// Package query runs SQL text end to end: parse, translate to a plan, fetch
// the source, load it into a typed table and execute the plan on it.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/engine"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/fetch"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/dialect"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/lexer"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/parser"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/store/tablestore"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/translate"
)

type Executor struct {
	tables  *tablestore.TableStore
	fetcher *fetch.Fetcher
	engine  *engine.Engine
	load    frame.LoadOptions
	dialect dialect.Dialect
	logger  *slog.Logger
}

// Result is the outcome of Query.
type Result struct {
	Plan  *plan.Plan
	Table *frame.Table
}

// NewExecutor wires the collaborators of a query. tables may be nil when no
// aliases are configured.
func NewExecutor(tables *tablestore.TableStore, fetcher *fetch.Fetcher, eng *engine.Engine, load frame.LoadOptions, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		tables:  tables,
		fetcher: fetcher,
		engine:  eng,
		load:    load,
		dialect: dialect.URL{},
		logger:  logger,
	}
}

// SetDialect changes the identifier rules used to lex SQL. A nil d keeps
// the current dialect.
func (x *Executor) SetDialect(d dialect.Dialect) {
	if d != nil {
		x.dialect = d
	}
}

// Plan parses sql and translates it without touching the source.
func (x *Executor) Plan(sql string) (*plan.Plan, error) {
	p := parser.New(lexer.NewWithDialect(sql, x.dialect))
	stmts := p.ParseStatements()
	if perrs := p.Errors(); len(perrs) > 0 {
		return nil, fmt.Errorf("parse errors: %w", errors.Join(perrs...))
	}
	stmt, err := translate.SingleStatement(stmts)
	if err != nil {
		return nil, err
	}
	return translate.Translate(stmt, x.logger)
}

// Query plans sql, reads its source and executes the plan. Sources are
// fetched anew on every call.
func (x *Executor) Query(ctx context.Context, sql string) (*Result, error) {
	p, err := x.Plan(sql)
	if err != nil {
		return nil, err
	}

	source := x.tables.Resolve(p.Source)
	x.logger.Info("retrieving data from source", "source", source)
	data, err := x.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	table, err := frame.LoadCSV(data, x.load)
	if err != nil {
		return nil, &Error{
			Code:    http.StatusUnprocessableEntity,
			Message: fmt.Sprintf("query: cannot load %s: %v", source, err),
			Err:     err,
		}
	}
	x.logger.Debug("loaded source",
		"source", source,
		"columns", strings.Join(table.ColumnNames(), ","),
		"rows", table.NumRows(),
	)

	out, err := x.engine.Execute(ctx, p, table)
	if err != nil {
		return nil, err
	}
	return &Result{Plan: p, Table: out}, nil
}
