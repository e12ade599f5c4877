// Package engine executes a plan.Plan against a loaded frame.Table. Filtering,
// sorting and slicing run in SQL on a pluggable database backend; the final
// projection runs in Go so ORDER BY may use columns that are not selected.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
)

type Config struct {
	Backend Backend
	// DSN is the connection string of the postgres backend.
	DSN string
}

type Engine struct {
	adapter Adapter
	db      *sql.DB
	logger  *slog.Logger
}

// NewAdapter returns the adapter for cfg.Backend. An empty backend selects sqlite.
func NewAdapter(cfg Config) (Adapter, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		return NewSQLite(string(BackendSQLite)), nil
	case BackendSQLite3:
		return NewSQLite(string(BackendSQLite3)), nil
	case BackendPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("engine: postgres backend requires a DSN")
		}
		return NewPostgres(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("engine: unknown backend %q", cfg.Backend)
	}
}

// Open connects to the backend selected by cfg.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Engine, error) {
	a, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	return OpenAdapter(ctx, a, logger)
}

func OpenAdapter(ctx context.Context, a Adapter, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := a.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: cannot connect to %s backend: %w", a.Backend(), err)
	}
	return &Engine{adapter: a, db: db, logger: logger}, nil
}

func (e *Engine) Backend() Backend {
	return e.adapter.Backend()
}

func (e *Engine) Close() error {
	return e.db.Close()
}

// Execute runs p over t: filter, sort, offset/limit, then projection. Every
// call works on its own temporary table, so concurrent calls do not interact.
func (e *Engine) Execute(ctx context.Context, p *plan.Plan, t *frame.Table) (*frame.Table, error) {
	table := "frame_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	query, args, err := newCompiler(e.adapter, t).selectSQL(p, table, len(t.Columns))
	if err != nil {
		return nil, err
	}
	// validate the projection before touching the database
	if _, err := project(p, &frame.Table{Columns: t.Columns}); err != nil {
		return nil, err
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, e.dbError("cannot acquire connection", err)
	}
	defer conn.Close()

	started := time.Now()
	if _, err := conn.ExecContext(ctx, createSQL(e.adapter, table, t.Columns)); err != nil {
		return nil, e.dbError("cannot create table", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "DROP TABLE "+table); err != nil {
			e.logger.Warn("cannot drop table", "table", table, "error", err)
		}
	}()
	if err := e.load(ctx, conn, table, t); err != nil {
		return nil, err
	}

	rows, err := e.query(ctx, conn, query, args, t.Columns)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("executed plan",
		"backend", e.adapter.Backend(),
		"rows_in", len(t.Rows),
		"rows_out", len(rows),
		"duration", time.Since(started),
	)
	return project(p, &frame.Table{Columns: t.Columns, Rows: rows})
}

func (e *Engine) load(ctx context.Context, conn *sql.Conn, table string, t *frame.Table) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return e.dbError("cannot begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertSQL(e.adapter, table, len(t.Columns)))
	if err != nil {
		return e.dbError("cannot prepare insert", err)
	}
	defer stmt.Close()

	values := make([]any, len(t.Columns)+1)
	for n, row := range t.Rows {
		values[0] = int64(n)
		copy(values[1:], row)
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return e.dbError(fmt.Sprintf("cannot insert row %d", n+1), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return e.dbError("cannot commit rows", err)
	}
	return nil
}

func (e *Engine) query(ctx context.Context, conn *sql.Conn, query string, args []any, columns []frame.Column) ([][]any, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, e.dbError("query failed", err)
	}
	defer rows.Close()

	var out [][]any
	dest := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, e.dbError("cannot scan row", err)
		}
		row := make([]any, len(columns))
		for i, v := range dest {
			if row[i], err = normalize(v, columns[i].Type); err != nil {
				return nil, e.dbError(fmt.Sprintf("column %q", columns[i].Name), err)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, e.dbError("query failed", err)
	}
	return out, nil
}

// normalize converts a scanned value back to the Go type of column type t.
// SQLite hands booleans back as integers and text as bytes.
func normalize(v any, t frame.Type) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case frame.Int64:
		switch n := v.(type) {
		case int64:
			return n, nil
		case float64:
			return int64(n), nil
		}
	case frame.Float64:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case frame.Boolean:
		switch n := v.(type) {
		case bool:
			return n, nil
		case int64:
			return n != 0, nil
		}
	default:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	}
	return nil, fmt.Errorf("unexpected %T value for %s column", v, t)
}

func (e *Engine) dbError(msg string, err error) error {
	return &Error{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("engine: %s backend: %s: %v", e.adapter.Backend(), msg, err),
		Err:     err,
	}
}
