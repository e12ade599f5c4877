package engine

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
)

// PostgresAdapter runs queries in temporary tables of a PostgreSQL server.
type PostgresAdapter struct {
	DSN string
}

func NewPostgres(dsn string) *PostgresAdapter {
	return &PostgresAdapter{DSN: dsn}
}

func (a *PostgresAdapter) Backend() Backend { return BackendPostgres }

func (a *PostgresAdapter) PlaceholderStyle() PlaceholderStyle { return PlaceholderDollar }

func (a *PostgresAdapter) Connect(ctx context.Context) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(a.DSN)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDB(*cfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *PostgresAdapter) ColumnType(t frame.Type) string {
	switch t {
	case frame.Int64:
		return "BIGINT"
	case frame.Float64:
		return "DOUBLE PRECISION"
	case frame.Boolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// Param casts the placeholder; otherwise the server infers its type from the
// other operand and rejects e.g. 1.5 compared with a BIGINT column.
func (a *PostgresAdapter) Param(placeholder string, t frame.Type) string {
	return "CAST(" + placeholder + " AS " + a.ColumnType(t) + ")"
}

// Modulus goes through NUMERIC because % is not defined for DOUBLE PRECISION.
func (a *PostgresAdapter) Modulus(left, right string) string {
	return "MOD(CAST(" + left + " AS NUMERIC), CAST(" + right + " AS NUMERIC))"
}

func (a *PostgresAdapter) NoLimit() string { return "ALL" }
