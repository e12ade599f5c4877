package engine

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
)

// SQLiteAdapter runs queries on a private in-memory SQLite database. Driver is
// "sqlite" for the pure Go modernc.org/sqlite driver or "sqlite3" for the cgo
// based mattn/go-sqlite3 driver.
type SQLiteAdapter struct {
	DriverName string
}

func NewSQLite(driver string) *SQLiteAdapter {
	return &SQLiteAdapter{DriverName: driver}
}

func (a *SQLiteAdapter) Backend() Backend {
	if a.DriverName == string(BackendSQLite3) {
		return BackendSQLite3
	}
	return BackendSQLite
}

func (a *SQLiteAdapter) PlaceholderStyle() PlaceholderStyle { return PlaceholderQuestion }

func (a *SQLiteAdapter) Connect(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open(a.DriverName, ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *SQLiteAdapter) ColumnType(t frame.Type) string {
	switch t {
	case frame.Int64:
		return "INTEGER"
	case frame.Float64:
		return "REAL"
	case frame.Boolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (a *SQLiteAdapter) Param(placeholder string, _ frame.Type) string { return placeholder }

func (a *SQLiteAdapter) Modulus(left, right string) string {
	return "(" + left + " % " + right + ")"
}

func (a *SQLiteAdapter) NoLimit() string { return "-1" }
