package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/config"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/engine"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/fetch"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/query"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/parser"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/store/tablestore"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/translate"
)

type Server struct {
	exec    *query.Executor
	fetcher *fetch.Fetcher
	engine  *engine.Engine
	tables  *tablestore.TableStore
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tables, err := tablestore.NewTableStore(cfg.Tables)
	if err != nil {
		return nil, fmt.Errorf("failed to create table store: %w", err)
	}
	eng, err := engine.Open(ctx, cfg.EngineConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine: %w", err)
	}
	fetcher := fetch.New(cfg.FetchConfig(), logger)

	exec := query.NewExecutor(tables, fetcher, eng, cfg.LoadOptions(), logger)
	exec.SetDialect(cfg.SQLDialect())

	srv := &Server{
		exec:    exec,
		fetcher: fetcher,
		engine:  eng,
		tables:  tables,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	srv.mux.HandleFunc("/healthz", withSecurityHeaders(srv.handleHealth))
	srv.mux.HandleFunc("/api/v1/query", withSecurityHeaders(srv.handleQuery))
	srv.mux.HandleFunc("/api/v1/plan", withSecurityHeaders(srv.handlePlan))
	srv.mux.HandleFunc("/api/v1/config", withSecurityHeaders(srv.handleConfig))
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Close() error {
	return s.engine.Close()
}

func (s *Server) setHTTPClient(client *http.Client) {
	s.fetcher.SetHTTPClient(client)
}

// withSecurityHeaders middleware adds security headers to responses
func withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		next(w, r)
	}
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type queryResponse struct {
	Plan  *plan.Plan `json:"plan,omitempty"`
	Error string     `json:"error,omitempty"`
}

type resultResponse struct {
	Plan    *plan.Plan     `json:"plan"`
	Columns []frame.Column `json:"columns"`
	Rows    [][]any        `json:"rows"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	sqlText, ok := s.readSQL(w, r)
	if !ok {
		return
	}
	res, err := s.exec.Query(r.Context(), sqlText)
	if err != nil {
		s.logger.Error("query failed", "sql", sqlText, "error", err)
		s.writeError(w, err, "query execution failed")
		return
	}
	rows := res.Table.Rows
	if rows == nil {
		rows = [][]any{}
	}
	writeJSON(w, http.StatusOK, resultResponse{Plan: res.Plan, Columns: res.Table.Columns, Rows: rows})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	sqlText, ok := s.readSQL(w, r)
	if !ok {
		return
	}
	p, err := s.exec.Plan(sqlText)
	if err != nil {
		s.logger.Error("planning failed", "sql", sqlText, "error", err)
		s.writeError(w, err, "query processing failed")
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Plan: p})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	tables := s.tables.ListTables()
	sources := make(map[string]string, len(tables))
	for _, name := range tables {
		sources[name], _ = s.tables.GetSource(name)
	}
	writeJSON(w, http.StatusOK, map[string]any{"engine": s.engine.Backend(), "tables": sources})
}

// readSQL decodes the request body; it writes the error response itself and
// reports false when the request cannot be served.
func (s *Server) readSQL(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	defer r.Body.Close()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Error("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, queryResponse{Error: "invalid request payload"})
		return "", false
	}
	sqlText := strings.TrimSpace(req.SQL)
	if sqlText == "" {
		writeJSON(w, http.StatusBadRequest, queryResponse{Error: "sql query is required"})
		return "", false
	}
	return sqlText, true
}

// writeError maps typed errors to their status code; anything else is a 500
// with a generic message.
func (s *Server) writeError(w http.ResponseWriter, err error, fallback string) {
	var (
		fe *fetch.Error
		te *translate.TranslationError
		ee *engine.Error
		qe *query.Error
		se *parser.SyntaxError
	)
	switch {
	case errors.As(err, &fe):
		writeJSON(w, fe.Code, queryResponse{Error: fe.Message})
	case errors.As(err, &te):
		writeJSON(w, te.Code, queryResponse{Error: te.Message})
	case errors.As(err, &ee):
		writeJSON(w, ee.Code, queryResponse{Error: ee.Message})
	case errors.As(err, &qe):
		writeJSON(w, qe.Code, queryResponse{Error: qe.Message})
	case errors.As(err, &se):
		writeJSON(w, http.StatusBadRequest, queryResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, queryResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
