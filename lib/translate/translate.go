// Package translate turns a parsed SQL statement into a plan.Plan. Anything the
// execution engine cannot run is rejected with a *TranslationError naming the
// offending construct.
package translate

import (
	"log/slog"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
)

// Translate decomposes stmt and builds its plan.
func Translate(stmt ast.Statement, logger *slog.Logger) (*plan.Plan, error) {
	f, err := Decompose(stmt)
	if err != nil {
		return nil, err
	}
	return Build(f, logger)
}

// Build translates every facet of f. An OFFSET or LIMIT that is not an
// integer literal falls back to its default and is logged at debug level.
func Build(f *Facets, logger *slog.Logger) (*plan.Plan, error) {
	if logger == nil {
		logger = slog.Default()
	}

	source, err := ResolveSource(f.Source)
	if err != nil {
		return nil, err
	}
	p := plan.New(source)
	p.Alias = sourceAlias(f.Source)

	p.Selection = make([]plan.Expr, 0, len(f.Selection))
	for _, item := range f.Selection {
		e, err := Projection(item)
		if err != nil {
			return nil, err
		}
		p.Selection = append(p.Selection, e)
	}

	if f.Condition != nil {
		if p.Condition, err = Expr(f.Condition); err != nil {
			return nil, err
		}
	}

	for _, item := range f.OrderBy {
		key, err := OrderKey(item)
		if err != nil {
			return nil, err
		}
		p.OrderBy = append(p.OrderBy, key)
	}

	var ok bool
	if p.Offset, ok = Offset(f.Offset); !ok && f.Offset != nil {
		logger.Debug("OFFSET is not an integer literal, using 0", "offset", describe(f.Offset))
	}
	if p.Limit, ok = Limit(f.Limit); !ok && f.Limit != nil {
		logger.Debug("LIMIT is not an integer literal, returning all rows", "limit", describe(f.Limit))
	}
	return p, nil
}
