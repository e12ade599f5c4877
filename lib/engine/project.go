package engine

import (
	"fmt"
	"net/http"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
)

type output struct {
	index int
	name  string
}

// project applies the plan selection to a table holding every source column.
// Output names must be unique.
func project(p *plan.Plan, t *frame.Table) (*frame.Table, error) {
	outputs := make([]output, 0, len(p.Selection))
	for _, e := range p.Selection {
		switch v := e.(type) {
		case plan.Wildcard:
			outputs = appendAll(outputs, t)
		case plan.QualifiedWildcard:
			if v.Qualifier != p.Source && (p.Alias == "" || v.Qualifier != p.Alias) {
				return nil, &Error{
					Code:    http.StatusBadRequest,
					Message: fmt.Sprintf("engine: %s does not match source %q", v, p.Source),
				}
			}
			outputs = appendAll(outputs, t)
		case plan.Column:
			i, err := columnIndex(t, v.Name)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, output{index: i, name: v.Name})
		case plan.Alias:
			col, ok := v.Expr.(plan.Column)
			if !ok {
				return nil, &Error{
					Code:    http.StatusBadRequest,
					Message: fmt.Sprintf("engine: cannot project %s", v),
				}
			}
			i, err := columnIndex(t, col.Name)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, output{index: i, name: v.Name})
		default:
			return nil, &Error{
				Code:    http.StatusBadRequest,
				Message: fmt.Sprintf("engine: cannot project %s", e),
			}
		}
	}

	seen := make(map[string]struct{}, len(outputs))
	result := &frame.Table{
		Columns: make([]frame.Column, len(outputs)),
		Rows:    make([][]any, len(t.Rows)),
	}
	for i, o := range outputs {
		if _, ok := seen[o.name]; ok {
			return nil, &Error{
				Code:    http.StatusBadRequest,
				Message: fmt.Sprintf("engine: duplicate output column %q", o.name),
			}
		}
		seen[o.name] = struct{}{}
		result.Columns[i] = frame.Column{Name: o.name, Type: t.Columns[o.index].Type}
	}
	for r, src := range t.Rows {
		row := make([]any, len(outputs))
		for i, o := range outputs {
			row[i] = src[o.index]
		}
		result.Rows[r] = row
	}
	return result, nil
}

func appendAll(outputs []output, t *frame.Table) []output {
	for i, c := range t.Columns {
		outputs = append(outputs, output{index: i, name: c.Name})
	}
	return outputs
}

func columnIndex(t *frame.Table, name string) (int, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return 0, &Error{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("engine: unknown column %q", name),
		}
	}
	return i, nil
}
