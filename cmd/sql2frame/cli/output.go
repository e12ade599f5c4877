package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/frame"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/plan"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/query"
)

// OutputFormatter renders command results in the configured format.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

type resultOutput struct {
	Plan    *plan.Plan     `json:"plan" yaml:"plan"`
	Columns []frame.Column `json:"columns" yaml:"columns"`
	Rows    [][]any        `json:"rows" yaml:"rows"`
}

func (f *OutputFormatter) Plan(p *plan.Plan) error {
	switch f.Format {
	case "json":
		return f.json(p)
	case "yaml":
		return f.yaml(p)
	default:
		_, err := fmt.Fprintln(f.Writer, p.String())
		return err
	}
}

func (f *OutputFormatter) Result(res *query.Result) error {
	rows := res.Table.Rows
	if rows == nil {
		rows = [][]any{}
	}
	out := resultOutput{Plan: res.Plan, Columns: res.Table.Columns, Rows: rows}
	switch f.Format {
	case "json":
		return f.json(out)
	case "yaml":
		return f.yaml(out)
	default:
		return f.table(res.Table)
	}
}

func (f *OutputFormatter) json(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) yaml(v any) error {
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// table writes an aligned text table followed by the row count.
func (f *OutputFormatter) table(t *frame.Table) error {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for i, c := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c.Name)
	}
	fmt.Fprintln(tw)
	for _, row := range t.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(v))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	noun := "rows"
	if len(t.Rows) == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(f.Writer, "(%d %s)\n", len(t.Rows), noun)
	return err
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
