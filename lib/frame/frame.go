// Package frame holds typed in-memory tables and loads them from CSV text.
package frame

import "fmt"

// Type is the data type of a column.
type Type int

const (
	Utf8 Type = iota
	Int64
	Float64
	Boolean
)

var typeNames = [...]string{
	Utf8:    "Utf8",
	Int64:   "Int64",
	Float64: "Float64",
	Boolean: "Boolean",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Column describes one table column.
type Column struct {
	Name string `json:"name" yaml:"name"`
	Type Type   `json:"type" yaml:"type"`
}

// Table is a row-major typed table. A cell holds int64, float64, bool or
// string according to its column type, or nil for null.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the column called name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}
