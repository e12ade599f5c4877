package frame

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultInferSchemaLength is the number of data rows used to infer column types.
const DefaultInferSchemaLength = 16

// ErrEmptyInput is returned when the CSV text has no header row.
var ErrEmptyInput = errors.New("frame: empty CSV input")

// LoadOptions tune CSV loading. The zero value reads comma separated UTF-8
// text and infers types from DefaultInferSchemaLength rows.
type LoadOptions struct {
	InferSchemaLength int
	// Charset names the text encoding, e.g. "windows-1252". Empty means UTF-8.
	Charset   string
	Delimiter rune
}

// LoadCSV parses CSV text with a header row into a typed table. Column types
// are inferred from the leading rows; a later cell that does not fit its
// column type fails the load. Empty cells are null.
func LoadCSV(data []byte, opts LoadOptions) (*Table, error) {
	if opts.InferSchemaLength <= 0 {
		opts.InferSchemaLength = DefaultInferSchemaLength
	}

	dec, err := decoder(opts.Charset)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(dec)))
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("frame: cannot read CSV header: %w", err)
	}
	columns, err := headerColumns(header)
	if err != nil {
		return nil, err
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("frame: cannot read CSV: %w", err)
	}

	sample := records
	if len(sample) > opts.InferSchemaLength {
		sample = sample[:opts.InferSchemaLength]
	}
	for i := range columns {
		columns[i].Type = inferType(sample, i)
	}

	t := &Table{Columns: columns, Rows: make([][]any, 0, len(records))}
	for n, rec := range records {
		row := make([]any, len(columns))
		for i, cell := range rec {
			v, err := parseCell(cell, columns[i].Type)
			if err != nil {
				// +2 accounts for the header and 1-based numbering
				return nil, fmt.Errorf("frame: row %d, column %q: %w", n+2, columns[i].Name, err)
			}
			row[i] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func decoder(charset string) (transform.Transformer, error) {
	if charset == "" {
		return encoding.Nop.NewDecoder(), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("frame: unknown charset %q: %w", charset, err)
	}
	return enc.NewDecoder(), nil
}

func headerColumns(header []string) ([]Column, error) {
	columns := make([]Column, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("frame: duplicate column name %q", name)
		}
		seen[name] = struct{}{}
		columns[i] = Column{Name: name}
	}
	return columns, nil
}

// inferType picks the narrowest type that every non-empty sample cell of
// column i parses as. Columns without any value are Utf8.
func inferType(sample [][]string, i int) Type {
	isInt, isFloat, isBool, seen := true, true, true, false
	for _, rec := range sample {
		cell := rec[i]
		if cell == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, ok := parseFloat(cell); !ok {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(cell); !ok {
				isBool = false
			}
		}
	}
	switch {
	case !seen:
		return Utf8
	case isInt:
		return Int64
	case isFloat:
		return Float64
	case isBool:
		return Boolean
	default:
		return Utf8
	}
}

// parseFloat accepts decimal and exponent notation only; words such as NaN or
// Inf stay text.
func parseFloat(s string) (float64, bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && c != 'e' && c != 'E' {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func parseBool(s string) (bool, bool) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return false, false
}

func parseCell(cell string, t Type) (any, error) {
	if cell == "" {
		return nil, nil
	}
	switch t {
	case Int64:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as %s", cell, t)
		}
		return n, nil
	case Float64:
		f, ok := parseFloat(cell)
		if !ok {
			return nil, fmt.Errorf("cannot parse %q as %s", cell, t)
		}
		return f, nil
	case Boolean:
		b, ok := parseBool(cell)
		if !ok {
			return nil, fmt.Errorf("cannot parse %q as %s", cell, t)
		}
		return b, nil
	default:
		return cell, nil
	}
}
