// Package plan defines the query plan handed from the SQL translator to the
// execution engine. A Plan is pure data: it references its source by name
// and holds no fetched rows.
package plan

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Unbounded is the Limit of a plan without a row cap.
const Unbounded uint64 = math.MaxUint64

// OrderKey sorts by a single column.
type OrderKey struct {
	Column     string
	Descending bool
}

func (k OrderKey) String() string {
	if k.Descending {
		return k.Column + " DESC"
	}
	return k.Column + " ASC"
}

// Plan is an execution-ready query.
type Plan struct {
	Selection []Expr
	Condition Expr // nil keeps every row
	Source    string
	Alias     string // FROM alias, usable as a wildcard qualifier
	OrderBy   []OrderKey
	Offset    int64
	Limit     uint64
}

// New returns a plan over source with default offset and limit.
func New(source string) *Plan {
	return &Plan{Source: source, Limit: Unbounded}
}

// Bounded reports whether the plan caps the number of rows.
func (p *Plan) Bounded() bool {
	return p.Limit != Unbounded
}

// String renders a stable multi-line description of the plan.
func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString("source: ")
	b.WriteString(p.Source)
	if p.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(p.Alias)
	}
	b.WriteString("\nselection:\n")
	for _, e := range p.Selection {
		b.WriteString("  - ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	b.WriteString("condition: ")
	if p.Condition != nil {
		b.WriteString(p.Condition.String())
	} else {
		b.WriteString("none")
	}
	b.WriteString("\norder by:")
	if len(p.OrderBy) == 0 {
		b.WriteString(" none")
	}
	b.WriteByte('\n')
	for _, k := range p.OrderBy {
		b.WriteString("  - ")
		b.WriteString(k.String())
		b.WriteByte('\n')
	}
	b.WriteString("offset: ")
	b.WriteString(strconv.FormatInt(p.Offset, 10))
	b.WriteString("\nlimit: ")
	if p.Bounded() {
		b.WriteString(strconv.FormatUint(p.Limit, 10))
	} else {
		b.WriteString("unbounded")
	}
	b.WriteByte('\n')
	return b.String()
}

type orderKeyView struct {
	Column     string `json:"column" yaml:"column"`
	Descending bool   `json:"descending" yaml:"descending"`
}

// view is the serialized form of a plan: expressions are rendered as text and
// an unbounded limit is omitted.
type view struct {
	Source    string         `json:"source" yaml:"source"`
	Alias     string         `json:"alias,omitempty" yaml:"alias,omitempty"`
	Selection []string       `json:"selection" yaml:"selection"`
	Condition *string        `json:"condition" yaml:"condition"`
	OrderBy   []orderKeyView `json:"order_by" yaml:"order_by"`
	Offset    int64          `json:"offset" yaml:"offset"`
	Limit     *uint64        `json:"limit" yaml:"limit"`
}

func (p *Plan) view() view {
	v := view{
		Source:    p.Source,
		Alias:     p.Alias,
		Selection: make([]string, 0, len(p.Selection)),
		OrderBy:   make([]orderKeyView, 0, len(p.OrderBy)),
		Offset:    p.Offset,
	}
	for _, e := range p.Selection {
		v.Selection = append(v.Selection, e.String())
	}
	if p.Condition != nil {
		cond := p.Condition.String()
		v.Condition = &cond
	}
	for _, k := range p.OrderBy {
		v.OrderBy = append(v.OrderBy, orderKeyView{Column: k.Column, Descending: k.Descending})
	}
	if p.Bounded() {
		limit := p.Limit
		v.Limit = &limit
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (p *Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.view())
}

// MarshalYAML implements yaml.Marshaler.
func (p *Plan) MarshalYAML() (interface{}, error) {
	return p.view(), nil
}
