// Package tablestore maps short table names to the sources they stand for,
// so that "SELECT * FROM covid" can read a long URL.
package tablestore

import (
	"fmt"
	"sort"
	"strings"
)

type TableStore struct {
	tables map[string]string
}

func NewTableStore(tables map[string]string) (*TableStore, error) {
	tables, err := normalizeTableMap(tables)
	if err != nil {
		return nil, fmt.Errorf("normalize table map: %w", err)
	}
	return &TableStore{
		tables: tables,
	}, nil
}

// GetSource returns the source registered for name. Lookup ignores case.
func (s *TableStore) GetSource(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	source, ok := s.tables[strings.ToLower(strings.TrimSpace(name))]
	return source, ok
}

// Resolve returns the source registered for name, or name itself when the
// name is not an alias.
func (s *TableStore) Resolve(name string) string {
	if source, ok := s.GetSource(name); ok {
		return source
	}
	return name
}

func (s *TableStore) ListTables() []string {
	if s == nil {
		return nil
	}
	tables := make([]string, 0, len(s.tables))
	for tbl := range s.tables {
		tables = append(tables, tbl)
	}
	sort.Strings(tables)
	return tables
}

func normalizeTableMap(src map[string]string) (map[string]string, error) {
	dst := make(map[string]string, len(src))
	if len(src) == 0 {
		return dst, nil
	}
	for name, source := range src {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("tablestore: table name cannot be empty")
		}
		if _, exists := dst[key]; exists {
			return nil, fmt.Errorf("tablestore: duplicate table name %q", key)
		}
		source = strings.TrimSpace(source)
		if source == "" {
			return nil, fmt.Errorf("tablestore: table %q has no source", key)
		}
		dst[key] = source
	}
	return dst, nil
}
