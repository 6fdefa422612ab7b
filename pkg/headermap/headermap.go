// Package headermap resolves free-form column titles (Vietnamese or English,
// any case or spacing, any order) onto a fixed set of canonical fields.
package headermap

import "shiptrack/pkg/normalize"

type Field struct {
	Name     string
	Aliases  []string
	Required bool
}

// Schema is an ordered alias table.
type Schema struct {
	Name   string
	Fields []Field
}

// Mapping is the resolved field -> column index lookup for one table.
// A field whose aliases were not found maps to -1.
type Mapping struct {
	schema Schema
	index  map[string]int
}

// Resolve looks up every canonical field in headers. When several columns
// would match the same field, the left-most one wins.
func Resolve(headers []string, s Schema) Mapping {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = normalize.Header(h)
	}
	m := Mapping{schema: s, index: make(map[string]int, len(s.Fields))}
	for _, f := range s.Fields {
		m.index[f.Name] = findAny(keys, f.Aliases)
	}
	return m
}

func findAny(keys []string, aliases []string) int {
	want := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		want[normalize.Header(a)] = struct{}{}
	}
	for i, k := range keys {
		if _, ok := want[k]; ok {
			return i
		}
	}
	return -1
}

// Column returns the input column index for field, or -1.
func (m Mapping) Column(field string) int {
	idx, ok := m.index[field]
	if !ok {
		return -1
	}
	return idx
}

// Missing lists required fields that have no column, in schema order.
func (m Mapping) Missing() []string {
	var out []string
	for _, f := range m.schema.Fields {
		if f.Required && m.Column(f.Name) < 0 {
			out = append(out, f.Name)
		}
	}
	return out
}

// Project exposes one input row through the canonical field names.
func (m Mapping) Project(cells []string) Row {
	return Row{m: m, cells: cells}
}

type Row struct {
	m     Mapping
	cells []string
}

// Get returns the raw cell for field. It reports false when the field has no
// column or the row is too short to reach it.
func (r Row) Get(field string) (string, bool) {
	idx := r.m.Column(field)
	if idx < 0 || idx >= len(r.cells) {
		return "", false
	}
	return r.cells[idx], true
}

// Value is Get without the presence flag.
func (r Row) Value(field string) string {
	v, _ := r.Get(field)
	return v
}
