// Package stepdata holds the editable value state of one case step: a flat
// map of top-level field values plus the record arrays backing repeat groups.
// Paths are dot-addressable; records inside a group are addressed with the
// array form "beneficialOwners[2].fullName". Path indices are 0-based; only
// the document type suffixes derived from them are 1-based.
package stepdata

import (
	"fmt"
	"strconv"
	"strings"
)

// Values is the mutable form state of a single step.
type Values struct {
	Fields map[string]any
	Groups map[string][]map[string]any
}

// New returns an empty Values with both maps initialised.
func New() Values {
	return Values{
		Fields: make(map[string]any),
		Groups: make(map[string][]map[string]any),
	}
}

// Clone deep-copies the values so snapshots and live state never alias.
func (v Values) Clone() Values {
	out := New()
	for key, value := range v.Fields {
		out.Fields[key] = value
	}
	for name, records := range v.Groups {
		cloned := make([]map[string]any, len(records))
		for i, record := range records {
			copied := make(map[string]any, len(record))
			for key, value := range record {
				copied[key] = value
			}
			cloned[i] = copied
		}
		out.Groups[name] = cloned
	}
	return out
}

// Get resolves a path, including the group[i].field array form.
func (v Values) Get(path string) (any, bool) {
	group, index, field, ok := SplitPath(path)
	if !ok {
		value, found := v.Fields[path]
		return value, found
	}
	records := v.Groups[group]
	if index < 0 || index >= len(records) {
		return nil, false
	}
	value, found := records[index][field]
	return value, found
}

// Set writes a value at a path, growing group record slices as needed.
func (v *Values) Set(path string, value any) {
	if v.Fields == nil {
		v.Fields = make(map[string]any)
	}
	if v.Groups == nil {
		v.Groups = make(map[string][]map[string]any)
	}

	group, index, field, ok := SplitPath(path)
	if !ok {
		v.Fields[path] = value
		return
	}
	records := v.Groups[group]
	for len(records) <= index {
		records = append(records, make(map[string]any))
	}
	if records[index] == nil {
		records[index] = make(map[string]any)
	}
	records[index][field] = value
	v.Groups[group] = records
}

// RecordCount returns the number of records in a group.
func (v Values) RecordCount(group string) int {
	return len(v.Groups[group])
}

// Flatten produces a single map keyed by absolute path, suitable for the
// predicate evaluator and for field-by-field reconciliation.
func (v Values) Flatten() map[string]any {
	out := make(map[string]any, len(v.Fields))
	for key, value := range v.Fields {
		out[key] = value
	}
	for name, records := range v.Groups {
		for i, record := range records {
			for key, value := range record {
				out[GroupPath(name, i, key)] = value
			}
		}
	}
	return out
}

// GroupPath builds the absolute path of a record field.
func GroupPath(group string, index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", group, index, field)
}

// SplitPath decomposes a group[i].field path. ok is false for plain paths.
func SplitPath(path string) (group string, index int, field string, ok bool) {
	open := strings.IndexByte(path, '[')
	if open <= 0 {
		return "", 0, "", false
	}
	close := strings.IndexByte(path[open:], ']')
	if close < 0 {
		return "", 0, "", false
	}
	close += open

	idx, err := strconv.Atoi(path[open+1 : close])
	if err != nil || idx < 0 {
		return "", 0, "", false
	}
	rest := path[close+1:]
	if !strings.HasPrefix(rest, ".") || len(rest) < 2 {
		return "", 0, "", false
	}
	return path[:open], idx, rest[1:], true
}
