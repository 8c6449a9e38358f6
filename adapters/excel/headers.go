package excel

import (
	"sort"
	"strings"
)

// HeaderMap binds 0-based column indexes to canonical fields. Unmapped
// columns are absent and their cells are ignored.
type HeaderMap map[int]FieldKey

// ResolveHeaders maps a header row onto the schema. A column binds to the
// first field, in schema order, having a label contained in the trimmed
// header text. When one label is a substring of another header's intended
// label the earlier field wins; that is accepted behaviour.
func ResolveHeaders(row []string) HeaderMap {
	m := make(HeaderMap)
	for col, raw := range row {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if key, ok := matchHeader(text); ok {
			m[col] = key
		}
	}
	return m
}

func matchHeader(text string) (FieldKey, bool) {
	for _, f := range schema {
		for _, label := range f.Labels {
			if strings.Contains(text, label) {
				return f.Key, true
			}
		}
	}
	return "", false
}

// Columns returns the mapped column indexes in ascending order
func (m HeaderMap) Columns() []int {
	cols := make([]int, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return cols
}

// Has reports whether any column is bound to key
func (m HeaderMap) Has(key FieldKey) bool {
	for _, k := range m {
		if k == key {
			return true
		}
	}
	return false
}
