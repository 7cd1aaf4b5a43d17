package listable

import (
	"sort"

	"github.com/Masterminds/squirrel"
)

// SearchMap maps a qualified column ("table.col" or "alias.col") to the
// term searched in it. All entries are OR-ed.
type SearchMap map[string]string

// BuildSearchMap collects the primary table's searchable columns and every
// join's like columns under their qualified names.
func BuildSearchMap(table string, columns []string, joins []AliasedJoin, term string) SearchMap {
	m := make(SearchMap, len(columns))
	for _, c := range columns {
		m[table+"."+c] = term
	}
	for _, j := range joins {
		for _, c := range j.Spec.Like {
			m[j.Alias+"."+c] = term
		}
	}
	return m
}

// Columns returns the qualified columns in sorted order.
func (m SearchMap) Columns() []string {
	cols := make([]string, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Clause renders m as one OR group of case-insensitive contains predicates.
// An empty map renders as a false condition.
func (m SearchMap) Clause(d Dialect) squirrel.Sqlizer {
	or := make(squirrel.Or, 0, len(m))
	for _, c := range m.Columns() {
		or = append(or, d.Contains(c, m[c]))
	}
	return or
}
