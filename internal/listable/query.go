package listable

import (
	"fmt"

	"ListableAPI/internal/resource"

	"github.com/Masterminds/squirrel"
)

// ArgumentsFunc layers resource-specific predicates, ordering or grouping
// onto an assembled query. extra is whatever the caller passed to GetList.
type ArgumentsFunc func(sb squirrel.SelectBuilder, extra any) (squirrel.SelectBuilder, error)

// NoArguments leaves the query untouched.
func NoArguments(sb squirrel.SelectBuilder, _ any) (squirrel.SelectBuilder, error) {
	return sb, nil
}

// SelectColumns returns "table.*" followed by "alias.column AS as" for every
// join select, in declaration order.
func SelectColumns(d *resource.Descriptor, joins []AliasedJoin) []string {
	cols := []string{d.Table + ".*"}
	for _, j := range joins {
		for _, sel := range j.Spec.Select {
			cols = append(cols, fmt.Sprintf("%s.%s AS %s", j.Alias, sel.Column, sel.As))
		}
	}
	return cols
}

// Build assembles the list query for d. With includeConditions the search
// term is applied as one OR group; an empty term applies no search at all.
// The returned builder has no LIMIT/OFFSET.
func Build(d *resource.Descriptor, dialect Dialect, term string, includeConditions bool, hook ArgumentsFunc, extra any) (squirrel.SelectBuilder, error) {
	joins := AssignAliases(d.JoinAliasPrefix, d.Joins)
	return assemble(d, dialect, joins, SelectColumns(d, joins), term, includeConditions, hook, extra)
}

// CountQuery wraps the assembled query as SELECT COUNT(*) FROM (...).
// The inner query selects only the primary key, so grouping added by the
// hook still counts one row per group.
func CountQuery(d *resource.Descriptor, dialect Dialect, term string, includeConditions bool, hook ArgumentsFunc, extra any) (squirrel.SelectBuilder, error) {
	joins := AssignAliases(d.JoinAliasPrefix, d.Joins)
	inner, err := assemble(d, dialect, joins, []string{d.Table + "." + d.PrimaryKey}, term, includeConditions, hook, extra)
	if err != nil {
		return inner, err
	}
	return dialect.builder().Select("COUNT(*)").FromSelect(inner, "counted"), nil
}

// PageQuery is Build plus LIMIT/OFFSET. The bounds are bound as parameters
// unchecked, so a negative value is reported by the store.
func PageQuery(d *resource.Descriptor, dialect Dialect, term string, offset, limit int, hook ArgumentsFunc, extra any) (squirrel.SelectBuilder, error) {
	sb, err := Build(d, dialect, term, true, hook, extra)
	if err != nil {
		return sb, err
	}
	return sb.Suffix("LIMIT ? OFFSET ?", limit, offset), nil
}

func assemble(
	d *resource.Descriptor,
	dialect Dialect,
	joins []AliasedJoin,
	columns []string,
	term string,
	includeConditions bool,
	hook ArgumentsFunc,
	extra any,
) (squirrel.SelectBuilder, error) {
	// 1. SELECT / FROM
	sb := dialect.builder().Select(columns...).From(d.Table)

	// 2. JOIN
	for _, j := range joins {
		sb = applyJoin(sb, d.Table, j)
	}

	// 3. search: one OR group over every column
	if includeConditions && term != "" {
		search := BuildSearchMap(d.Table, d.SearchColumns(), joins, term)
		sb = sb.Where(search.Clause(dialect))
	}

	// soft delete applies to every pass, like the ORM it replaces
	if d.DeletedField != "" {
		sb = sb.Where(squirrel.Eq{d.Table + "." + d.DeletedField: nil})
	}

	// 4. extension hook
	if hook == nil {
		return sb, nil
	}
	return hook(sb, extra)
}

func applyJoin(sb squirrel.SelectBuilder, table string, j AliasedJoin) squirrel.SelectBuilder {
	clause := fmt.Sprintf("%s AS %s ON %s.%s = %s.%s",
		j.Spec.Table, j.Alias, j.Alias, j.Spec.PrimaryKey, table, j.Spec.Condition)
	switch j.Spec.Direction {
	case resource.DirectionLeft:
		return sb.LeftJoin(clause)
	case resource.DirectionRight:
		return sb.RightJoin(clause)
	case resource.DirectionFull:
		return sb.JoinClause("FULL JOIN " + clause)
	default:
		return sb.Join(clause)
	}
}
