package listable

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"ListableAPI/internal/resource"

	"github.com/Masterminds/squirrel"
)

// ErrInvalidArgument marks extra arguments the hook refused.
var ErrInvalidArgument = errors.New("invalid list argument")

// Arguments is the extra argument understood by DeclarativeArguments.
type Arguments struct {
	// Filters uses "column__op" keys; a bare column means eq.
	Filters map[string]any `json:"filters"`
	// Sorts are "column [ASC|DESC]" on row keys.
	Sorts []string `json:"sorts"`
}

// DeclarativeArguments returns a hook that applies Arguments using the
// descriptor's filter allow-list and default order.
func DeclarativeArguments(d *resource.Descriptor, dialect Dialect) ArgumentsFunc {
	joins := AssignAliases(d.JoinAliasPrefix, d.Joins)
	return func(sb squirrel.SelectBuilder, extra any) (squirrel.SelectBuilder, error) {
		var args Arguments
		switch v := extra.(type) {
		case nil:
		case Arguments:
			args = v
		case *Arguments:
			if v != nil {
				args = *v
			}
		default:
			return sb, fmt.Errorf("%w: unsupported argument type %T", ErrInvalidArgument, extra)
		}

		where, err := buildFilterClause(d, dialect, args.Filters)
		if err != nil {
			return sb, err
		}
		if where != nil {
			sb = sb.Where(where)
		}

		sorts := args.Sorts
		if len(sorts) == 0 {
			sorts = d.Order
		}
		for _, s := range sorts {
			expr, err := orderExpr(d, joins, s)
			if err != nil {
				return sb, err
			}
			sb = sb.OrderBy(expr)
		}
		return sb, nil
	}
}

// orderExpr qualifies a sort key so it is valid inside count subqueries,
// where output aliases are not selected.
func orderExpr(d *resource.Descriptor, joins []AliasedJoin, s string) (string, error) {
	name, dir, err := resource.ParseSort(s)
	if err != nil {
		return "", fmt.Errorf("%w: sort %q: %v", ErrInvalidArgument, s, err)
	}
	join, column, ok := d.OutputColumn(name)
	if !ok {
		return "", fmt.Errorf("%w: unknown sort column %q", ErrInvalidArgument, name)
	}
	expr := d.Table + "." + column
	if join >= 0 {
		expr = joins[join].Alias + "." + column
	}
	if dir != "" {
		expr += " " + dir
	}
	return expr, nil
}

func buildFilterClause(d *resource.Descriptor, dialect Dialect, filters map[string]any) (squirrel.Sqlizer, error) {
	if len(filters) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exprs := make(squirrel.And, 0, len(keys))
	for _, key := range keys {
		val := filters[key]
		field, op := key, "eq"
		// split the key into column and operator
		if parts := strings.SplitN(key, "__", 2); len(parts) == 2 {
			field, op = parts[0], parts[1]
		}
		if !d.HasFilter(field) {
			return nil, fmt.Errorf("%w: column %q is not filterable", ErrInvalidArgument, field)
		}
		cond, err := filterCond(dialect, d.Table+"."+field, op, val)
		if err != nil {
			return nil, fmt.Errorf("%w: filter %q: %v", ErrInvalidArgument, key, err)
		}
		exprs = append(exprs, cond)
	}
	return exprs, nil
}

func filterCond(dialect Dialect, column, op string, val any) (squirrel.Sqlizer, error) {
	switch op {
	case "eq", "in", "lt", "lte", "gt", "gte":
		v, err := filterValue(op, val)
		if err != nil {
			return nil, err
		}
		return compare(column, op, v), nil
	case "start", "end", "cnt":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("operator %s needs a string, got %T", op, val)
		}
		switch op {
		case "start":
			return dialect.Match(column, EscapeLike(s)+"%"), nil
		case "end":
			return dialect.Match(column, "%"+EscapeLike(s)), nil
		}
		return dialect.Contains(column, s), nil
	case "null":
		isNull, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("operator null needs a bool, got %T", val)
		}
		if isNull {
			return squirrel.Eq{column: nil}, nil
		}
		return squirrel.NotEq{column: nil}, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func compare(column, op string, v any) squirrel.Sqlizer {
	switch op {
	case "lt":
		return squirrel.Lt{column: v}
	case "lte":
		return squirrel.LtOrEq{column: v}
	case "gt":
		return squirrel.Gt{column: v}
	case "gte":
		return squirrel.GtOrEq{column: v}
	}
	// squirrel.Eq renders IN for slices and IS NULL for nil
	return squirrel.Eq{column: v}
}

// filterValue checks the shape of a comparison value. Lists are only
// allowed for eq/in, nil only for eq/in, and numbers must be integral.
func filterValue(op string, val any) (any, error) {
	list := op == "eq" || op == "in"
	rv := reflect.ValueOf(val)
	if val != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if !list {
			return nil, fmt.Errorf("operator %s needs a single value, got a list", op)
		}
		out := make([]any, rv.Len())
		for i := range out {
			v, err := scalarValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("list item %d: %w", i, err)
			}
			if v == nil {
				return nil, fmt.Errorf("list item %d: null is not allowed", i)
			}
			out[i] = v
		}
		return out, nil
	}
	v, err := scalarValue(val)
	if err != nil {
		return nil, err
	}
	if v == nil && !list {
		return nil, fmt.Errorf("operator %s needs a value, got null", op)
	}
	return v, nil
}

// scalarValue accepts null, strings, bools and integers. JSON numbers
// come in as float64 or json.Number and are narrowed to int64; drivers
// would otherwise truncate fractions against integer columns.
func scalarValue(val any) (any, error) {
	switch v := val.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint8, uint16, uint32:
		return v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("number %v is not an integer", v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("number %s is not an integer", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", val)
}
