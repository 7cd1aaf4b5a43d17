package listable

import (
	"strconv"

	"ListableAPI/internal/resource"
)

// AliasedJoin is a join spec together with its SQL alias.
type AliasedJoin struct {
	Alias string
	Spec  resource.JoinSpec
}

// JoinAlias returns the alias of the join at index.
func JoinAlias(prefix string, index int, table string) string {
	return prefix + strconv.Itoa(index) + "_" + table
}

// AssignAliases names every join "<prefix><index>_<table>" in declaration
// order. The index keeps aliases unique when a table is joined twice.
func AssignAliases(prefix string, joins []resource.JoinSpec) []AliasedJoin {
	out := make([]AliasedJoin, len(joins))
	for i, j := range joins {
		out[i] = AliasedJoin{Alias: JoinAlias(prefix, i, j.Table), Spec: j}
	}
	return out
}
