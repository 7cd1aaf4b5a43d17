package resource

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Direction is the SQL join kind of a JoinSpec.
type Direction string

const (
	DirectionInner Direction = "inner"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionFull  Direction = "full"
)

const (
	DefaultPrimaryKey      = "id"
	DefaultJoinAliasPrefix = "join"
)

// Descriptor is the static configuration of one listable resource.
// Descriptors are built once at startup and only read afterwards.
type Descriptor struct {
	Name              string     `yaml:"-"`
	Table             string     `yaml:"table"`
	PrimaryKey        string     `yaml:"primary_key"`
	AllowedFields     []string   `yaml:"allowed_fields"`
	SearchableColumns []string   `yaml:"searchable_columns"` // falls back to AllowedFields
	DeletedField      string     `yaml:"deleted_field"`      // soft-delete column, optional
	JoinAliasPrefix   string     `yaml:"join_alias_prefix"`
	Joins             []JoinSpec `yaml:"joins"`
	Filters           []string   `yaml:"filters"` // primary columns accepted as extra filters
	Order             []string   `yaml:"order"`   // default ordering, "column [ASC|DESC]"
}

// JoinSpec declares one related table joined into every list query.
type JoinSpec struct {
	Table      string       `yaml:"table"`
	PrimaryKey string       `yaml:"primary_key"` // join column of Table
	Condition  string       `yaml:"condition"`   // foreign key on the primary table
	Direction  Direction    `yaml:"direction"`
	Select     []SelectExpr `yaml:"select"`
	Like       []string     `yaml:"like"` // searchable columns of Table
}

// SelectExpr is one extra output column taken from a joined table.
// As is mandatory so joined columns never collide with the primary row.
type SelectExpr struct {
	Column string `yaml:"column"`
	As     string `yaml:"as"`
}

// UnmarshalYAML accepts both {column: name, as: item} and "name as item".
func (s *SelectExpr) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parts := strings.Fields(node.Value)
		switch {
		case len(parts) == 1:
			s.Column = parts[0]
		case len(parts) == 3 && strings.EqualFold(parts[1], "as"):
			s.Column, s.As = parts[0], parts[2]
		default:
			return fmt.Errorf("line %d: select expression %q must look like \"column as alias\"", node.Line, node.Value)
		}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Column string `yaml:"column"`
			As     string `yaml:"as"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		s.Column, s.As = strings.TrimSpace(raw.Column), strings.TrimSpace(raw.As)
		return nil
	default:
		return fmt.Errorf("line %d: select expression must be a string or a mapping", node.Line)
	}
}

// SearchColumns returns the primary-table columns used by free-text search.
func (d *Descriptor) SearchColumns() []string {
	if len(d.SearchableColumns) > 0 {
		return d.SearchableColumns
	}
	return d.AllowedFields
}

// OutputColumn resolves a row key to its source: a join's select alias
// (join >= 0, column of that join) or a primary-table column (join == -1).
func (d *Descriptor) OutputColumn(name string) (join int, column string, ok bool) {
	for i, j := range d.Joins {
		for _, sel := range j.Select {
			if sel.As == name {
				return i, sel.Column, true
			}
		}
	}
	if name != "" && (name == d.PrimaryKey || name == d.DeletedField || contains(d.AllowedFields, name)) {
		return -1, name, true
	}
	return 0, "", false
}

// HasFilter reports whether column may be used as a declarative filter.
func (d *Descriptor) HasFilter(column string) bool {
	return contains(d.Filters, column)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
