package resource

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrMissingSelectAlias = errors.New("select expression has no output alias")
	ErrInvalidIdentifier  = errors.New("invalid SQL identifier")
	ErrUnknownDirection   = errors.New("unknown join direction")
	ErrDuplicateAlias     = errors.New("duplicate output column")
	ErrDuplicateColumn    = errors.New("duplicate searchable column")
	ErrInvalidOrder       = errors.New("invalid order expression")
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be spliced into SQL unquoted.
func IsIdentifier(s string) bool {
	return identRe.MatchString(s)
}

// ParseSort splits "column [ASC|DESC]" into its parts. dir is "" or an
// upper-cased ASC/DESC.
func ParseSort(expr string) (column, dir string, err error) {
	parts := strings.Fields(expr)
	if len(parts) == 0 || len(parts) > 2 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidOrder, expr)
	}
	if !IsIdentifier(parts[0]) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, parts[0])
	}
	if len(parts) == 2 {
		dir = strings.ToUpper(parts[1])
		if dir != "ASC" && dir != "DESC" {
			return "", "", fmt.Errorf("%w: direction %q", ErrInvalidOrder, parts[1])
		}
	}
	return parts[0], dir, nil
}

// New applies defaults to d, validates it and returns the frozen copy.
func New(d Descriptor) (*Descriptor, error) {
	d.normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) normalize() {
	d.Table = strings.TrimSpace(d.Table)
	if strings.TrimSpace(d.PrimaryKey) == "" {
		d.PrimaryKey = DefaultPrimaryKey
	}
	if strings.TrimSpace(d.JoinAliasPrefix) == "" {
		d.JoinAliasPrefix = DefaultJoinAliasPrefix
	}
	if len(d.SearchableColumns) == 0 && len(d.AllowedFields) > 0 {
		d.SearchableColumns = append([]string(nil), d.AllowedFields...)
	}
	for i := range d.Joins {
		j := &d.Joins[i]
		j.Direction = Direction(strings.ToLower(strings.TrimSpace(string(j.Direction))))
		if j.PrimaryKey == "" {
			j.PrimaryKey = DefaultPrimaryKey
		}
	}
}

// Validate checks identifiers, aliases and directions of d.
func (d *Descriptor) Validate() error {
	check := func(field, value string) error {
		if !IsIdentifier(value) {
			return fmt.Errorf("%s %q: %w", field, value, ErrInvalidIdentifier)
		}
		return nil
	}

	if err := check("table", d.Table); err != nil {
		return err
	}
	if err := check("primary_key", d.PrimaryKey); err != nil {
		return err
	}
	if err := check("join_alias_prefix", d.JoinAliasPrefix); err != nil {
		return err
	}
	if d.DeletedField != "" {
		if err := check("deleted_field", d.DeletedField); err != nil {
			return err
		}
	}
	for _, c := range d.AllowedFields {
		if err := check("allowed_fields", c); err != nil {
			return err
		}
	}
	if err := checkColumns("searchable_columns", d.SearchableColumns); err != nil {
		return err
	}
	for _, c := range d.Filters {
		if err := check("filters", c); err != nil {
			return err
		}
	}

	outputs := map[string]string{d.PrimaryKey: "primary_key"}
	for _, c := range d.AllowedFields {
		outputs[c] = "allowed_fields"
	}
	for i, j := range d.Joins {
		where := fmt.Sprintf("joins[%d]", i)
		if err := check(where+".table", j.Table); err != nil {
			return err
		}
		if err := check(where+".primary_key", j.PrimaryKey); err != nil {
			return err
		}
		if err := check(where+".condition", j.Condition); err != nil {
			return err
		}
		switch j.Direction {
		case "", DirectionInner, DirectionLeft, DirectionRight, DirectionFull:
		default:
			return fmt.Errorf("%s.direction %q: %w", where, j.Direction, ErrUnknownDirection)
		}
		for k, sel := range j.Select {
			at := fmt.Sprintf("%s.select[%d]", where, k)
			if err := check(at+".column", sel.Column); err != nil {
				return err
			}
			if sel.As == "" {
				return fmt.Errorf("%s %q: %w", at, sel.Column, ErrMissingSelectAlias)
			}
			if err := check(at+".as", sel.As); err != nil {
				return err
			}
			if prev, dup := outputs[sel.As]; dup {
				return fmt.Errorf("%s %q already defined by %s: %w", at, sel.As, prev, ErrDuplicateAlias)
			}
			outputs[sel.As] = at
		}
		if err := checkColumns(where+".like", j.Like); err != nil {
			return err
		}
	}

	for _, o := range d.Order {
		col, _, err := ParseSort(o)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		if _, _, ok := d.OutputColumn(col); !ok {
			return fmt.Errorf("order %q: unknown column: %w", o, ErrInvalidOrder)
		}
	}
	return nil
}

func checkColumns(field string, cols []string) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if !IsIdentifier(c) {
			return fmt.Errorf("%s %q: %w", field, c, ErrInvalidIdentifier)
		}
		if seen[c] {
			return fmt.Errorf("%s %q: %w", field, c, ErrDuplicateColumn)
		}
		seen[c] = true
	}
	return nil
}
