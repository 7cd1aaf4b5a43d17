package listable

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect captures the SQL differences between supported stores.
type Dialect struct {
	Name        string
	Placeholder squirrel.PlaceholderFormat
	// likeFormat renders a case-insensitive LIKE for a column expression.
	likeFormat string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: squirrel.Dollar,
		likeFormat:  "CAST(%s AS TEXT) ILIKE ?",
	}
	// SQLite LIKE is case-insensitive for ASCII and has no default escape.
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: squirrel.Question,
		likeFormat:  `CAST(%s AS TEXT) LIKE ? ESCAPE '\'`,
	}
)

// Match renders column LIKE pattern, ignoring case. pattern must already
// have its literal parts escaped with EscapeLike.
func (d Dialect) Match(column, pattern string) squirrel.Sqlizer {
	return squirrel.Expr(fmt.Sprintf(d.likeFormat, column), pattern)
}

// Contains matches column against term as a literal substring.
func (d Dialect) Contains(column, term string) squirrel.Sqlizer {
	return d.Match(column, "%"+EscapeLike(term)+"%")
}

func (d Dialect) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
