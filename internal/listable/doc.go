// Package listable builds and runs paged list queries for a resource
// descriptor: a data page, the unfiltered total and the total matching the
// free-text search term.
//
// Joined tables are aliased "<prefix><index>_<table>" in declaration order,
// so the same table can be joined more than once. The search term is matched
// case-insensitively as a literal substring against every searchable column
// of the primary table and of each join, OR-ed inside a single group.
//
// The package does no logging and never wraps store errors; callers get
// exactly what the driver returned.
package listable
