// Package querysql compiles triple patterns to parameterized SQL over the
// triples table of internal/store.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfkit/internal/queryir"
)

// Columns are the triples table columns every compiled query selects, in
// scan order.
var Columns = []string{
	"s_kind", "s_value",
	"p_value",
	"o_kind", "o_value", "o_lang", "o_datatype",
}

// positionKeys maps a pattern position to its identity key column.
var positionKeys = [3]string{"s_key", "p_key", "o_key"}

// SQLCompiler compiles triple patterns to parameterized SQL for SQLite.
//
// CRITICAL: ALL queries include ORDER BY seq so matches come back in
// insertion order.
// CRITICAL: All term values are parameterized (never interpolated).
type SQLCompiler struct {
	// Table is the triples table name.
	Table string
}

// NewSQLCompiler creates a new SQLCompiler for the default table.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{Table: "triples"}
}

// Compile converts a triple pattern to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// Bound positions become key equality tests. A variable used in more than
// one position becomes a column equality test, so ?x <p> ?x only matches
// triples whose subject and object are the same term.
func (c *SQLCompiler) Compile(tp queryir.TriplePattern) (string, []any, error) {
	var where []string
	var params []any
	firstUse := make(map[string]string)

	for i, n := range tp.Nodes() {
		col := positionKeys[i]
		switch {
		case n.IsVar():
			if prev, ok := firstUse[n.Var]; ok {
				where = append(where, fmt.Sprintf("%s = %s", col, prev))
				continue
			}
			firstUse[n.Var] = col
		case n.Term != nil:
			where = append(where, col+" = ?")
			params = append(params, n.Term.String())
		default:
			return "", nil, fmt.Errorf("pattern position %d is neither variable nor term", i)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(c.Table)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(c.stableOrderKey())

	return b.String(), params, nil
}

// stableOrderKey returns the ORDER BY clause body.
// Uses COLLATE BINARY for deterministic text ordering on ties.
func (c *SQLCompiler) stableOrderKey() string {
	return "seq ASC, id COLLATE BINARY ASC"
}

// CompileCount returns the SQL counting all asserted triples.
func (c *SQLCompiler) CompileCount() string {
	return "SELECT COUNT(*) FROM " + c.Table
}
