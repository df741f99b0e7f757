package results

import (
	"fmt"

	"github.com/roach88/rdfkit/internal/rdf"
)

// Solutions is a forward-only sequence of query solutions.
// Implemented by engine.Execution and DocumentSolutions.
type Solutions interface {
	// Vars returns the column names in order.
	Vars() []string
	// Next advances to the next solution.
	Next() bool
	// Solution returns the current solution. Unbound variables are absent.
	Solution() map[string]rdf.Term
	// Err returns the error that stopped iteration, if any.
	Err() error
}

// Convert drains src into a Table, compacting IRIs with prefixes.
// Rows keep solution order and columns keep Vars order.
func Convert(src Solutions, prefixes rdf.PrefixMapping) (*Table, error) {
	vars := src.Vars()
	table := &Table{
		Columns: append([]string(nil), vars...),
		Rows:    [][]string{},
	}
	for src.Next() {
		sol := src.Solution()
		row := make([]string, len(vars))
		for i, v := range vars {
			row[i] = Cell(sol[v], prefixes)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := src.Err(); err != nil {
		return nil, fmt.Errorf("read solutions: %w", err)
	}
	return table, nil
}

// Cell renders one bound value. A nil term renders as "".
func Cell(t rdf.Term, prefixes rdf.PrefixMapping) string {
	switch v := t.(type) {
	case nil:
		return ""
	case rdf.IRI:
		return prefixes.Compact(string(v))
	case rdf.Blank:
		return v.String()
	case rdf.Literal:
		return v.Lexical
	default:
		return t.Value()
	}
}
