package manager

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/results"
	"github.com/roach88/rdfkit/internal/sparql"
)

// Query runs queryText against the native model of s. Cells are compacted
// with the query's PREFIX declarations.
func (m *Manager) Query(ctx context.Context, s graph.Store, queryText string) (table *results.Table, err error) {
	model, err := native(s, msgNativeOnly)
	if err != nil {
		return nil, err
	}
	q, err := parseQuery(queryText)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	exec, err := m.engine.Execute(ctx, model, q.Select)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if cerr := exec.Close(); cerr != nil && err == nil {
			table, err = nil, fmt.Errorf("close execution: %w", cerr)
		}
	}()

	table, err = results.Convert(exec, q.Prefixes)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("query executed",
		"rows", table.RowCount(),
		"columns", table.ColumnCount(),
		"elapsed", time.Since(start),
	)
	return table, nil
}

// Size returns the number of asserted triples in s.
func (m *Manager) Size(ctx context.Context, s graph.Store) (int64, error) {
	model, err := native(s, msgNativeOnly)
	if err != nil {
		return 0, err
	}
	n, err := model.Size(ctx)
	if err != nil {
		return 0, graph.NewError(graph.ErrCodeIO, "could not count triples", err)
	}
	return n, nil
}

// QueryRemote sends queryText to the SPARQL endpoint at endpointURL. The
// connect timeout is passed to the service as its timeout parameter.
func (m *Manager) QueryRemote(ctx context.Context, endpointURL, queryText string) (*results.Table, error) {
	q, err := parseQuery(queryText)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := m.remote.Select(ctx, endpointURL, queryText)
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	doc, err := results.Parse(resp.Body, resp.ContentType)
	if err != nil {
		if code := graph.CodeOf(err); code != "" {
			return nil, err
		}
		return nil, graph.NewError(graph.ErrCodeMalformedInput, "could not read query results", err)
	}
	table, err := results.Convert(doc.Iter(), q.Prefixes)
	if err != nil {
		return nil, err
	}
	m.logger.Debug("remote query executed",
		"endpoint", endpointURL,
		"rows", table.RowCount(),
		"elapsed", time.Since(start),
	)
	return table, nil
}

// QueryEndpoint runs queryText against the endpoint named by s.
func (m *Manager) QueryEndpoint(ctx context.Context, s *graph.EndpointStore, queryText string) (*results.Table, error) {
	return m.QueryRemote(ctx, s.URL(), queryText)
}

// ParseResultDocument converts a SPARQL results document (XML or JSON)
// into a table. When originalQuery parses, its PREFIX declarations
// compact the cells; otherwise cells are left in full.
func (m *Manager) ParseResultDocument(data []byte, originalQuery string) (*results.Table, error) {
	doc, err := results.ParseBytes(data)
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeMalformedInput, "could not read query results", err)
	}
	prefixes := sparql.ExtractPrefixes(originalQuery)
	if !prefixes.Parsed && originalQuery != "" {
		m.logger.Debug("query text did not parse, results are not compacted")
	}
	return results.Convert(doc.Iter(), prefixes.Mapping)
}

func parseQuery(text string) (*sparql.Query, error) {
	q, err := sparql.Parse(text)
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeMalformedQuery, err.Error(), err)
	}
	return q, nil
}
