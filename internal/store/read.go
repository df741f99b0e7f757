package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/queryir"
	"github.com/roach88/rdfkit/internal/querysql"
	"github.com/roach88/rdfkit/internal/rdf"
)

// Begin implements graph.Model. The returned Reader holds a transaction
// (and therefore the only pooled connection) until it is closed.
func (s *Store) Begin(ctx context.Context) (graph.Reader, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin read: %w", err)
	}
	return &txReader{tx: tx, compiler: s.compiler}, nil
}

// Namespaces implements graph.Model.
// Returns an empty mapping (not nil) if no declarations were recorded.
func (s *Store) Namespaces(ctx context.Context) (rdf.PrefixMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT prefix, namespace FROM namespaces
		ORDER BY prefix COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query namespaces: %w", err)
	}
	defer rows.Close()

	ns := rdf.PrefixMapping{}
	for rows.Next() {
		var prefix, namespace string
		if err := rows.Scan(&prefix, &namespace); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		ns[prefix] = namespace
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate namespaces: %w", err)
	}
	return ns, nil
}

type txReader struct {
	tx       *sql.Tx
	compiler *querysql.SQLCompiler
	closed   bool
}

// Match materializes all matches before returning so that no cursor stays
// open on the single connection between calls.
func (r *txReader) Match(ctx context.Context, s, p, o rdf.Term) ([]rdf.Triple, error) {
	if r.closed {
		return nil, graph.ErrReaderClosed
	}

	sqlStr, params, err := r.compiler.Compile(queryir.TriplePattern{
		S: node("s", s),
		P: node("p", p),
		O: node("o", o),
	})
	if err != nil {
		return nil, fmt.Errorf("compile match: %w", err)
	}

	rows, err := r.tx.QueryContext(ctx, sqlStr, params...)
	if err != nil {
		return nil, fmt.Errorf("query triples: %w", err)
	}
	defer rows.Close()

	var out []rdf.Triple
	for rows.Next() {
		t, err := scanTriple(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate triples: %w", err)
	}
	return out, nil
}

// Close rolls back the read transaction. Safe to call more than once.
func (r *txReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.tx.Rollback()
}

func node(name string, t rdf.Term) queryir.Node {
	if t == nil {
		return queryir.Variable(name)
	}
	return queryir.Bound(t)
}

func scanTriple(rows *sql.Rows) (rdf.Triple, error) {
	var (
		sKind, oKind             int
		sValue, pValue           string
		oValue, oLang, oDatatype string
	)
	if err := rows.Scan(&sKind, &sValue, &pValue, &oKind, &oValue, &oLang, &oDatatype); err != nil {
		return rdf.Triple{}, fmt.Errorf("scan triple: %w", err)
	}
	subj, err := termFromColumns(sKind, sValue, "", "")
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("scan triple subject: %w", err)
	}
	obj, err := termFromColumns(oKind, oValue, oLang, oDatatype)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("scan triple object: %w", err)
	}
	return rdf.Triple{S: subj, P: rdf.IRI(pValue), O: obj}, nil
}
