package store

import (
	"context"
	"fmt"

	"github.com/roach88/rdfkit/internal/rdf"
)

// Add implements graph.Model.
//
// Each call runs in one transaction: either the whole batch is committed
// or none of it is. Batches committed by earlier calls are unaffected by a
// later failure. Duplicate triples are silently ignored.
func (s *Store) Add(ctx context.Context, triples []rdf.Triple) (int, error) {
	if len(triples) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add triples: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO triples
		(id, s_key, p_key, o_key, s_kind, s_value, p_value, o_kind, o_value, o_lang, o_datatype)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("add triples: prepare: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, t := range triples {
		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("add triples: %w", err)
		}
		sKind, sValue, _, _ := termColumns(t.S)
		oKind, oValue, oLang, oDatatype := termColumns(t.O)

		res, err := stmt.ExecContext(ctx,
			rdf.TripleID(t),
			t.S.String(),
			t.P.String(),
			t.O.String(),
			sKind,
			sValue,
			string(t.P),
			oKind,
			oValue,
			oLang,
			oDatatype,
		)
		if err != nil {
			return 0, fmt.Errorf("add triples: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("add triples: rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add triples: commit: %w", err)
	}
	return added, nil
}

// AddNamespaces implements graph.Model. Later declarations replace earlier
// ones for the same prefix.
func (s *Store) AddNamespaces(ctx context.Context, ns rdf.PrefixMapping) error {
	for _, prefix := range ns.Prefixes() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO namespaces (prefix, namespace) VALUES (?, ?)
			ON CONFLICT(prefix) DO UPDATE SET namespace = excluded.namespace
		`, prefix, ns[prefix])
		if err != nil {
			return fmt.Errorf("add namespace %q: %w", prefix, err)
		}
	}
	return nil
}
