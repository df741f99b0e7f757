package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfkit/internal/codec"
	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/manager"
	"github.com/roach88/rdfkit/internal/objstore"
)

// StoreOptions selects the store a command works on: a persistent store
// directory, or an ephemeral store loaded from data sources.
type StoreOptions struct {
	Dir        string
	Data       []string
	DataSyntax string
	Ontology   bool
}

func addStoreFlags(cmd *cobra.Command, o *StoreOptions) {
	cmd.Flags().StringVar(&o.Dir, "store", "", "persistent store directory (default: in-memory store)")
	cmd.Flags().StringArrayVar(&o.Data, "data", nil, "file, URL or s3:// object to load first (repeatable)")
	cmd.Flags().StringVar(&o.DataSyntax, "data-syntax", "", "syntax of --data files (RDF/XML, N-TRIPLE, TURTLE, N3)")
	cmd.Flags().BoolVar(&o.Ontology, "ontology", false, "answer queries over RDFS entailments (in-memory store only)")
}

// openStore creates the selected store and loads --data into it. The
// returned func releases the store.
func openStore(ctx context.Context, m *manager.Manager, o *StoreOptions) (graph.Store, func(), error) {
	var (
		st      graph.Store
		release = func() {}
	)
	if o.Dir != "" {
		if o.Ontology {
			return nil, nil, NewExitError(ExitCommandError, "--ontology applies to in-memory stores only")
		}
		ps, err := m.CreatePersistentStore(ctx, o.Dir)
		if err != nil {
			return nil, nil, err
		}
		st = ps
		release = func() { ps.Close() }
	} else {
		st = m.CreateEphemeralStore(ctx, o.Ontology)
	}

	for _, src := range o.Data {
		if _, err := importSource(ctx, m, st, src, o.DataSyntax, nil); err != nil {
			release()
			return nil, nil, err
		}
	}
	return st, release, nil
}

// importSource imports from an s3:// object, an http(s) URL or a local
// file. URL documents are always RDF/XML.
func importSource(ctx context.Context, m *manager.Manager, s graph.Store, src, syntax string, headers map[string]string) (codec.ImportResult, error) {
	switch {
	case objstore.IsLocation(src):
		return m.ImportFromObject(ctx, s, src, syntax)
	case isURL(src):
		return m.ImportURLWithHeaders(ctx, s, src, headers)
	default:
		return m.ImportFromFile(ctx, s, src, syntax)
	}
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// parseHeaders turns "Name: value" flags into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: want \"Name: value\"", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
