package manager

import (
	"context"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/store"
)

// CreateEphemeralStore returns an empty in-memory store. When
// ontologyAware is set, queries see RDFS entailments.
func (m *Manager) CreateEphemeralStore(ctx context.Context, ontologyAware bool) *graph.EphemeralStore {
	s := graph.NewEphemeralStore(ontologyAware)
	if len(m.prefixes) > 0 {
		model, _ := s.Native()
		// In-memory namespace updates cannot fail.
		_ = model.AddNamespaces(ctx, m.prefixes)
	}
	m.logger.Debug("store created", "kind", s.Kind(), "ontology_aware", ontologyAware)
	return s
}

// CreatePersistentStore opens or creates the store in dir. Relative paths
// resolve against the manager root. The caller closes the store.
func (m *Manager) CreatePersistentStore(ctx context.Context, dir string) (*graph.PersistentStore, error) {
	path := m.resolve(dir)
	st, err := store.OpenDir(path)
	if err != nil {
		return nil, graph.NewError(graph.ErrCodeIO, "could not open store at "+path, err)
	}
	if len(m.prefixes) > 0 {
		if err := st.AddNamespaces(ctx, m.prefixes); err != nil {
			_ = st.Close()
			return nil, graph.NewError(graph.ErrCodeIO, "could not store namespaces", err)
		}
	}
	m.logger.Debug("store opened", "kind", graph.KindPersistent, "path", path)
	return graph.NewPersistentStore(path, st), nil
}

// CreateEndpointStore returns a store handle naming a remote endpoint. It
// has no native model; query it with QueryEndpoint.
func (m *Manager) CreateEndpointStore(url string) *graph.EndpointStore {
	return graph.NewEndpointStore(url)
}
