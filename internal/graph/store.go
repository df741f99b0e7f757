package graph

import (
	"context"

	"github.com/roach88/rdfkit/internal/rdf"
)

// Kind identifies the GraphStore variant.
type Kind string

const (
	KindEphemeral  Kind = "ephemeral"
	KindPersistent Kind = "persistent"
	KindEndpoint   Kind = "endpoint"
)

// Entailment selects the inference regime a Model is queried under.
type Entailment int

const (
	// EntailNone answers queries over asserted triples only.
	EntailNone Entailment = iota
	// EntailRDFS answers queries over asserted triples plus RDFS entailments.
	EntailRDFS
)

// Store is a GraphStore.
type Store interface {
	// Kind reports the variant.
	Kind() Kind

	// Native returns the native graph model view, or ErrNoNativeModel.
	Native() (Model, error)
}

// Model is the native graph model view of a store.
type Model interface {
	// Add inserts triples with set semantics and returns how many were new.
	// Triples added before an error stay committed.
	Add(ctx context.Context, triples []rdf.Triple) (int, error)

	// Size returns the number of asserted triples.
	Size(ctx context.Context) (int64, error)

	// Begin acquires a read handle. The handle must be closed.
	Begin(ctx context.Context) (Reader, error)

	// Namespaces returns prefix declarations remembered from imports.
	Namespaces(ctx context.Context) (rdf.PrefixMapping, error)

	// AddNamespaces records prefix declarations. Later declarations win.
	AddNamespaces(ctx context.Context, ns rdf.PrefixMapping) error

	// Entailment reports the inference regime for queries.
	Entailment() Entailment
}

// Reader is a scoped read handle over a Model.
type Reader interface {
	// Match returns triples matching the pattern in insertion order.
	// A nil position is a wildcard.
	Match(ctx context.Context, s, p, o rdf.Term) ([]rdf.Triple, error)

	// Close releases the handle. It is safe to call more than once.
	Close() error
}

// EphemeralStore is a process-memory store.
type EphemeralStore struct {
	model *MemoryModel
}

// NewEphemeralStore creates an empty in-memory store. The ontology flag is
// fixed for the lifetime of the store.
func NewEphemeralStore(ontologyAware bool) *EphemeralStore {
	entail := EntailNone
	if ontologyAware {
		entail = EntailRDFS
	}
	return &EphemeralStore{model: NewMemoryModel(entail)}
}

// Kind implements Store.
func (s *EphemeralStore) Kind() Kind { return KindEphemeral }

// Native implements Store. A nil store has no model.
func (s *EphemeralStore) Native() (Model, error) {
	if s == nil || s.model == nil {
		return nil, ErrNoNativeModel
	}
	return s.model, nil
}

// OntologyAware reports whether queries see RDFS entailments.
func (s *EphemeralStore) OntologyAware() bool {
	return s != nil && s.model != nil && s.model.Entailment() == EntailRDFS
}

// ClosableModel is a Model that owns external resources.
type ClosableModel interface {
	Model
	Close() error
}

// PersistentStore is a store bound to a directory.
//
// rdfkit never closes a PersistentStore; the caller owns its disposal.
type PersistentStore struct {
	dir   string
	model ClosableModel
}

// NewPersistentStore wraps a durable model opened at dir.
func NewPersistentStore(dir string, model ClosableModel) *PersistentStore {
	return &PersistentStore{dir: dir, model: model}
}

// Kind implements Store.
func (s *PersistentStore) Kind() Kind { return KindPersistent }

// Native implements Store. A nil store, or one built without a model,
// has none.
func (s *PersistentStore) Native() (Model, error) {
	if s == nil || s.model == nil {
		return nil, ErrNoNativeModel
	}
	return s.model, nil
}

// Dir returns the directory the store is bound to.
func (s *PersistentStore) Dir() string { return s.dir }

// Close releases the backing storage.
func (s *PersistentStore) Close() error {
	if s == nil || s.model == nil {
		return nil
	}
	return s.model.Close()
}

// EndpointStore names a remote SPARQL endpoint. It has no native model:
// its content is only reachable through remote query execution.
type EndpointStore struct {
	url string
}

// NewEndpointStore creates a handle for the endpoint at url.
func NewEndpointStore(url string) *EndpointStore {
	return &EndpointStore{url: url}
}

// Kind implements Store.
func (s *EndpointStore) Kind() Kind { return KindEndpoint }

// Native implements Store. It always fails.
func (s *EndpointStore) Native() (Model, error) { return nil, ErrNoNativeModel }

// URL returns the endpoint URL.
func (s *EndpointStore) URL() string { return s.url }
