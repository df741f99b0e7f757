package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/rdf"
)

func TestAdd_SetSemantics(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	n, err := s.Add(ctx, []rdf.Triple{iri("a", "b", "c"), iri("a", "b", "c"), iri("x", "y", "z")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Add(ctx, []rdf.Triple{iri("a", "b", "c")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestAdd_EmptyBatch(t *testing.T) {
	n, err := createTestStore(t).Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdd_InvalidTripleRollsBackBatch(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.Add(ctx, []rdf.Triple{iri("keep", "b", "c")})
	require.NoError(t, err)

	bad := rdf.Triple{S: rdf.NewLiteral("lit"), P: "http://example.org/p", O: rdf.IRI("http://example.org/o")}
	_, err = s.Add(ctx, []rdf.Triple{iri("lost", "b", "c"), bad})
	require.Error(t, err)

	size, err := s.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size, "earlier batches stay, the failed batch is rolled back")
}

func TestAddNamespaces_LaterWins(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.AddNamespaces(ctx, rdf.PrefixMapping{"ex": "http://one/", "a": "http://a/"}))
	require.NoError(t, s.AddNamespaces(ctx, rdf.PrefixMapping{"ex": "http://two/"}))

	ns, err := s.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, rdf.PrefixMapping{"ex": "http://two/", "a": "http://a/"}, ns)
}
