package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/rdf"
)

func tr(s, p, o string) rdf.Triple {
	return rdf.Triple{S: rdf.IRI(s), P: rdf.IRI(p), O: rdf.IRI(o)}
}

func TestMemoryModel_AddSetSemantics(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryModel(EntailNone)

	n, err := m.Add(ctx, []rdf.Triple{tr("s", "p", "o"), tr("s", "p", "o2")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.Add(ctx, []rdf.Triple{tr("s", "p", "o")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	size, err := m.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), size)
}

func TestMemoryModel_AddRejectsLiteralSubject(t *testing.T) {
	m := NewMemoryModel(EntailNone)
	bad := rdf.Triple{S: rdf.NewLiteral("x"), P: "p", O: rdf.IRI("o")}

	n, err := m.Add(context.Background(), []rdf.Triple{tr("a", "b", "c"), bad})
	require.Error(t, err)
	assert.Equal(t, 1, n, "triples before the failure stay committed")
}

func TestMemoryReader_Match(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryModel(EntailNone)
	_, err := m.Add(ctx, []rdf.Triple{
		tr("s1", "p", "o1"),
		tr("s2", "p", "o2"),
		tr("s1", "q", "o2"),
	})
	require.NoError(t, err)

	r, err := m.Begin(ctx)
	require.NoError(t, err)
	defer r.Close()

	all, err := r.Match(ctx, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, tr("s1", "p", "o1"), all[0])

	bySubject, err := r.Match(ctx, rdf.IRI("s1"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []rdf.Triple{tr("s1", "p", "o1"), tr("s1", "q", "o2")}, bySubject)

	exact, err := r.Match(ctx, rdf.IRI("s2"), rdf.IRI("p"), rdf.IRI("o2"))
	require.NoError(t, err)
	assert.Len(t, exact, 1)

	none, err := r.Match(ctx, rdf.IRI("missing"), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryReader_Snapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryModel(EntailNone)
	_, err := m.Add(ctx, []rdf.Triple{tr("s", "p", "o")})
	require.NoError(t, err)

	r, err := m.Begin(ctx)
	require.NoError(t, err)
	defer r.Close()

	_, err = m.Add(ctx, []rdf.Triple{tr("s", "p", "later")})
	require.NoError(t, err)

	got, err := r.Match(ctx, rdf.IRI("s"), nil, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1, "reader must not see triples added after Begin")
}

func TestMemoryReader_ClosedReader(t *testing.T) {
	m := NewMemoryModel(EntailNone)
	r, err := m.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err = r.Match(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrReaderClosed)
}

func TestMemoryModel_Namespaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryModel(EntailNone)
	require.NoError(t, m.AddNamespaces(ctx, rdf.PrefixMapping{"ex": "http://example.org/"}))
	require.NoError(t, m.AddNamespaces(ctx, rdf.PrefixMapping{"ex": "http://example.com/"}))

	ns, err := m.Namespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/", ns["ex"])

	ns["other"] = "x"
	again, _ := m.Namespaces(ctx)
	assert.NotContains(t, again, "other", "Namespaces must return a copy")
}
