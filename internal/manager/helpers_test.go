package manager

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/remote"
	"github.com/roach88/rdfkit/internal/testutil"
)

const exTurtle = `@prefix ex: <http://example.org/> . ex:a ex:b ex:c .`

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithBlankGenerator(testutil.NewDeterministicBlanks("b")),
		WithTimeouts(remote.Timeouts{Connect: 500 * time.Millisecond, Read: 2 * time.Second}),
		WithRoot(t.TempDir()),
	}
	m := New(append(base, opts...)...)
	t.Cleanup(m.Close)
	return m
}

func sizeOf(t *testing.T, m *Manager, s graph.Store) int64 {
	t.Helper()
	n, err := m.Size(context.Background(), s)
	require.NoError(t, err)
	return n
}

func importTurtle(t *testing.T, m *Manager, s graph.Store, doc string) {
	t.Helper()
	_, err := m.ImportFromString(context.Background(), s, doc, "TURTLE")
	require.NoError(t, err)
}
