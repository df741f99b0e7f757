package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

func newModel() *graph.MemoryModel {
	return graph.NewMemoryModel(graph.EntailNone)
}

func sizeOf(t *testing.T, m graph.Model) int64 {
	t.Helper()
	n, err := m.Size(context.Background())
	require.NoError(t, err)
	return n
}

func seqImporter(opts ...ImporterOption) *Importer {
	return NewImporter(append([]ImporterOption{WithBlankGenerator(rdf.NewSequenceGenerator("b"))}, opts...)...)
}

// rejectingModel fails every Add.
type rejectingModel struct {
	*graph.MemoryModel
}

func (rejectingModel) Add(context.Context, []rdf.Triple) (int, error) {
	return 0, errors.New("disk full")
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}
