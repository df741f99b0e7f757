package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEphemeralStore(t *testing.T) {
	plain := NewEphemeralStore(false)
	assert.Equal(t, KindEphemeral, plain.Kind())
	assert.False(t, plain.OntologyAware())

	model, err := plain.Native()
	require.NoError(t, err)
	assert.Equal(t, EntailNone, model.Entailment())

	onto := NewEphemeralStore(true)
	assert.True(t, onto.OntologyAware())
	model, err = onto.Native()
	require.NoError(t, err)
	assert.Equal(t, EntailRDFS, model.Entailment())
}

func TestEndpointStore_HasNoNativeModel(t *testing.T) {
	s := NewEndpointStore("http://example.org/sparql")
	assert.Equal(t, KindEndpoint, s.Kind())
	assert.Equal(t, "http://example.org/sparql", s.URL())

	for i := 0; i < 3; i++ {
		model, err := s.Native()
		assert.Nil(t, model)
		assert.ErrorIs(t, err, ErrNoNativeModel)
	}
}

func TestPersistentStore_NilModelClose(t *testing.T) {
	s := NewPersistentStore("/tmp/x", nil)
	assert.Equal(t, KindPersistent, s.Kind())
	assert.Equal(t, "/tmp/x", s.Dir())
	assert.NoError(t, s.Close())

	_, err := s.Native()
	assert.ErrorIs(t, err, ErrNoNativeModel)
}

func TestNilStores_HaveNoNativeModel(t *testing.T) {
	var eph *EphemeralStore
	var per *PersistentStore
	for _, s := range []Store{eph, per} {
		model, err := s.Native()
		assert.Nil(t, model)
		assert.ErrorIs(t, err, ErrNoNativeModel)
	}
	assert.False(t, eph.OntologyAware())
	assert.NoError(t, per.Close())
}

func TestError_Wrapping(t *testing.T) {
	cause := errors.New("line 3: unexpected token")
	err := NewError(ErrCodeMalformedInput, "File format is not correct.", cause)

	assert.Equal(t, "MALFORMED_INPUT: File format is not correct.: line 3: unexpected token", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("import: %w", err)
	assert.True(t, IsMalformedInput(wrapped))
	assert.False(t, IsUnsupportedFormat(wrapped))
	assert.Equal(t, ErrCodeMalformedInput, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(cause))

	noCause := NewError(ErrCodeBackendMismatch, "can only handle native-model stores for now", nil)
	assert.Equal(t, "BACKEND_MISMATCH: can only handle native-model stores for now", noCause.Error())
	assert.True(t, IsBackendMismatch(noCause))
}
