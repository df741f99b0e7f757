package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaEnforcer_Unbounded(t *testing.T) {
	q := NewQuotaEnforcer(0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, q.Check())
	}
	assert.Equal(t, 1000, q.Current())
}

func TestQuotaEnforcer_ExceedsLimit(t *testing.T) {
	q := NewQuotaEnforcer(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Check())
	}

	err := q.Check()
	require.Error(t, err)
	assert.True(t, IsQuotaError(err))
	assert.Equal(t, "QUOTA_EXCEEDED: query exceeded max solutions (4 > 3)", err.Error())

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "3", re.Details["max_solutions"])
}

func TestIsQuotaError_Wrapped(t *testing.T) {
	err := fmt.Errorf("query: %w", NewQuotaError(2, 1))
	assert.True(t, IsQuotaError(err))
	assert.False(t, IsQuotaError(fmt.Errorf("other")))
}
