package skip_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/riptide/pkg/batch/engine/step/skip"
)

func TestNewLimitPolicy(t *testing.T) {
	t.Run("accepts zero", func(t *testing.T) {
		p, err := skip.NewLimitPolicy(0)
		require.NoError(t, err)
		assert.Equal(t, 0, p.SkipLimit())
	})

	t.Run("accepts positive limit", func(t *testing.T) {
		p, err := skip.NewLimitPolicy(5)
		require.NoError(t, err)
		assert.Equal(t, 5, p.SkipLimit())
	})

	t.Run("rejects negative limit", func(t *testing.T) {
		p, err := skip.NewLimitPolicy(-1)
		assert.Error(t, err)
		assert.Nil(t, p)
	})
}

func TestLimitPolicy_WithinLimit(t *testing.T) {
	t.Run("zero limit trips on first error", func(t *testing.T) {
		p, err := skip.NewLimitPolicy(0)
		require.NoError(t, err)

		assert.True(t, p.WithinLimit(0))
		assert.False(t, p.WithinLimit(1))
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		p, err := skip.NewLimitPolicy(3)
		require.NoError(t, err)

		assert.True(t, p.WithinLimit(2))
		assert.True(t, p.WithinLimit(3))
		assert.False(t, p.WithinLimit(4))
	})
}
