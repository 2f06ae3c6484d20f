package statscalculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanAccumulator(t *testing.T) {
	t.Run("absent scores do not dilute the mean", func(t *testing.T) {
		var acc MeanAccumulator
		acc.Add(4)
		acc.Add(5)
		acc.Add(3)
		// a fourth rater who skipped this attribute contributes nothing

		mean, ok := acc.Mean()
		require.True(t, ok)
		assert.InDelta(t, 4.0, mean, 0.0001)
		assert.Equal(t, 3, acc.Count())
	})

	t.Run("empty accumulator", func(t *testing.T) {
		var acc MeanAccumulator
		_, ok := acc.Mean()
		assert.False(t, ok)
		assert.Equal(t, 0, acc.Count())
	})
}
