package statscalculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePreferenceInterval(t *testing.T) {
	t.Run("clear preference", func(t *testing.T) {
		interval, ok := ComputePreferenceInterval(70, 30)
		require.True(t, ok)

		assert.InDelta(t, 70.0, interval.Preference, 0.001)
		assert.Equal(t, 100, interval.Decisive)
		assert.Greater(t, interval.Lower, 55.0)
		assert.Less(t, interval.Upper, 80.0)
		assert.InDelta(t, 8.85, interval.Margin, 0.01)
	})

	t.Run("no decisive votes short-circuits", func(t *testing.T) {
		_, ok := ComputePreferenceInterval(0, 0)
		require.False(t, ok)
	})

	t.Run("bounds clamp to the percent range", func(t *testing.T) {
		interval, ok := ComputePreferenceInterval(1, 0)
		require.True(t, ok)
		assert.GreaterOrEqual(t, interval.Lower, 0.0)
		assert.LessOrEqual(t, interval.Upper, 100.0)

		interval, ok = ComputePreferenceInterval(0, 1)
		require.True(t, ok)
		assert.GreaterOrEqual(t, interval.Lower, 0.0)
		assert.LessOrEqual(t, interval.Upper, 100.0)
	})

	t.Run("even split centers on fifty", func(t *testing.T) {
		interval, ok := ComputePreferenceInterval(50, 50)
		require.True(t, ok)
		assert.InDelta(t, 50.0, interval.Preference, 0.001)
		assert.Less(t, interval.Lower, 50.0)
		assert.Greater(t, interval.Upper, 50.0)
	})
}

func TestHighTieRate(t *testing.T) {
	tests := []struct {
		name  string
		ties  int
		total int
		want  bool
	}{
		{"forty percent ties", 40, 100, true},
		{"ten percent ties", 10, 100, false},
		{"exactly at threshold", 30, 100, false},
		{"just above threshold", 31, 100, true},
		{"zero total", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighTieRate(tt.ties, tt.total))
		})
	}
}

func TestTieRateNote(t *testing.T) {
	note := TieRateNote(40, 100)
	require.NotEmpty(t, note)
	assert.Contains(t, note, "40.0%")

	assert.Empty(t, TieRateNote(10, 100))
	assert.Empty(t, TieRateNote(0, 0))
}
