package samplingengine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-eval-platform/backend/internal/datastore"
)

func TestBatchSessionSwapIsStable(t *testing.T) {
	sess := NewBatchSession(rand.New(rand.NewSource(7)))
	sess.SetABBatch([]*datastore.PairCandidate{
		{SampleAID: 1, SampleBID: 2},
		{SampleAID: 3, SampleBID: 4},
	})

	first, ok := sess.SwapFor(1, 2)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		swap, ok := sess.SwapFor(1, 2)
		require.True(t, ok)
		assert.Equal(t, first, swap)
	}
	// either orientation resolves to the same flag
	swap, ok := sess.SwapFor(2, 1)
	require.True(t, ok)
	assert.Equal(t, first, swap)
}

func TestBatchSessionSwapOnlyForPresentedPairs(t *testing.T) {
	sess := NewBatchSession(rand.New(rand.NewSource(7)))
	sess.SetABBatch([]*datastore.PairCandidate{{SampleAID: 1, SampleBID: 2}})

	_, ok := sess.SwapFor(3, 4)
	assert.False(t, ok)

	// asking must not invent a flag either
	_, ok = sess.SwapFor(3, 4)
	assert.False(t, ok)

	sess.SetABBatch([]*datastore.PairCandidate{{SampleAID: 3, SampleBID: 4}})
	_, ok = sess.SwapFor(3, 4)
	assert.True(t, ok)
	_, ok = sess.SwapFor(1, 2)
	assert.False(t, ok)
}

func TestBatchSessionSwapResetsWithNewBatch(t *testing.T) {
	sess := NewBatchSession(rand.New(rand.NewSource(7)))
	pairs := []*datastore.PairCandidate{{SampleAID: 1, SampleBID: 2}}

	sess.SetABBatch(pairs)
	sess.MarkPairRated(1, 2)
	require.True(t, sess.PairRated(1, 2))

	sess.SetABBatch(pairs)
	assert.False(t, sess.PairRated(1, 2))
}

func TestBatchSessionPairRatedIsOrientationBlind(t *testing.T) {
	sess := NewBatchSession(rand.New(rand.NewSource(7)))
	sess.MarkPairRated(4, 3)
	assert.True(t, sess.PairRated(3, 4))
	assert.True(t, sess.PairRated(4, 3))
	assert.False(t, sess.PairRated(3, 5))
}

func TestBatchSessionMOSTracking(t *testing.T) {
	sess := NewBatchSession(rand.New(rand.NewSource(7)))
	batch := []*datastore.SampleCandidate{
		{Sample: datastore.Sample{ID: 1}},
		{Sample: datastore.Sample{ID: 2}},
	}
	sess.SetMOSBatch(batch)
	assert.Equal(t, batch, sess.MOSBatch())

	assert.False(t, sess.SampleRated(1))
	sess.MarkSampleRated(1)
	assert.True(t, sess.SampleRated(1))
	assert.False(t, sess.SampleRated(2))

	sess.SetMOSBatch(batch)
	assert.False(t, sess.SampleRated(1))
}

func TestUnswapVerdict(t *testing.T) {
	tests := []struct {
		name      string
		displayed string
		swapped   bool
		want      string
	}{
		{"no swap passes A through", VerdictA, false, VerdictA},
		{"no swap passes B through", VerdictB, false, VerdictB},
		{"swap maps displayed A to stored B", VerdictA, true, VerdictB},
		{"swap maps displayed B to stored A", VerdictB, true, VerdictA},
		{"tie is swap-invariant", VerdictTie, true, VerdictTie},
		{"tie without swap", VerdictTie, false, VerdictTie},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnswapVerdict(tt.displayed, tt.swapped))
		})
	}
}

func TestNewPairKeyNormalizesOrder(t *testing.T) {
	assert.Equal(t, NewPairKey(2, 9), NewPairKey(9, 2))
	key := NewPairKey(9, 2)
	assert.Equal(t, 2, key.Low)
	assert.Equal(t, 9, key.High)
}
