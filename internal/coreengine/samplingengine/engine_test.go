package samplingengine

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-eval-platform/backend/internal/datastore"
)

type fakeSampleSource struct {
	candidates []*datastore.SampleCandidate
	pairs      []*datastore.PairCandidate

	gotExcludeIDs []int
	gotLanguage   string
	gotLimit      int
	gotModelA     string
}

func (f *fakeSampleSource) ListCandidateSamples(excludeIDs []int, language string) ([]*datastore.SampleCandidate, error) {
	f.gotExcludeIDs = excludeIDs
	f.gotLanguage = language

	excluded := make(map[int]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []*datastore.SampleCandidate
	for _, c := range f.candidates {
		if excluded[c.ID] {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeSampleSource) ListRandomPairs(limit int, modelA string) ([]*datastore.PairCandidate, error) {
	f.gotLimit = limit
	f.gotModelA = modelA
	if limit < len(f.pairs) {
		return f.pairs[:limit], nil
	}
	return f.pairs, nil
}

func candidate(id, modelID, ratingCount int) *datastore.SampleCandidate {
	return &datastore.SampleCandidate{
		Sample:      datastore.Sample{ID: id, ModelID: modelID},
		RatingCount: ratingCount,
	}
}

func newTestEngine(src SampleSource) *Engine {
	return NewEngine(src, rand.New(rand.NewSource(1)), zerolog.Nop())
}

func TestSelectMOSBatchPrefersLeastRated(t *testing.T) {
	src := &fakeSampleSource{candidates: []*datastore.SampleCandidate{
		candidate(1, 1, 0),
		candidate(2, 1, 0),
		candidate(3, 1, 5),
		candidate(4, 2, 1),
		candidate(5, 2, 2),
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectMOSBatch(3, 2, nil, "")
	require.NoError(t, err)
	require.Len(t, batch, 3)

	got := map[int]bool{}
	for _, c := range batch {
		got[c.ID] = true
	}
	// the two unrated model-1 samples plus model 2's least-rated one
	assert.True(t, got[1])
	assert.True(t, got[2])
	assert.True(t, got[4])

	// ascending rating-count order within the batch
	assert.LessOrEqual(t, batch[0].RatingCount, batch[1].RatingCount)
	assert.LessOrEqual(t, batch[1].RatingCount, batch[2].RatingCount)
}

func TestSelectMOSBatchHonorsExclusions(t *testing.T) {
	src := &fakeSampleSource{candidates: []*datastore.SampleCandidate{
		candidate(1, 1, 0),
		candidate(2, 1, 0),
		candidate(3, 2, 0),
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectMOSBatch(10, 10, []int{1, 3}, "en")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, 2, batch[0].ID)
	assert.Equal(t, []int{1, 3}, src.gotExcludeIDs)
	assert.Equal(t, "en", src.gotLanguage)
}

func TestSelectMOSBatchPerModelCap(t *testing.T) {
	src := &fakeSampleSource{candidates: []*datastore.SampleCandidate{
		candidate(1, 1, 0),
		candidate(2, 1, 0),
		candidate(3, 1, 0),
		candidate(4, 2, 4),
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectMOSBatch(10, 1, nil, "")
	require.NoError(t, err)
	require.Len(t, batch, 2)

	perModel := map[int]int{}
	for _, c := range batch {
		perModel[c.ModelID]++
	}
	assert.Equal(t, 1, perModel[1])
	assert.Equal(t, 1, perModel[2])
}

func TestSelectMOSBatchShortPoolIsNotPadded(t *testing.T) {
	src := &fakeSampleSource{candidates: []*datastore.SampleCandidate{
		candidate(1, 1, 0),
		candidate(2, 2, 0),
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectMOSBatch(10, 5, nil, "")
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

func TestSelectMOSBatchNothingLeft(t *testing.T) {
	engine := newTestEngine(&fakeSampleSource{})

	batch, err := engine.SelectMOSBatch(10, 5, nil, "")
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSelectMOSBatchTieBreakIsUniform(t *testing.T) {
	src := &fakeSampleSource{candidates: []*datastore.SampleCandidate{
		candidate(1, 1, 0),
		candidate(2, 1, 0),
		candidate(3, 1, 0),
		candidate(4, 1, 0),
	}}

	firstSeen := map[int]bool{}
	for seed := int64(0); seed < 20; seed++ {
		engine := NewEngine(src, rand.New(rand.NewSource(seed)), zerolog.Nop())
		batch, err := engine.SelectMOSBatch(1, 4, nil, "")
		require.NoError(t, err)
		require.Len(t, batch, 1)
		firstSeen[batch[0].ID] = true
	}
	// with 20 seeds over 4 tied candidates, more than one should surface
	assert.Greater(t, len(firstSeen), 1)
}

func TestSelectABBatchExcludesEitherOrientation(t *testing.T) {
	src := &fakeSampleSource{pairs: []*datastore.PairCandidate{
		{SampleAID: 1, SampleBID: 2},
		{SampleAID: 3, SampleBID: 4},
		{SampleAID: 5, SampleBID: 6},
	}}
	engine := newTestEngine(src)

	// the rater judged pair (1,2) stored as (2,1)
	batch, err := engine.SelectABBatch(2, []datastore.PairRef{{SampleAID: 2, SampleBID: 1}}, "")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, 3, batch[0].SampleAID)
	assert.Equal(t, 5, batch[1].SampleAID)
	assert.Equal(t, 4, src.gotLimit)
}

func TestSelectABBatchDeduplicatesWithinBatch(t *testing.T) {
	src := &fakeSampleSource{pairs: []*datastore.PairCandidate{
		{SampleAID: 1, SampleBID: 2},
		{SampleAID: 2, SampleBID: 1},
		{SampleAID: 3, SampleBID: 4},
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectABBatch(3, nil, "")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, 1, batch[0].SampleAID)
	assert.Equal(t, 3, batch[1].SampleAID)
}

func TestSelectABBatchTruncatesAndNeverPads(t *testing.T) {
	src := &fakeSampleSource{pairs: []*datastore.PairCandidate{
		{SampleAID: 1, SampleBID: 2},
		{SampleAID: 3, SampleBID: 4},
		{SampleAID: 5, SampleBID: 6},
	}}
	engine := newTestEngine(src)

	batch, err := engine.SelectABBatch(2, nil, "")
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	// pool smaller than requested: return what exists
	batch, err = engine.SelectABBatch(10, nil, "")
	require.NoError(t, err)
	assert.Len(t, batch, 3)
}

func TestSelectABBatchModelFilterPassesThrough(t *testing.T) {
	src := &fakeSampleSource{}
	engine := newTestEngine(src)

	batch, err := engine.SelectABBatch(5, nil, "kokoro")
	require.NoError(t, err)
	assert.Empty(t, batch)
	assert.Equal(t, "kokoro", src.gotModelA)
}
