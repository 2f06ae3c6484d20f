package aggregationengine

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tts-eval-platform/backend/internal/coreengine/statscalculator"
	"tts-eval-platform/backend/internal/datastore"
)

type fakeResultSource struct {
	details []*datastore.MOSRatingDetail
	counts  []*datastore.ABResultCount
}

func (f *fakeResultSource) ListMOSRatingDetails() ([]*datastore.MOSRatingDetail, error) {
	return f.details, nil
}

func (f *fakeResultSource) ListABResultCounts() ([]*datastore.ABResultCount, error) {
	return f.counts, nil
}

func score(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func detail(model string, naturalness, overall sql.NullFloat64) *datastore.MOSRatingDetail {
	return &datastore.MOSRatingDetail{
		MOSRating: datastore.MOSRating{
			Naturalness:   naturalness,
			OverallRating: overall,
		},
		ModelName: model,
	}
}

func newTestEngine(src ResultSource) *Engine {
	return NewEngine(src, zerolog.Nop())
}

func TestSummarizeMOS(t *testing.T) {
	src := &fakeResultSource{details: []*datastore.MOSRatingDetail{
		detail("kokoro", score(4), score(5)),
		detail("kokoro", score(5), sql.NullFloat64{}),
		detail("kokoro", score(3), score(4)),
		detail("piper", score(2), score(2)),
	}}
	engine := newTestEngine(src)

	t.Run("null scores excluded from mean", func(t *testing.T) {
		rows, err := engine.SummarizeMOS(nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "kokoro", rows[0].ModelName)
		assert.Equal(t, 3, rows[0].RatingCount)
		assert.InDelta(t, 4.0, rows[0].Means["naturalness"], 0.0001)
		// the second rater skipped overall_rating: mean over two values, not three
		assert.InDelta(t, 4.5, rows[0].Means["overall_rating"], 0.0001)
		_, present := rows[0].Means["prosody"]
		assert.False(t, present)

		assert.Equal(t, "piper", rows[1].ModelName)
		assert.InDelta(t, 2.0, rows[1].Means["naturalness"], 0.0001)
	})

	t.Run("model filter applied before grouping", func(t *testing.T) {
		rows, err := engine.SummarizeMOS([]string{"piper"}, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "piper", rows[0].ModelName)
		assert.Equal(t, 1, rows[0].RatingCount)
	})

	t.Run("attribute filter limits the means", func(t *testing.T) {
		rows, err := engine.SummarizeMOS(nil, []string{"naturalness"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Len(t, rows[0].Means, 1)
		_, present := rows[0].Means["overall_rating"]
		assert.False(t, present)
	})

	t.Run("unknown attribute rejected", func(t *testing.T) {
		_, err := engine.SummarizeMOS(nil, []string{"warmth"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "warmth")
	})

	t.Run("repeated runs produce identical rows", func(t *testing.T) {
		first, err := engine.SummarizeMOS(nil, nil)
		require.NoError(t, err)
		second, err := engine.SummarizeMOS(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestSummarizeAB(t *testing.T) {
	t.Run("clear preference yields better verdict", func(t *testing.T) {
		src := &fakeResultSource{counts: []*datastore.ABResultCount{
			{ModelA: "kokoro", ModelB: "piper", AWins: 70, BWins: 30, Ties: 0, Total: 100},
		}}
		reports, err := newTestEngine(src).SummarizeAB()
		require.NoError(t, err)
		require.Len(t, reports, 1)

		r := reports[0]
		assert.True(t, r.HasStats)
		assert.Equal(t, statscalculator.VerdictBetter, r.Verdict)
		assert.Equal(t, "kokoro is better than piper", r.Conclusion)
		assert.Greater(t, r.Interval.Lower, 55.0)
		assert.Empty(t, r.TieNote)
	})

	t.Run("ties only means no decisive votes", func(t *testing.T) {
		src := &fakeResultSource{counts: []*datastore.ABResultCount{
			{ModelA: "kokoro", ModelB: "piper", AWins: 0, BWins: 0, Ties: 8, Total: 8},
		}}
		reports, err := newTestEngine(src).SummarizeAB()
		require.NoError(t, err)
		require.Len(t, reports, 1)

		r := reports[0]
		assert.False(t, r.HasStats)
		assert.Equal(t, statscalculator.VerdictNotEnoughData, r.Verdict)
		assert.Equal(t, "Not enough data for statistical analysis", r.Conclusion)
		assert.NotEmpty(t, r.TieNote)
	})

	t.Run("high tie rate is flagged", func(t *testing.T) {
		src := &fakeResultSource{counts: []*datastore.ABResultCount{
			{ModelA: "kokoro", ModelB: "piper", AWins: 35, BWins: 25, Ties: 40, Total: 100},
		}}
		reports, err := newTestEngine(src).SummarizeAB()
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Contains(t, reports[0].TieNote, "40.0%")
	})

	t.Run("same-model row skipped", func(t *testing.T) {
		src := &fakeResultSource{counts: []*datastore.ABResultCount{
			{ModelA: "kokoro", ModelB: "kokoro", AWins: 3, BWins: 2, Ties: 0, Total: 5},
			{ModelA: "kokoro", ModelB: "piper", AWins: 6, BWins: 4, Ties: 0, Total: 10},
		}}
		reports, err := newTestEngine(src).SummarizeAB()
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "piper", reports[0].ModelB)
	})

	t.Run("reversed orientations stay separate rows", func(t *testing.T) {
		src := &fakeResultSource{counts: []*datastore.ABResultCount{
			{ModelA: "kokoro", ModelB: "piper", AWins: 6, BWins: 4, Ties: 0, Total: 10},
			{ModelA: "piper", ModelB: "kokoro", AWins: 2, BWins: 3, Ties: 1, Total: 6},
		}}
		reports, err := newTestEngine(src).SummarizeAB()
		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})
}
