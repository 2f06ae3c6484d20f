// Package samplingengine selects which samples and sample pairs to present to
// a rater. MOS batches favor the least-rated samples per model with uniform
// random tie-breaking and a per-model cap; A/B batches are drawn from the
// cross-model same-text pair universe with oversampling and symmetric
// exclusion of already-rated pairs. The engine also owns the per-session swap
// bookkeeping used to cancel left/right presentation bias.
package samplingengine

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/datastore"
	"tts-eval-platform/backend/internal/telemetry"
)

// SampleSource is the storage contract the engine selects from.
type SampleSource interface {
	ListCandidateSamples(excludeIDs []int, language string) ([]*datastore.SampleCandidate, error)
	ListRandomPairs(limit int, modelA string) ([]*datastore.PairCandidate, error)
}

// Engine draws evaluation batches from a SampleSource.
type Engine struct {
	store  SampleSource
	mu     sync.Mutex // guards rng; batch requests may arrive concurrently
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewEngine creates a sampling engine. The rng seeds the tie-break shuffles
// and swap coin flips; pass a fixed-seed source for deterministic tests.
func NewEngine(store SampleSource, rng *rand.Rand, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		rng:    rng,
		logger: logger.With().Str("component", "samplingengine").Logger(),
	}
}

// SelectMOSBatch returns up to batchSize samples for MOS evaluation, skipping
// excludeIDs (the rater's already-rated set). Candidates are ranked ascending
// by total rating count with uniform random tie-break, capped at maxPerModel
// per model before the global ranking. An empty result means nothing is left
// to rate; it is not an error.
func (e *Engine) SelectMOSBatch(batchSize, maxPerModel int, excludeIDs []int, language string) ([]*datastore.SampleCandidate, error) {
	if batchSize <= 0 || maxPerModel <= 0 {
		return []*datastore.SampleCandidate{}, nil
	}

	candidates, err := e.store.ListCandidateSamples(excludeIDs, language)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch MOS candidates: %w", err)
	}
	if len(candidates) == 0 {
		return []*datastore.SampleCandidate{}, nil
	}

	// Shuffle first so the stable sort breaks rating-count ties uniformly
	// at random instead of in storage order.
	e.sortByRatingCount(candidates)

	// Per-model cap: candidates are already ranked, so the first maxPerModel
	// seen for each model are its least-rated ones.
	perModel := map[int]int{}
	kept := make([]*datastore.SampleCandidate, 0, len(candidates))
	for _, c := range candidates {
		if perModel[c.ModelID] >= maxPerModel {
			continue
		}
		perModel[c.ModelID]++
		kept = append(kept, c)
	}

	e.sortByRatingCount(kept)
	if len(kept) > batchSize {
		kept = kept[:batchSize]
	}

	telemetry.MOSBatchesServed.Inc()
	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("selected", len(kept)).
		Msg("MOS batch selected")
	return kept, nil
}

func (e *Engine) sortByRatingCount(candidates []*datastore.SampleCandidate) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RatingCount < candidates[j].RatingCount
	})
}

// SelectABBatch returns up to count cross-model same-text pairs, excluding
// any pair the rater has already judged in either orientation. The storage
// query oversamples 2x to leave room for the exclusion filter; the result is
// truncated to count and never padded.
func (e *Engine) SelectABBatch(count int, excludePairs []datastore.PairRef, modelA string) ([]*datastore.PairCandidate, error) {
	if count <= 0 {
		return []*datastore.PairCandidate{}, nil
	}

	candidates, err := e.store.ListRandomPairs(count*2, modelA)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch A/B pair candidates: %w", err)
	}

	excluded := make(map[PairKey]bool, len(excludePairs))
	for _, p := range excludePairs {
		excluded[NewPairKey(p.SampleAID, p.SampleBID)] = true
	}

	selected := make([]*datastore.PairCandidate, 0, count)
	seen := map[PairKey]bool{}
	for _, c := range candidates {
		key := NewPairKey(c.SampleAID, c.SampleBID)
		if excluded[key] || seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, c)
		if len(selected) == count {
			break
		}
	}

	telemetry.ABBatchesServed.Inc()
	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("selected", len(selected)).
		Msg("A/B batch selected")
	return selected, nil
}
