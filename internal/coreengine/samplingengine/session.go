package samplingengine

import (
	"math/rand"
	"sync"

	"tts-eval-platform/backend/internal/datastore"
)

// Verdict values as displayed and as stored. Stored verdicts are always in
// the pair's stored orientation; displayed verdicts pass through
// UnswapVerdict first.
const (
	VerdictA   = "A"
	VerdictB   = "B"
	VerdictTie = "tie"
)

// BatchSession holds the transient per-rater evaluation state: the active MOS
// and A/B batches, which items have been rated within them, and the stable
// swap flag per presented pair. It belongs to exactly one authenticated
// session and is never persisted.
type BatchSession struct {
	mu  sync.Mutex
	rng *rand.Rand

	mosSamples   []*datastore.SampleCandidate
	ratedSamples map[int]bool

	abPairs    []*datastore.PairCandidate
	ratedPairs map[PairKey]bool
	swapFlags  map[PairKey]bool
}

// NewBatchSession creates an empty batch session. The rng drives the swap
// coin flips.
func NewBatchSession(rng *rand.Rand) *BatchSession {
	return &BatchSession{
		rng:          rng,
		ratedSamples: map[int]bool{},
		ratedPairs:   map[PairKey]bool{},
		swapFlags:    map[PairKey]bool{},
	}
}

// SetMOSBatch replaces the active MOS batch and resets its rated tracking.
func (s *BatchSession) SetMOSBatch(samples []*datastore.SampleCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mosSamples = samples
	s.ratedSamples = map[int]bool{}
}

// MOSBatch returns the active MOS batch.
func (s *BatchSession) MOSBatch() []*datastore.SampleCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mosSamples
}

// MarkSampleRated records that a sample in the active batch has been rated.
func (s *BatchSession) MarkSampleRated(sampleID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratedSamples[sampleID] = true
}

// SampleRated reports whether a sample was already rated within this batch.
func (s *BatchSession) SampleRated(sampleID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratedSamples[sampleID]
}

// SetABBatch replaces the active A/B batch, resets its rated tracking, and
// assigns each pair's swap flag with a fair coin flip. Flags from a previous
// batch are discarded.
func (s *BatchSession) SetABBatch(pairs []*datastore.PairCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abPairs = pairs
	s.ratedPairs = map[PairKey]bool{}
	s.swapFlags = map[PairKey]bool{}
	for _, p := range pairs {
		s.swapFlags[NewPairKey(p.SampleAID, p.SampleBID)] = s.rng.Intn(2) == 1
	}
}

// ABBatch returns the active A/B batch.
func (s *BatchSession) ABBatch() []*datastore.PairCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.abPairs
}

// SwapFor returns the stable swap flag for the given pair. Flags exist only
// for the pairs of the active batch, chosen once in SetABBatch and reused on
// every re-render; ok is false for a pair that was never presented. A verdict
// without a flag must be rejected, not un-swapped with a freshly invented one.
func (s *BatchSession) SwapFor(a, b int) (swap, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swap, ok = s.swapFlags[NewPairKey(a, b)]
	return swap, ok
}

// MarkPairRated records that a pair in the active batch has been judged.
func (s *BatchSession) MarkPairRated(a, b int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratedPairs[NewPairKey(a, b)] = true
}

// PairRated reports whether a pair was already judged within this batch.
func (s *BatchSession) PairRated(a, b int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratedPairs[NewPairKey(a, b)]
}

// UnswapVerdict maps a displayed verdict back to the pair's stored
// orientation. With the swap active, a displayed "A" means the stored B
// sample won and vice versa; ties are swap-invariant. Un-swapping must happen
// before the verdict is persisted, never after aggregation.
func UnswapVerdict(displayed string, swapped bool) string {
	if !swapped {
		return displayed
	}
	switch displayed {
	case VerdictA:
		return VerdictB
	case VerdictB:
		return VerdictA
	default:
		return displayed
	}
}
