package samplingengine

// PairKey identifies an unordered sample pair: (a, b) and (b, a) are the same
// comparison and map to the same key.
type PairKey struct {
	Low  int
	High int
}

// NewPairKey builds the canonical key for the two sample IDs.
func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}
