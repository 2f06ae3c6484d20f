package statscalculator

// MeanAccumulator accumulates values for a null-excluding arithmetic mean.
// Absent (null) scores are simply never added, so they count toward neither
// the sum nor the denominator.
type MeanAccumulator struct {
	sum   float64
	count int
}

// Add records one present value.
func (m *MeanAccumulator) Add(v float64) {
	m.sum += v
	m.count++
}

// Mean returns the arithmetic mean of the recorded values. ok is false when
// no values were recorded.
func (m *MeanAccumulator) Mean() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum / float64(m.count), true
}

// Count returns how many values were recorded.
func (m *MeanAccumulator) Count() int {
	return m.count
}
