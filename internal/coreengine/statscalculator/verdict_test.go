package statscalculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVerdict(t *testing.T) {
	tests := []struct {
		name  string
		lower float64
		upper float64
		want  Verdict
	}{
		{"interval fully above neutral band", 61.2, 78.8, VerdictBetter},
		{"lower above band floor, upper above ceiling", 46, 60, VerdictEquivalentOrBetter},
		{"interval inside the neutral band", 46, 54, VerdictEquivalent},
		{"interval fully below neutral band", 20, 40, VerdictWorseOrEquivalent},
		{"low interval reaching into the band", 38, 52, VerdictWorseOrEquivalent},
		{"wide interval spanning the band", 40, 60, VerdictInconclusive},
		{"decisively low still ranks as worse-or-equivalent", 10, 44, VerdictWorseOrEquivalent},
		{"upper exactly at band ceiling", 46, 55, VerdictEquivalent},
		{"lower exactly at band floor", 45, 50, VerdictWorseOrEquivalent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVerdict(tt.lower, tt.upper))
		})
	}
}

func TestVerdictDescribe(t *testing.T) {
	assert.Equal(t, "kokoro is better than piper", VerdictBetter.Describe("kokoro", "piper"))
	assert.Equal(t, "kokoro is equivalent to piper", VerdictEquivalent.Describe("kokoro", "piper"))
	assert.Equal(t, "kokoro is worse than piper", VerdictWorse.Describe("kokoro", "piper"))
	assert.Equal(t, "Not enough data for statistical analysis", VerdictNotEnoughData.Describe("kokoro", "piper"))
	assert.Equal(t, "Results are inconclusive, more data needed", VerdictInconclusive.Describe("kokoro", "piper"))
}

func TestClassifyVerdictMatchesComputedInterval(t *testing.T) {
	interval, ok := ComputePreferenceInterval(70, 30)
	assert.True(t, ok)
	assert.Equal(t, VerdictBetter, ClassifyVerdict(interval.Lower, interval.Upper))

	interval, ok = ComputePreferenceInterval(5, 5)
	assert.True(t, ok)
	assert.Equal(t, VerdictInconclusive, ClassifyVerdict(interval.Lower, interval.Upper))

	interval, ok = ComputePreferenceInterval(30, 70)
	assert.True(t, ok)
	assert.Equal(t, VerdictWorseOrEquivalent, ClassifyVerdict(interval.Lower, interval.Upper))
}
