// Package statscalculator implements the pure statistics behind the
// evaluation dashboard: null-excluding means, the approximate 95% preference
// confidence interval for pairwise verdict counts, and the verdict
// classification derived from the interval bounds.
package statscalculator

import (
	"fmt"
	"math"
)

// zScore95 is the normal z value for a 95% confidence level.
const zScore95 = 1.96

// highTieRateThreshold is the ties/total fraction above which two models are
// flagged as likely near-equivalent.
const highTieRateThreshold = 0.30

// PreferenceInterval is the observed preference for model A over model B with
// its confidence bounds, all expressed in percent.
type PreferenceInterval struct {
	Preference float64 `json:"preference_percent"`
	Margin     float64 `json:"margin_percent"`
	Lower      float64 `json:"lower_percent"`
	Upper      float64 `json:"upper_percent"`
	Decisive   int     `json:"decisive_votes"`
}

// ComputePreferenceInterval returns the preference ratio of aWins against the
// decisive total (ties excluded) and its approximate 95% confidence bounds,
// clamped to [0, 100]. ok is false when there are no decisive votes, in which
// case no interval math is attempted.
func ComputePreferenceInterval(aWins, bWins int) (PreferenceInterval, bool) {
	n := aWins + bWins
	if n == 0 {
		return PreferenceInterval{}, false
	}

	fn := float64(n)
	p := float64(aWins) / fn
	z := zScore95

	margin := z * math.Sqrt((p*(1-p)+z*z/(4*fn))/fn) / (1 + z*z/fn) * 100

	preference := p * 100
	return PreferenceInterval{
		Preference: preference,
		Margin:     margin,
		Lower:      clampPercent(preference - margin),
		Upper:      clampPercent(preference + margin),
		Decisive:   n,
	}, true
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

// HighTieRate reports whether the tie fraction of total verdicts exceeds the
// near-equivalence threshold.
func HighTieRate(ties, total int) bool {
	if total == 0 {
		return false
	}
	return float64(ties)/float64(total) > highTieRateThreshold
}

// TieRateNote returns the near-equivalence note for a high tie rate, or an
// empty string when the rate is not high.
func TieRateNote(ties, total int) string {
	if !HighTieRate(ties, total) {
		return ""
	}
	rate := float64(ties) / float64(total) * 100
	return fmt.Sprintf("High tie rate (%.1f%%) suggests the two models may be similar in quality", rate)
}
