package statscalculator

import "fmt"

// Verdict classifies a pairwise comparison from its preference confidence
// bounds against the 50% neutral point.
type Verdict string

const (
	VerdictBetter             Verdict = "better"
	VerdictEquivalentOrBetter Verdict = "equivalent_or_better"
	VerdictEquivalent         Verdict = "equivalent"
	VerdictWorseOrEquivalent  Verdict = "worse_or_equivalent"
	VerdictWorse              Verdict = "worse"
	VerdictInconclusive       Verdict = "inconclusive"
	VerdictNotEnoughData      Verdict = "not_enough_data"
)

// ClassifyVerdict maps the confidence bounds (percent) onto a verdict. The
// rungs are checked strictly in order: any interval that sits at or below the
// neutral band is worse-or-equivalent, even when it lies entirely below the
// band.
func ClassifyVerdict(lower, upper float64) Verdict {
	switch {
	case lower > 55:
		return VerdictBetter
	case lower > 45 && upper > 55:
		return VerdictEquivalentOrBetter
	case lower > 45 && upper <= 55:
		return VerdictEquivalent
	case lower <= 45 && upper <= 55:
		return VerdictWorseOrEquivalent
	case upper < 45:
		return VerdictWorse
	default:
		return VerdictInconclusive
	}
}

// Describe renders the verdict as a human-readable conclusion about modelA
// relative to modelB.
func (v Verdict) Describe(modelA, modelB string) string {
	switch v {
	case VerdictBetter:
		return fmt.Sprintf("%s is better than %s", modelA, modelB)
	case VerdictEquivalentOrBetter:
		return fmt.Sprintf("%s is equivalent or better than %s", modelA, modelB)
	case VerdictEquivalent:
		return fmt.Sprintf("%s is equivalent to %s", modelA, modelB)
	case VerdictWorseOrEquivalent:
		return fmt.Sprintf("%s is worse or equivalent to %s", modelA, modelB)
	case VerdictWorse:
		return fmt.Sprintf("%s is worse than %s", modelA, modelB)
	case VerdictNotEnoughData:
		return "Not enough data for statistical analysis"
	default:
		return "Results are inconclusive, more data needed"
	}
}
