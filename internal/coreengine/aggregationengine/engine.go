// Package aggregationengine turns raw stored ratings into per-model MOS
// summaries and pairwise A/B preference reports with confidence bounds. All
// computation is a pure function of the stored ratings: repeated runs over
// unchanged data produce identical reports.
package aggregationengine

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/coreengine/statscalculator"
	"tts-eval-platform/backend/internal/datastore"
)

// ResultSource is the storage contract the engine aggregates over.
type ResultSource interface {
	ListMOSRatingDetails() ([]*datastore.MOSRatingDetail, error)
	ListABResultCounts() ([]*datastore.ABResultCount, error)
}

// Engine builds dashboard reports from recorded ratings.
type Engine struct {
	store  ResultSource
	logger zerolog.Logger
}

// NewEngine creates an aggregation engine.
func NewEngine(store ResultSource, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "aggregationengine").Logger(),
	}
}

// MOSSummaryRow is one model's mean score per selected attribute. Attributes
// with no non-null scores for the model are absent from Means.
type MOSSummaryRow struct {
	ModelName   string             `json:"model_name"`
	Means       map[string]float64 `json:"means"`
	RatingCount int                `json:"rating_count"`
}

// SummarizeMOS groups all MOS ratings by model and averages each selected
// attribute, excluding null scores from both sum and denominator. Empty
// filter slices select all models / all attributes. Filtering is applied to
// the raw rows before grouping.
func (e *Engine) SummarizeMOS(models []string, attributes []string) ([]*MOSSummaryRow, error) {
	details, err := e.store.ListMOSRatingDetails()
	if err != nil {
		return nil, fmt.Errorf("failed to load MOS ratings: %w", err)
	}

	if len(attributes) == 0 {
		attributes = AttributeKeys()
	}
	for _, a := range attributes {
		if !ValidAttribute(a) {
			return nil, fmt.Errorf("unknown MOS attribute %q", a)
		}
	}

	modelFilter := map[string]bool{}
	for _, m := range models {
		modelFilter[m] = true
	}

	type accumulators struct {
		byAttribute map[string]*statscalculator.MeanAccumulator
		ratingCount int
	}
	groups := map[string]*accumulators{}

	for _, d := range details {
		if len(modelFilter) > 0 && !modelFilter[d.ModelName] {
			continue
		}
		g, ok := groups[d.ModelName]
		if !ok {
			g = &accumulators{byAttribute: map[string]*statscalculator.MeanAccumulator{}}
			groups[d.ModelName] = g
		}
		g.ratingCount++
		for _, attr := range attributes {
			if v, valid := attributeValue(d, attr); valid {
				acc, ok := g.byAttribute[attr]
				if !ok {
					acc = &statscalculator.MeanAccumulator{}
					g.byAttribute[attr] = acc
				}
				acc.Add(v)
			}
		}
	}

	rows := make([]*MOSSummaryRow, 0, len(groups))
	for modelName, g := range groups {
		row := &MOSSummaryRow{
			ModelName:   modelName,
			Means:       map[string]float64{},
			RatingCount: g.ratingCount,
		}
		for attr, acc := range g.byAttribute {
			if mean, ok := acc.Mean(); ok {
				row.Means[attr] = mean
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ModelName < rows[j].ModelName })
	return rows, nil
}

func attributeValue(d *datastore.MOSRatingDetail, attr string) (float64, bool) {
	var v sql.NullFloat64
	switch attr {
	case "naturalness":
		v = d.Naturalness
	case "intelligibility":
		v = d.Intelligibility
	case "pronunciation":
		v = d.Pronunciation
	case "prosody":
		v = d.Prosody
	case "speaker_similarity":
		v = d.SpeakerSimilarity
	case "overall_rating":
		v = d.OverallRating
	}
	return v.Float64, v.Valid
}

// ABComparisonReport is one pairwise comparison row with its preference
// statistics. Rows are grouped by the stored ordered (modelA, modelB) pair;
// reversed orientations are deliberately not merged, so callers must handle
// both directions when presenting "X vs Y".
type ABComparisonReport struct {
	ModelA string `json:"model_a"`
	ModelB string `json:"model_b"`
	AWins  int    `json:"a_wins"`
	BWins  int    `json:"b_wins"`
	Ties   int    `json:"ties"`
	Total  int    `json:"total"`

	// HasStats is false when there were no decisive votes; the interval
	// fields are then zero and Conclusion reads "not enough data".
	HasStats   bool                               `json:"has_stats"`
	Interval   statscalculator.PreferenceInterval `json:"interval"`
	Verdict    statscalculator.Verdict            `json:"verdict"`
	Conclusion string                             `json:"conclusion"`
	TieNote    string                             `json:"tie_note,omitempty"`
}

// SummarizeAB builds the pairwise preference report for every stored ordered
// model pair. Rows whose two sides resolve to the same model violate the pair
// invariant; they are logged and skipped rather than aggregated.
func (e *Engine) SummarizeAB() ([]*ABComparisonReport, error) {
	counts, err := e.store.ListABResultCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load A/B result counts: %w", err)
	}

	reports := make([]*ABComparisonReport, 0, len(counts))
	for _, c := range counts {
		if c.ModelA == c.ModelB {
			e.logger.Error().
				Str("model", c.ModelA).
				Int("total", c.Total).
				Msg("skipping same-model comparison row: pair data integrity violation")
			continue
		}

		report := &ABComparisonReport{
			ModelA: c.ModelA,
			ModelB: c.ModelB,
			AWins:  c.AWins,
			BWins:  c.BWins,
			Ties:   c.Ties,
			Total:  c.Total,
		}

		interval, ok := statscalculator.ComputePreferenceInterval(c.AWins, c.BWins)
		if !ok {
			report.Verdict = statscalculator.VerdictNotEnoughData
			report.Conclusion = report.Verdict.Describe(c.ModelA, c.ModelB)
		} else {
			report.HasStats = true
			report.Interval = interval
			report.Verdict = statscalculator.ClassifyVerdict(interval.Lower, interval.Upper)
			report.Conclusion = report.Verdict.Describe(c.ModelA, c.ModelB)
		}
		report.TieNote = statscalculator.TieRateNote(c.Ties, c.Total)

		reports = append(reports, report)
	}
	return reports, nil
}
