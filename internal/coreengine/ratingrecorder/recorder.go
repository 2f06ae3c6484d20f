// Package ratingrecorder validates and persists rating events. It is the
// sampling engine's counterpart: one immutable row per MOS rating or A/B
// verdict, with scores checked against the 1..5 scale before anything is
// written, and the samples' denormalized vote counters kept current for the
// sampler's fairness ranking.
package ratingrecorder

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/coreengine/samplingengine"
	"tts-eval-platform/backend/internal/datastore"
	"tts-eval-platform/backend/internal/telemetry"
)

var validate = validator.New()

// ErrValidation marks a rejected rating payload; nothing was written.
var ErrValidation = errors.New("validation failed")

// ErrPairIntegrity marks a malformed pair: the two samples do not form a
// valid cross-model comparison.
var ErrPairIntegrity = errors.New("pair integrity violation")

// RatingStore is the storage contract for persisting ratings.
type RatingStore interface {
	InsertMOSRating(r *datastore.MOSRating) (int, error)
	InsertABTest(t *datastore.ABTest) (int, error)
	IncrementVoteCount(sampleID int) error
	GetSample(id int) (*datastore.Sample, error)
}

// MOSScores carries one rating's attribute scores. Nil fields mean the
// attribute was not applicable and stay null in storage.
type MOSScores struct {
	Naturalness       *float64 `json:"naturalness" validate:"omitempty,gte=1,lte=5"`
	Intelligibility   *float64 `json:"intelligibility" validate:"omitempty,gte=1,lte=5"`
	Pronunciation     *float64 `json:"pronunciation" validate:"omitempty,gte=1,lte=5"`
	Prosody           *float64 `json:"prosody" validate:"omitempty,gte=1,lte=5"`
	SpeakerSimilarity *float64 `json:"speaker_similarity" validate:"omitempty,gte=1,lte=5"`
	OverallRating     *float64 `json:"overall_rating" validate:"omitempty,gte=1,lte=5"`
}

func (m MOSScores) empty() bool {
	return m.Naturalness == nil && m.Intelligibility == nil && m.Pronunciation == nil &&
		m.Prosody == nil && m.SpeakerSimilarity == nil && m.OverallRating == nil
}

// Recorder persists validated rating events.
type Recorder struct {
	store  RatingStore
	logger zerolog.Logger
}

// NewRecorder creates a rating recorder.
func NewRecorder(store RatingStore, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger.With().Str("component", "ratingrecorder").Logger(),
	}
}

// RecordMOSRating validates the scores and writes one MOS rating row,
// returning its ID. Every present score must lie in [1,5] and at least one
// score must be present; invalid payloads are rejected before any write.
func (r *Recorder) RecordMOSRating(sampleID, raterID int, scores MOSScores) (int, error) {
	if scores.empty() {
		return 0, fmt.Errorf("%w: no scores provided", ErrValidation)
	}
	if err := validate.Struct(scores); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rating := &datastore.MOSRating{
		SampleID:          sampleID,
		UserID:            raterID,
		Naturalness:       toNullFloat(scores.Naturalness),
		Intelligibility:   toNullFloat(scores.Intelligibility),
		Pronunciation:     toNullFloat(scores.Pronunciation),
		Prosody:           toNullFloat(scores.Prosody),
		SpeakerSimilarity: toNullFloat(scores.SpeakerSimilarity),
		OverallRating:     toNullFloat(scores.OverallRating),
	}

	id, err := r.store.InsertMOSRating(rating)
	if err != nil {
		return 0, err
	}

	telemetry.MOSRatingsRecorded.Inc()
	r.logger.Info().Int("rating_id", id).Int("sample_id", sampleID).Int("user_id", raterID).Msg("MOS rating recorded")
	return id, nil
}

// RecordABVerdict writes one A/B verdict row and increments both samples'
// vote counters. The verdict must already be un-swapped by the caller and be
// one of A, B or tie. Both samples are checked to form a valid pair: shared
// text, different models.
func (r *Recorder) RecordABVerdict(sampleAID, sampleBID, raterID int, verdict, reason string, durationSec int) (int, error) {
	switch verdict {
	case samplingengine.VerdictA, samplingengine.VerdictB, samplingengine.VerdictTie:
	default:
		return 0, fmt.Errorf("%w: verdict must be A, B or tie, got %q", ErrValidation, verdict)
	}

	sampleA, err := r.store.GetSample(sampleAID)
	if err != nil {
		return 0, fmt.Errorf("failed to load sample A %d: %w", sampleAID, err)
	}
	sampleB, err := r.store.GetSample(sampleBID)
	if err != nil {
		return 0, fmt.Errorf("failed to load sample B %d: %w", sampleBID, err)
	}
	if sampleA.ModelID == sampleB.ModelID {
		return 0, fmt.Errorf("%w: samples %d and %d belong to the same model", ErrPairIntegrity, sampleAID, sampleBID)
	}
	if sampleA.Text != sampleB.Text {
		return 0, fmt.Errorf("%w: samples %d and %d have different source texts", ErrPairIntegrity, sampleAID, sampleBID)
	}

	test := &datastore.ABTest{
		SampleAID:       sampleAID,
		SampleBID:       sampleBID,
		UserID:          raterID,
		SelectedSample:  verdict,
		SelectionReason: toNullString(reason),
		TestDuration:    durationSec,
	}

	id, err := r.store.InsertABTest(test)
	if err != nil {
		return 0, err
	}

	// Best effort: the verdict row is already committed, a failed counter
	// bump only degrades the sampler's fairness ranking.
	for _, sid := range []int{sampleAID, sampleBID} {
		if err := r.store.IncrementVoteCount(sid); err != nil {
			r.logger.Warn().Err(err).Int("sample_id", sid).Msg("failed to increment vote counter")
		}
	}

	telemetry.ABVerdictsRecorded.Inc()
	r.logger.Info().
		Int("test_id", id).
		Int("sample_a_id", sampleAID).
		Int("sample_b_id", sampleBID).
		Str("verdict", verdict).
		Msg("A/B verdict recorded")
	return id, nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
