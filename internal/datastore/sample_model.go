package datastore

import (
	"database/sql"
	"time"
)

// Sample maps to the samples table: one rendered audio clip produced by a
// model from a source text. Immutable after ingestion except for vote_count,
// which the recorder increments on each A/B verdict.
type Sample struct {
	ID            int            `json:"sample_id"`
	ModelID       int            `json:"model_id"`
	SpeakerID     sql.NullInt64  `json:"speaker_id,omitempty"`
	Text          string         `json:"text"`
	AudioURL      string         `json:"audio_url"`
	Language      sql.NullString `json:"language,omitempty"`
	IsGroundTruth bool           `json:"is_ground_truth"`
	VoteCount     int            `json:"vote_count"`
	CreatedAt     time.Time      `json:"created_at"`
}

// SampleCandidate is a sample enriched with its owning model's name and the
// total number of MOS ratings it has received across all raters. The sampling
// engine ranks candidates by RatingCount.
type SampleCandidate struct {
	Sample
	ModelName   string `json:"model_name"`
	RatingCount int    `json:"rating_count"`
}

// PairCandidate is a comparable cross-model pair: two samples rendered from
// identical text by different models.
type PairCandidate struct {
	SampleAID  int    `json:"sample_a_id"`
	SampleBID  int    `json:"sample_b_id"`
	Text       string `json:"text"`
	AudioAURL  string `json:"audio_a_url"`
	AudioBURL  string `json:"audio_b_url"`
	ModelAName string `json:"model_a_name"`
	ModelBName string `json:"model_b_name"`
}

// PairRef identifies a stored comparison by its two sample IDs, in stored
// orientation.
type PairRef struct {
	SampleAID int `json:"sample_a_id"`
	SampleBID int `json:"sample_b_id"`
}
