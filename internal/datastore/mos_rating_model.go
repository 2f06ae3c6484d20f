package datastore

import (
	"database/sql"
	"time"
)

// MOSRating maps to the mos_ratings table: one rater's scoring of one sample
// across the fixed MOS attributes. Null attribute columns mean "not
// applicable" and are excluded from aggregation. Rows are never mutated.
type MOSRating struct {
	ID                int             `json:"rating_id"`
	SampleID          int             `json:"sample_id"`
	UserID            int             `json:"user_id"`
	Naturalness       sql.NullFloat64 `json:"naturalness,omitempty"`
	Intelligibility   sql.NullFloat64 `json:"intelligibility,omitempty"`
	Pronunciation     sql.NullFloat64 `json:"pronunciation,omitempty"`
	Prosody           sql.NullFloat64 `json:"prosody,omitempty"`
	SpeakerSimilarity sql.NullFloat64 `json:"speaker_similarity,omitempty"`
	OverallRating     sql.NullFloat64 `json:"overall_rating,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// MOSRatingDetail is a rating row joined with its sample's model name, the
// shape the aggregation engine consumes.
type MOSRatingDetail struct {
	MOSRating
	ModelName string `json:"model_name"`
	Username  string `json:"username"`
}
