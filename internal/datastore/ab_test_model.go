package datastore

import (
	"database/sql"
	"time"
)

// ABTest maps to the ab_tests table: one rater's verdict between two samples
// of equal text from different models. The verdict is stored un-swapped, in
// the pair's stored orientation. Rows are never mutated.
type ABTest struct {
	ID              int            `json:"test_id"`
	SampleAID       int            `json:"sample_a_id"`
	SampleBID       int            `json:"sample_b_id"`
	UserID          int            `json:"user_id"`
	SelectedSample  string         `json:"selected_sample"`
	SelectionReason sql.NullString `json:"selection_reason,omitempty"`
	TestDuration    int            `json:"test_duration"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ABResultCount is one aggregation row: verdict counts grouped by the stored
// ordered (modelA, modelB) pair. Reversed orientations are separate rows.
type ABResultCount struct {
	ModelA string `json:"model_a"`
	ModelB string `json:"model_b"`
	AWins  int    `json:"a_wins"`
	BWins  int    `json:"b_wins"`
	Ties   int    `json:"ties"`
	Total  int    `json:"total"`
}
