package datastore

import (
	"database/sql"
	"time"
)

// Model maps to the models table: one named TTS system under evaluation.
// Immutable after ingestion.
type Model struct {
	ID          int            `json:"model_id"`
	Name        string         `json:"model_name"`
	Description sql.NullString `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
