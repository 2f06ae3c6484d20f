package datastore

import (
	"database/sql"
	"time"
)

// Speaker maps to the speakers table. Speakers are optional metadata on
// samples, used for the speaker-similarity MOS attribute.
type Speaker struct {
	ID          int            `json:"speaker_id"`
	Name        string         `json:"speaker_name"`
	Gender      sql.NullString `json:"gender,omitempty"`
	Age         sql.NullInt64  `json:"age,omitempty"`
	Accent      sql.NullString `json:"accent,omitempty"`
	Description sql.NullString `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
