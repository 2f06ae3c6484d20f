package datastore

import (
	"database/sql"
	"time"
)

// User maps to the users table: an authenticated rater identity. Ratings
// reference users weakly for exclusion sets and audit only.
type User struct {
	ID           int            `json:"user_id"`
	Username     string         `json:"username"`
	Fullname     sql.NullString `json:"fullname,omitempty"`
	PasswordHash string         `json:"-"`
	Salt         sql.NullString `json:"-"`
	IsAdmin      bool           `json:"is_admin"`
	LastLoginAt  sql.NullTime   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
