package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetUserByUsername looks a user up by username.
func (s *Store) GetUserByUsername(username string) (*User, error) {
	query := `
		SELECT user_id, username, fullname, password_hash, salt, is_admin, last_login_at, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	u := &User{}
	err := s.db.QueryRow(query, username).Scan(
		&u.ID,
		&u.Username,
		&u.Fullname,
		&u.PasswordHash,
		&u.Salt,
		&u.IsAdmin,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return u, nil
}

// CreateUser inserts a new user and returns its ID.
func (s *Store) CreateUser(u *User) (int, error) {
	query := `
		INSERT INTO users (username, fullname, password_hash, salt, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	var id int
	err := s.db.QueryRow(
		query,
		u.Username,
		u.Fullname,
		u.PasswordHash,
		u.Salt,
		u.IsAdmin,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// UpdateLastLogin records a successful login.
func (s *Store) UpdateLastLogin(userID int) error {
	now := time.Now()
	_, err := s.db.Exec(
		"UPDATE users SET last_login_at = $1, updated_at = $2 WHERE user_id = $3",
		now, now, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last login for user %d: %w", userID, err)
	}
	return nil
}
