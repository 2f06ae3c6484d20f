package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSpeakerByName looks a speaker up by name.
func (s *Store) GetSpeakerByName(name string) (*Speaker, error) {
	query := `
		SELECT speaker_id, speaker_name, gender, age, accent, description, created_at
		FROM speakers
		WHERE speaker_name = $1
	`
	sp := &Speaker{}
	err := s.db.QueryRow(query, name).Scan(
		&sp.ID,
		&sp.Name,
		&sp.Gender,
		&sp.Age,
		&sp.Accent,
		&sp.Description,
		&sp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get speaker %q: %w", name, err)
	}
	return sp, nil
}

// CreateSpeaker inserts a new speaker and returns its ID.
func (s *Store) CreateSpeaker(sp *Speaker) (int, error) {
	query := `
		INSERT INTO speakers (speaker_name, gender, age, accent, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING speaker_id
	`
	sp.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(query, sp.Name, sp.Gender, sp.Age, sp.Accent, sp.Description, sp.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create speaker: %w", err)
	}
	return id, nil
}

// EnsureSpeaker returns the ID of the named speaker, creating it if missing.
func (s *Store) EnsureSpeaker(name string) (int, error) {
	sp, err := s.GetSpeakerByName(name)
	if err == nil {
		return sp.ID, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	return s.CreateSpeaker(&Speaker{Name: name})
}
