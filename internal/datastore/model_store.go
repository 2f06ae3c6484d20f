package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// CreateModel inserts a new model and returns its ID.
func (s *Store) CreateModel(m *Model) (int, error) {
	query := `
		INSERT INTO models (model_name, description, created_at)
		VALUES ($1, $2, $3)
		RETURNING model_id
	`
	m.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(query, m.Name, m.Description, m.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create model: %w", err)
	}
	return id, nil
}

// GetModelByName looks a model up by its unique display name.
func (s *Store) GetModelByName(name string) (*Model, error) {
	query := `
		SELECT model_id, model_name, description, created_at
		FROM models
		WHERE model_name = $1
	`
	m := &Model{}
	err := s.db.QueryRow(query, name).Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get model %q: %w", name, err)
	}
	return m, nil
}

// ListModels returns all models ordered by name.
func (s *Store) ListModels() ([]*Model, error) {
	query := `
		SELECT model_id, model_name, description, created_at
		FROM models
		ORDER BY model_name
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	models := []*Model{}
	for rows.Next() {
		m := &Model{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model row: %w", err)
		}
		models = append(models, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for models: %w", err)
	}
	return models, nil
}
