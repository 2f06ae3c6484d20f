package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// CreateSample inserts a new sample and returns its ID.
func (s *Store) CreateSample(sm *Sample) (int, error) {
	query := `
		INSERT INTO samples (model_id, speaker_id, text, audio_url, language, is_ground_truth, vote_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING sample_id
	`
	sm.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(
		query,
		sm.ModelID,
		sm.SpeakerID,
		sm.Text,
		sm.AudioURL,
		sm.Language,
		sm.IsGroundTruth,
		sm.VoteCount,
		sm.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create sample: %w", err)
	}
	return id, nil
}

// GetSample retrieves a sample by ID.
func (s *Store) GetSample(id int) (*Sample, error) {
	query := `
		SELECT sample_id, model_id, speaker_id, text, audio_url, language, is_ground_truth, vote_count, created_at
		FROM samples
		WHERE sample_id = $1
	`
	sm := &Sample{}
	err := s.db.QueryRow(query, id).Scan(
		&sm.ID,
		&sm.ModelID,
		&sm.SpeakerID,
		&sm.Text,
		&sm.AudioURL,
		&sm.Language,
		&sm.IsGroundTruth,
		&sm.VoteCount,
		&sm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sample %d: %w", id, err)
	}
	return sm, nil
}

// ListSamples returns all samples with their model names, newest first.
func (s *Store) ListSamples() ([]*SampleCandidate, error) {
	query := `
		SELECT s.sample_id, s.model_id, s.speaker_id, s.text, s.audio_url, s.language,
		       s.is_ground_truth, s.vote_count, s.created_at, m.model_name,
		       COUNT(r.rating_id) AS rating_count
		FROM samples s
		JOIN models m ON s.model_id = m.model_id
		LEFT JOIN mos_ratings r ON s.sample_id = r.sample_id
		GROUP BY s.sample_id, m.model_name
		ORDER BY s.created_at DESC
	`
	return s.querySampleCandidates(query)
}

// ListCandidateSamples returns every sample not in excludeIDs, each carrying
// its model name and total rating count across all raters. An empty language
// selects all languages. Ranking, per-model caps and tie-breaking are the
// sampling engine's job; this query only supplies the raw candidate set.
func (s *Store) ListCandidateSamples(excludeIDs []int, language string) ([]*SampleCandidate, error) {
	query := `
		SELECT s.sample_id, s.model_id, s.speaker_id, s.text, s.audio_url, s.language,
		       s.is_ground_truth, s.vote_count, s.created_at, m.model_name,
		       COUNT(r.rating_id) AS rating_count
		FROM samples s
		JOIN models m ON s.model_id = m.model_id
		LEFT JOIN mos_ratings r ON s.sample_id = r.sample_id
		WHERE NOT (s.sample_id = ANY($1))
	`
	params := []interface{}{pq.Array(normalizeExclusions(excludeIDs))}
	if language != "" {
		query += " AND s.language = $2"
		params = append(params, language)
	}
	query += " GROUP BY s.sample_id, m.model_name"

	return s.querySampleCandidates(query, params...)
}

// normalizeExclusions guarantees a non-nil slice. pq encodes a nil slice as
// SQL NULL, and `NOT (x = ANY(NULL))` is NULL, which would filter out every
// candidate instead of none.
func normalizeExclusions(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

func (s *Store) querySampleCandidates(query string, params ...interface{}) ([]*SampleCandidate, error) {
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample candidates: %w", err)
	}
	defer rows.Close()

	candidates := []*SampleCandidate{}
	for rows.Next() {
		c := &SampleCandidate{}
		if err := rows.Scan(
			&c.ID,
			&c.ModelID,
			&c.SpeakerID,
			&c.Text,
			&c.AudioURL,
			&c.Language,
			&c.IsGroundTruth,
			&c.VoteCount,
			&c.CreatedAt,
			&c.ModelName,
			&c.RatingCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sample candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for sample candidates: %w", err)
	}
	return candidates, nil
}

// ListRandomPairs returns up to limit cross-model same-text pairs in random
// order. When modelA is non-empty, the left side is restricted to that model.
// Exclusion of already-rated pairs happens in the sampling engine, which
// oversamples through this query and filters in memory.
func (s *Store) ListRandomPairs(limit int, modelA string) ([]*PairCandidate, error) {
	query := `
		SELECT s1.sample_id AS sample_a_id, s2.sample_id AS sample_b_id,
		       s1.text, s1.audio_url AS audio_a_url, s2.audio_url AS audio_b_url,
		       m1.model_name AS model_a_name, m2.model_name AS model_b_name
		FROM samples s1
		JOIN samples s2 ON s1.text = s2.text AND s1.sample_id != s2.sample_id
		JOIN models m1 ON s1.model_id = m1.model_id
		JOIN models m2 ON s2.model_id = m2.model_id
		WHERE s1.model_id != s2.model_id
	`
	params := []interface{}{}
	if modelA != "" {
		query += " AND m1.model_name = $1"
		params = append(params, modelA)
	}
	query += fmt.Sprintf(" ORDER BY RANDOM() LIMIT $%d", len(params)+1)
	params = append(params, limit)

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query random pairs: %w", err)
	}
	defer rows.Close()

	pairs := []*PairCandidate{}
	for rows.Next() {
		p := &PairCandidate{}
		if err := rows.Scan(
			&p.SampleAID,
			&p.SampleBID,
			&p.Text,
			&p.AudioAURL,
			&p.AudioBURL,
			&p.ModelAName,
			&p.ModelBName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pair candidate row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for pair candidates: %w", err)
	}
	return pairs, nil
}

// IncrementVoteCount bumps a sample's denormalized vote counter. The update is
// a single statement so concurrent verdicts rely on the database's per-statement
// atomicity only.
func (s *Store) IncrementVoteCount(sampleID int) error {
	result, err := s.db.Exec("UPDATE samples SET vote_count = vote_count + 1 WHERE sample_id = $1", sampleID)
	if err != nil {
		return fmt.Errorf("failed to increment vote count for sample %d: %w", sampleID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("sample %d not found for vote count increment: %w", sampleID, ErrNotFound)
	}
	return nil
}

// ListAudioURLs returns the set of audio object names already registered,
// used by the importer to skip duplicates.
func (s *Store) ListAudioURLs() (map[string]bool, error) {
	rows, err := s.db.Query("SELECT audio_url FROM samples")
	if err != nil {
		return nil, fmt.Errorf("failed to list audio urls: %w", err)
	}
	defer rows.Close()

	urls := map[string]bool{}
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan audio url row: %w", err)
		}
		urls[u] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for audio urls: %w", err)
	}
	return urls, nil
}
