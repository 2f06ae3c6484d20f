package datastore

import (
	"fmt"
	"time"
)

// InsertABTest writes one immutable A/B verdict row and returns its ID.
func (s *Store) InsertABTest(t *ABTest) (int, error) {
	query := `
		INSERT INTO ab_tests
			(sample_a_id, sample_b_id, user_id, selected_sample, selection_reason, test_duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING test_id
	`
	t.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(
		query,
		t.SampleAID,
		t.SampleBID,
		t.UserID,
		t.SelectedSample,
		t.SelectionReason,
		t.TestDuration,
		t.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert A/B test: %w", err)
	}
	return id, nil
}

// ListRatedPairs returns the sample pairs the given rater has already judged,
// in stored orientation. The sampling engine excludes them symmetrically.
func (s *Store) ListRatedPairs(userID int) ([]PairRef, error) {
	rows, err := s.db.Query("SELECT sample_a_id, sample_b_id FROM ab_tests WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rated pairs: %w", err)
	}
	defer rows.Close()

	pairs := []PairRef{}
	for rows.Next() {
		var p PairRef
		if err := rows.Scan(&p.SampleAID, &p.SampleBID); err != nil {
			return nil, fmt.Errorf("failed to scan rated pair row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for rated pairs: %w", err)
	}
	return pairs, nil
}

// ListABResultCounts groups all stored verdicts by the ordered (modelA, modelB)
// pair. A row where both sides resolve to the same model indicates corrupted
// pair data; the aggregation engine rejects it.
func (s *Store) ListABResultCounts() ([]*ABResultCount, error) {
	query := `
		SELECT m1.model_name AS model_a, m2.model_name AS model_b,
		       COUNT(CASE WHEN a.selected_sample = 'A' THEN 1 END) AS a_wins,
		       COUNT(CASE WHEN a.selected_sample = 'B' THEN 1 END) AS b_wins,
		       COUNT(CASE WHEN a.selected_sample = 'tie' THEN 1 END) AS ties,
		       COUNT(*) AS total
		FROM ab_tests a
		JOIN samples s1 ON a.sample_a_id = s1.sample_id
		JOIN samples s2 ON a.sample_b_id = s2.sample_id
		JOIN models m1 ON s1.model_id = m1.model_id
		JOIN models m2 ON s2.model_id = m2.model_id
		GROUP BY m1.model_name, m2.model_name
		ORDER BY m1.model_name, m2.model_name
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list A/B result counts: %w", err)
	}
	defer rows.Close()

	counts := []*ABResultCount{}
	for rows.Next() {
		c := &ABResultCount{}
		if err := rows.Scan(&c.ModelA, &c.ModelB, &c.AWins, &c.BWins, &c.Ties, &c.Total); err != nil {
			return nil, fmt.Errorf("failed to scan A/B result count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for A/B result counts: %w", err)
	}
	return counts, nil
}
