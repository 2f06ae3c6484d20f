package datastore

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ErrDuplicateRating is returned when a (sample, rater) pair already has a
// recorded MOS rating.
var ErrDuplicateRating = errors.New("rating already recorded for this sample and rater")

const uniqueViolationCode = "23505"

// InsertMOSRating writes one immutable MOS rating row and returns its ID.
// A second rating for the same (sample, rater) pair hits the unique index and
// surfaces as ErrDuplicateRating.
func (s *Store) InsertMOSRating(r *MOSRating) (int, error) {
	query := `
		INSERT INTO mos_ratings
			(sample_id, user_id, naturalness, intelligibility, pronunciation,
			 prosody, speaker_similarity, overall_rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING rating_id
	`
	r.CreatedAt = time.Now()

	var id int
	err := s.db.QueryRow(
		query,
		r.SampleID,
		r.UserID,
		r.Naturalness,
		r.Intelligibility,
		r.Pronunciation,
		r.Prosody,
		r.SpeakerSimilarity,
		r.OverallRating,
		r.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return 0, ErrDuplicateRating
		}
		return 0, fmt.Errorf("failed to insert MOS rating: %w", err)
	}
	return id, nil
}

// ListRatedSampleIDs returns the distinct sample IDs the given rater has
// already rated, the sampler's exclusion set.
func (s *Store) ListRatedSampleIDs(userID int) ([]int, error) {
	rows, err := s.db.Query("SELECT DISTINCT sample_id FROM mos_ratings WHERE user_id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rated sample ids: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan rated sample id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for rated sample ids: %w", err)
	}
	return ids, nil
}

// ListMOSRatingDetails returns every MOS rating joined with its sample's model
// name and the rater's username, the raw input of the aggregation engine.
func (s *Store) ListMOSRatingDetails() ([]*MOSRatingDetail, error) {
	query := `
		SELECT r.rating_id, r.sample_id, r.user_id,
		       r.naturalness, r.intelligibility, r.pronunciation,
		       r.prosody, r.speaker_similarity, r.overall_rating,
		       r.created_at, m.model_name, u.username
		FROM mos_ratings r
		JOIN samples s ON r.sample_id = s.sample_id
		JOIN models m ON s.model_id = m.model_id
		JOIN users u ON r.user_id = u.user_id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list MOS rating details: %w", err)
	}
	defer rows.Close()

	details := []*MOSRatingDetail{}
	for rows.Next() {
		d := &MOSRatingDetail{}
		if err := rows.Scan(
			&d.ID,
			&d.SampleID,
			&d.UserID,
			&d.Naturalness,
			&d.Intelligibility,
			&d.Pronunciation,
			&d.Prosody,
			&d.SpeakerSimilarity,
			&d.OverallRating,
			&d.CreatedAt,
			&d.ModelName,
			&d.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan MOS rating detail row: %w", err)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for MOS rating details: %w", err)
	}
	return details, nil
}
