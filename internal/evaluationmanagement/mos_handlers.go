// Package evaluationmanagement serves the rating flows: fetching MOS and A/B
// evaluation batches for the signed-in rater and recording submitted ratings.
// Batch state lives on the rater's session; the sampling engine and the
// recorder do the actual work.
package evaluationmanagement

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/auth"
	"tts-eval-platform/backend/internal/coreengine/ratingrecorder"
	"tts-eval-platform/backend/internal/coreengine/samplingengine"
	"tts-eval-platform/backend/internal/datastore"
)

// HistoryStore supplies the rater's prior-rating exclusion sets, fetched
// fresh from storage on every batch request.
type HistoryStore interface {
	ListRatedSampleIDs(userID int) ([]int, error)
	ListRatedPairs(userID int) ([]datastore.PairRef, error)
}

// Defaults carries the configured batch sizes.
type Defaults struct {
	MOSBatchSize   int
	MOSMaxPerModel int
	ABPairCount    int
}

// Handler serves the evaluation endpoints.
type Handler struct {
	sampler  *samplingengine.Engine
	recorder *ratingrecorder.Recorder
	history  HistoryStore
	defaults Defaults
	logger   zerolog.Logger
}

// NewHandler creates an evaluation handler.
func NewHandler(sampler *samplingengine.Engine, recorder *ratingrecorder.Recorder, history HistoryStore, defaults Defaults, logger zerolog.Logger) *Handler {
	return &Handler{
		sampler:  sampler,
		recorder: recorder,
		history:  history,
		defaults: defaults,
		logger:   logger.With().Str("component", "evaluationmanagement").Logger(),
	}
}

// mosBatchItem is one sample as presented to the rater. The owning model is
// deliberately not exposed during rating.
type mosBatchItem struct {
	SampleID      int    `json:"sample_id"`
	Text          string `json:"text"`
	AudioURL      string `json:"audio_url"`
	Language      string `json:"language,omitempty"`
	IsGroundTruth bool   `json:"is_ground_truth"`
}

// MOSBatchHandler starts a fresh MOS batch for the session, excluding every
// sample the rater has already rated. An empty batch means nothing is left
// to rate.
func (h *Handler) MOSBatchHandler(c *gin.Context) {
	sess := auth.CurrentSession(c)

	size := queryInt(c, "size", h.defaults.MOSBatchSize)
	maxPerModel := queryInt(c, "max_per_model", h.defaults.MOSMaxPerModel)
	language := c.Query("language")

	excludeIDs, err := h.history.ListRatedSampleIDs(sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rating history"})
		return
	}

	batch, err := h.sampler.SelectMOSBatch(size, maxPerModel, excludeIDs, language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select samples"})
		return
	}

	sess.Batches.SetMOSBatch(batch)

	items := make([]mosBatchItem, 0, len(batch))
	for _, s := range batch {
		items = append(items, mosBatchItem{
			SampleID:      s.ID,
			Text:          s.Text,
			AudioURL:      s.AudioURL,
			Language:      s.Language.String,
			IsGroundTruth: s.IsGroundTruth,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"samples":       items,
		"already_rated": len(excludeIDs),
		"nothing_to_do": len(items) == 0,
	})
}

// MOSRatingPayload is one submitted MOS rating.
type MOSRatingPayload struct {
	SampleID int                      `json:"sample_id" binding:"required"`
	Scores   ratingrecorder.MOSScores `json:"scores"`
}

// SubmitMOSRatingHandler validates and persists one MOS rating for the
// current rater.
func (h *Handler) SubmitMOSRatingHandler(c *gin.Context) {
	sess := auth.CurrentSession(c)

	var payload MOSRatingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if sess.Batches.SampleRated(payload.SampleID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Sample already rated in this batch"})
		return
	}

	ratingID, err := h.recorder.RecordMOSRating(payload.SampleID, sess.UserID, payload.Scores)
	if err != nil {
		switch {
		case errors.Is(err, ratingrecorder.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, datastore.ErrDuplicateRating):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already rated this sample"})
		default:
			h.logger.Error().Err(err).Int("sample_id", payload.SampleID).Msg("failed to record MOS rating")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record rating"})
		}
		return
	}

	sess.Batches.MarkSampleRated(payload.SampleID)
	c.JSON(http.StatusCreated, gin.H{"rating_id": ratingID})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
