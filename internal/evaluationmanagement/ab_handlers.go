package evaluationmanagement

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tts-eval-platform/backend/internal/auth"
	"tts-eval-platform/backend/internal/coreengine/ratingrecorder"
	"tts-eval-platform/backend/internal/coreengine/samplingengine"
)

// abBatchItem is one pair as presented to the rater. FirstAudioURL and
// SecondAudioURL already have the session's swap applied, so the client
// renders them in order and never learns which stored side is which. Model
// names are withheld during rating.
type abBatchItem struct {
	SampleAID      int    `json:"sample_a_id"`
	SampleBID      int    `json:"sample_b_id"`
	Text           string `json:"text"`
	FirstAudioURL  string `json:"first_audio_url"`
	SecondAudioURL string `json:"second_audio_url"`
}

// ABBatchHandler starts a fresh A/B batch for the session, excluding every
// pair the rater has already judged in either orientation. The optional
// model_a query restricts one side of each pair to the named model.
func (h *Handler) ABBatchHandler(c *gin.Context) {
	sess := auth.CurrentSession(c)

	count := queryInt(c, "count", h.defaults.ABPairCount)
	modelA := c.Query("model_a")

	excludePairs, err := h.history.ListRatedPairs(sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rating history"})
		return
	}

	pairs, err := h.sampler.SelectABBatch(count, excludePairs, modelA)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select sample pairs"})
		return
	}

	sess.Batches.SetABBatch(pairs)

	items := make([]abBatchItem, 0, len(pairs))
	for _, p := range pairs {
		item := abBatchItem{
			SampleAID:      p.SampleAID,
			SampleBID:      p.SampleBID,
			Text:           p.Text,
			FirstAudioURL:  p.AudioAURL,
			SecondAudioURL: p.AudioBURL,
		}
		if swap, _ := sess.Batches.SwapFor(p.SampleAID, p.SampleBID); swap {
			item.FirstAudioURL, item.SecondAudioURL = item.SecondAudioURL, item.FirstAudioURL
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{
		"pairs":         items,
		"already_rated": len(excludePairs),
		"nothing_to_do": len(items) == 0,
	})
}

// ABVerdictPayload is one submitted A/B verdict as displayed to the rater.
type ABVerdictPayload struct {
	SampleAID       int    `json:"sample_a_id" binding:"required"`
	SampleBID       int    `json:"sample_b_id" binding:"required"`
	Verdict         string `json:"verdict" binding:"required"`
	Reason          string `json:"reason"`
	DurationSeconds int    `json:"duration_seconds"`
}

// SubmitABVerdictHandler un-swaps the displayed verdict into the pair's
// stored orientation and persists it. Un-swapping must happen here, before
// the write; the aggregator only ever sees stored-orientation verdicts.
func (h *Handler) SubmitABVerdictHandler(c *gin.Context) {
	sess := auth.CurrentSession(c)

	var payload ABVerdictPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if sess.Batches.PairRated(payload.SampleAID, payload.SampleBID) {
		c.JSON(http.StatusConflict, gin.H{"error": "Pair already rated in this batch"})
		return
	}

	// Only pairs of the active batch carry a swap flag; a verdict for anything
	// else cannot be un-swapped reliably and is rejected.
	swapped, presented := sess.Batches.SwapFor(payload.SampleAID, payload.SampleBID)
	if !presented {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pair is not part of the active batch"})
		return
	}
	stored := samplingengine.UnswapVerdict(payload.Verdict, swapped)

	testID, err := h.recorder.RecordABVerdict(
		payload.SampleAID,
		payload.SampleBID,
		sess.UserID,
		stored,
		payload.Reason,
		payload.DurationSeconds,
	)
	if err != nil {
		switch {
		case errors.Is(err, ratingrecorder.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ratingrecorder.ErrPairIntegrity):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			h.logger.Error().Err(err).
				Int("sample_a_id", payload.SampleAID).
				Int("sample_b_id", payload.SampleBID).
				Msg("failed to record A/B verdict")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record verdict"})
		}
		return
	}

	sess.Batches.MarkPairRated(payload.SampleAID, payload.SampleBID)
	c.JSON(http.StatusCreated, gin.H{"test_id": testID})
}
