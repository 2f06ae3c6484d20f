// Package catalogmanagement serves the admin catalog endpoints: model and
// sample CRUD, audio upload into the object store, and CSV manifest import.
package catalogmanagement

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/datastore"
	"tts-eval-platform/backend/internal/ingestion"
	"tts-eval-platform/backend/internal/objectstore"
)

// CatalogStore is the storage contract for catalog administration.
type CatalogStore interface {
	CreateModel(m *datastore.Model) (int, error)
	ListModels() ([]*datastore.Model, error)
	CreateSample(s *datastore.Sample) (int, error)
	ListSamples() ([]*datastore.SampleCandidate, error)
	EnsureSpeaker(name string) (int, error)
}

// Handler serves the catalog endpoints.
type Handler struct {
	store    CatalogStore
	audio    *objectstore.AudioStore
	importer *ingestion.Importer
	logger   zerolog.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(store CatalogStore, audio *objectstore.AudioStore, importer *ingestion.Importer, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		audio:    audio,
		importer: importer,
		logger:   logger.With().Str("component", "catalogmanagement").Logger(),
	}
}

// ModelPayload is the JSON body for creating a model.
type ModelPayload struct {
	Name        string `json:"model_name" binding:"required"`
	Description string `json:"description"`
}

// CreateModelHandler registers a new TTS model under evaluation.
func (h *Handler) CreateModelHandler(c *gin.Context) {
	var payload ModelPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	m := &datastore.Model{Name: payload.Name}
	if payload.Description != "" {
		m.Description = sql.NullString{String: payload.Description, Valid: true}
	}
	id, err := h.store.CreateModel(m)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create model"})
		return
	}
	m.ID = id
	c.JSON(http.StatusCreated, m)
}

// ListModelsHandler lists all registered models. Available to any signed-in
// rater: the A/B comparison mode lets raters pin one side to a model.
func (h *Handler) ListModelsHandler(c *gin.Context) {
	models, err := h.store.ListModels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list models"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": models})
}

// SamplePayload is the JSON body for registering a single sample.
type SamplePayload struct {
	ModelID       int    `json:"model_id" binding:"required"`
	SpeakerName   string `json:"speaker_name"`
	Text          string `json:"text" binding:"required"`
	AudioURL      string `json:"audio_url" binding:"required"`
	Language      string `json:"language"`
	IsGroundTruth bool   `json:"is_ground_truth"`
}

// CreateSampleHandler registers one sample referencing an uploaded audio
// object.
func (h *Handler) CreateSampleHandler(c *gin.Context) {
	var payload SamplePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	sample := &datastore.Sample{
		ModelID:       payload.ModelID,
		Text:          payload.Text,
		AudioURL:      payload.AudioURL,
		IsGroundTruth: payload.IsGroundTruth,
	}
	if payload.Language != "" {
		sample.Language = sql.NullString{String: payload.Language, Valid: true}
	}
	if payload.SpeakerName != "" {
		speakerID, err := h.store.EnsureSpeaker(payload.SpeakerName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve speaker"})
			return
		}
		sample.SpeakerID = sql.NullInt64{Int64: int64(speakerID), Valid: true}
	}

	id, err := h.store.CreateSample(sample)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sample"})
		return
	}
	sample.ID = id
	c.JSON(http.StatusCreated, sample)
}

// ListSamplesHandler lists all samples with model names and rating counts.
func (h *Handler) ListSamplesHandler(c *gin.Context) {
	samples, err := h.store.ListSamples()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list samples"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

// UploadAudioHandler stores one audio file and returns its object name for
// use as a sample's audio_url.
func (h *Handler) UploadAudioHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing audio file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	objectName, err := h.audio.Upload(c.Request.Context(), file.Filename, src, file.Size, contentType)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", file.Filename).Msg("audio upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store audio file"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"audio_url": objectName})
}

// ImportSamplesHandler ingests a CSV manifest of samples.
func (h *Handler) ImportSamplesHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing CSV file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	report, err := h.importer.ImportCSV(src, c.Query("language"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ServeAudioHandler streams an audio object to the rater's player.
func (h *Handler) ServeAudioHandler(c *gin.Context) {
	objectName := c.Param("object")

	reader, size, contentType, err := h.audio.Reader(c.Request.Context(), objectName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audio not found"})
		return
	}
	defer reader.Close()

	if contentType == "" {
		contentType = "audio/wav"
	}
	c.DataFromReader(http.StatusOK, size, contentType, reader, nil)
}
