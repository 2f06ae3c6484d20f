// Package ingestion imports sample catalogs from CSV manifests. Each manifest
// row references an already-uploaded audio object and carries the sample's
// text and model. The importer creates missing models and speakers, skips
// audio objects that are already registered, and warns about near-duplicate
// texts within a model, which would undermine cross-model pair matching.
package ingestion

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"tts-eval-platform/backend/internal/datastore"
)

// nearDuplicateRatio is the levenshtein similarity above which two distinct
// texts of the same model are flagged.
const nearDuplicateRatio = 0.9

// CatalogStore is the storage contract for registering imported samples.
type CatalogStore interface {
	GetModelByName(name string) (*datastore.Model, error)
	CreateModel(m *datastore.Model) (int, error)
	EnsureSpeaker(name string) (int, error)
	CreateSample(s *datastore.Sample) (int, error)
	ListAudioURLs() (map[string]bool, error)
	ListSamples() ([]*datastore.SampleCandidate, error)
}

// Importer loads CSV manifests into the catalog.
type Importer struct {
	store  CatalogStore
	logger zerolog.Logger
}

// NewImporter creates a CSV importer.
func NewImporter(store CatalogStore, logger zerolog.Logger) *Importer {
	return &Importer{
		store:  store,
		logger: logger.With().Str("component", "ingestion").Logger(),
	}
}

// Report summarizes one import run.
type Report struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// row is one parsed manifest line.
type row struct {
	Filename    string
	Text        string
	ModelName   string
	SpeakerName string
	Language    string
	line        int
}

// ImportCSV reads a manifest and registers its samples. Expected header:
// filename,text,model_name[,speaker_name][,language]. Rows whose audio object
// is already registered are skipped. Parse errors abort the whole import;
// nothing row-level is rolled back, matching the original batch importer's
// append-only behavior.
func (i *Importer) ImportCSV(r io.Reader, defaultLanguage string) (*Report, error) {
	rows, err := parseManifest(r, defaultLanguage)
	if err != nil {
		return nil, err
	}

	existing, err := i.store.ListAudioURLs()
	if err != nil {
		return nil, err
	}
	catalog, err := i.store.ListSamples()
	if err != nil {
		return nil, err
	}

	// Texts already in the catalog, per model, for near-duplicate checks.
	textsByModel := map[string][]string{}
	for _, s := range catalog {
		textsByModel[s.ModelName] = append(textsByModel[s.ModelName], s.Text)
	}

	report := &Report{}
	modelIDs := map[string]int{}
	speakerIDs := map[string]int{}

	for _, rw := range rows {
		if existing[rw.Filename] {
			report.Skipped++
			continue
		}

		modelID, ok := modelIDs[rw.ModelName]
		if !ok {
			modelID, err = i.ensureModel(rw.ModelName)
			if err != nil {
				return nil, err
			}
			modelIDs[rw.ModelName] = modelID
		}

		sample := &datastore.Sample{
			ModelID:  modelID,
			Text:     rw.Text,
			AudioURL: rw.Filename,
		}
		if rw.Language != "" {
			sample.Language = sql.NullString{String: rw.Language, Valid: true}
		}
		if rw.SpeakerName != "" {
			speakerID, ok := speakerIDs[rw.SpeakerName]
			if !ok {
				speakerID, err = i.store.EnsureSpeaker(rw.SpeakerName)
				if err != nil {
					return nil, err
				}
				speakerIDs[rw.SpeakerName] = speakerID
			}
			sample.SpeakerID = sql.NullInt64{Int64: int64(speakerID), Valid: true}
		}

		if warning := checkNearDuplicate(rw, textsByModel[rw.ModelName]); warning != "" {
			report.Warnings = append(report.Warnings, warning)
		}
		textsByModel[rw.ModelName] = append(textsByModel[rw.ModelName], rw.Text)

		if _, err := i.store.CreateSample(sample); err != nil {
			return nil, err
		}
		existing[rw.Filename] = true
		report.Imported++
	}

	i.logger.Info().
		Int("imported", report.Imported).
		Int("skipped", report.Skipped).
		Int("warnings", len(report.Warnings)).
		Msg("CSV import finished")
	return report, nil
}

func (i *Importer) ensureModel(name string) (int, error) {
	m, err := i.store.GetModelByName(name)
	if err == nil {
		return m.ID, nil
	}
	if !errors.Is(err, datastore.ErrNotFound) {
		return 0, err
	}
	return i.store.CreateModel(&datastore.Model{Name: name})
}

// checkNearDuplicate flags a new text that duplicates or nearly duplicates an
// existing text of the same model. Identical (text, model) pairs defeat the
// cross-model pair join, which expects texts to be roughly unique per model.
func checkNearDuplicate(rw row, modelTexts []string) string {
	for _, existing := range modelTexts {
		if existing == rw.Text {
			return fmt.Sprintf("line %d: model %q already has a sample with identical text", rw.line, rw.ModelName)
		}
		ratio := levenshtein.RatioForStrings([]rune(existing), []rune(rw.Text), levenshtein.DefaultOptions)
		if ratio > nearDuplicateRatio {
			return fmt.Sprintf("line %d: model %q has a near-duplicate text (similarity %.2f)", rw.line, rw.ModelName, ratio)
		}
	}
	return ""
}

func parseManifest(r io.Reader, defaultLanguage string) ([]row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"filename", "text", "model_name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("CSV manifest missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := []row{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV line %d: %w", line, err)
		}

		rw := row{
			Filename:    field(record, "filename"),
			Text:        field(record, "text"),
			ModelName:   field(record, "model_name"),
			SpeakerName: field(record, "speaker_name"),
			Language:    field(record, "language"),
			line:        line,
		}
		if rw.Language == "" {
			rw.Language = defaultLanguage
		}
		if rw.Filename == "" || rw.Text == "" || rw.ModelName == "" {
			return nil, fmt.Errorf("CSV line %d: filename, text and model_name are required", line)
		}
		rows = append(rows, rw)
	}
	return rows, nil
}
