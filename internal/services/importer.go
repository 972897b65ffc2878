package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/metrics"
	"github.com/ajaypar09/Projects/internal/models"
)

// Format is the encoding of an import file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the import format from a file extension, defaulting
// to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeRecords reads a list of import records. JSON numbers are kept as
// json.Number so prices are parsed from their literal text.
func DecodeRecords(r io.Reader, format Format) ([]any, error) {
	var payload any
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &models.ValidationError{Message: "import file is empty"}
			}
			return nil, &models.ValidationError{Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, &models.ValidationError{Message: "import file is empty"}
			}
			return nil, &models.ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
	}

	records, ok := payload.([]any)
	if !ok {
		return nil, &models.ValidationError{Message: "expected a list of card entries"}
	}
	return records, nil
}

// ImportOptions controls batch behavior
type ImportOptions struct {
	// ContinueOnError keeps importing after a failing record and reports
	// every failure in the result. By default the first failure aborts the
	// batch; records already written stay written.
	ContinueOnError bool
}

// ImportResult summarizes a batch import
type ImportResult struct {
	Processed int                  `json:"processed"`
	Skipped   int                  `json:"skipped"`
	Failed    []models.RecordError `json:"failed,omitempty"`
}

// Importer loads card records with their provider prices and sales
type Importer struct {
	store *database.Store
	opts  ImportOptions
}

// NewImporter creates a new importer
func NewImporter(store *database.Store, opts ImportOptions) *Importer {
	return &Importer{store: store, opts: opts}
}

// ImportFile decodes path and imports its records
func (i *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	records, err := DecodeRecords(f, FormatFromPath(path))
	if err != nil {
		return ImportResult{}, err
	}
	return i.Import(ctx, records)
}

// Import writes every record in its own transaction. Entries that are not
// objects are skipped. A record missing serial_number or name, or carrying a
// provider value that cannot be normalized, fails as a whole.
func (i *Importer) Import(ctx context.Context, records []any) (ImportResult, error) {
	var result ImportResult
	defer func() {
		metrics.ImportRecordsTotal.WithLabelValues("processed").Add(float64(result.Processed))
		metrics.ImportRecordsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
		metrics.ImportRecordsTotal.WithLabelValues("failed").Add(float64(len(result.Failed)))
	}()

	for idx, raw := range records {
		entry, ok := raw.(map[string]any)
		if !ok {
			log.Warn().Int("index", idx).Msgf("Skipping non-object import entry of type %T", raw)
			result.Skipped++
			continue
		}

		if err := i.importRecord(ctx, idx, entry); err != nil {
			var recErr *models.RecordError
			if !errors.As(err, &recErr) {
				return result, err
			}
			result.Failed = append(result.Failed, *recErr)
			log.Warn().Err(recErr.Err).Int("index", idx).Str("serial_number", recErr.SerialNumber).Msg("Import record failed")
			if !i.opts.ContinueOnError {
				return result, recErr
			}
			continue
		}
		result.Processed++
	}

	if count, err := i.store.CountCards(ctx); err == nil {
		metrics.CardDatabaseSize.Set(float64(count))
	}

	log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Failed)).
		Msg("Import finished")
	return result, nil
}

// sourcePayload is one provider object of a record, already normalized
type sourcePayload struct {
	source string
	data   NormalizedPayload
}

// importRecord returns a *models.RecordError for problems with the record
// itself and a plain error for storage failures.
func (i *Importer) importRecord(ctx context.Context, idx int, entry map[string]any) error {
	serial, err := requiredString(entry, "serial_number")
	if err != nil {
		return &models.RecordError{Index: idx, Err: err}
	}
	fail := func(err error) error {
		return &models.RecordError{Index: idx, SerialNumber: serial, Err: err}
	}

	name, err := requiredString(entry, "name")
	if err != nil {
		return fail(err)
	}
	setName, err := cardString(entry, "set_name")
	if err != nil {
		return fail(err)
	}
	rarity, err := cardString(entry, "rarity")
	if err != nil {
		return fail(err)
	}

	// Normalize every provider before any write
	var payloads []sourcePayload
	for _, fm := range ProviderFieldMaps {
		raw, ok := entry[fm.PayloadKey]
		if !ok || raw == nil {
			continue
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return fail(&models.DataError{Source: fm.Source, Field: fm.PayloadKey, Value: raw, Err: fmt.Errorf("expected an object")})
		}
		data, err := Normalize(fm, obj)
		if err != nil {
			return fail(err)
		}
		payloads = append(payloads, sourcePayload{source: fm.Source, data: data})
	}

	return i.store.Transaction(ctx, func(tx *database.Store) error {
		cardID, err := tx.UpsertCard(ctx, serial, name, setName, rarity)
		if err != nil {
			return err
		}
		for _, p := range payloads {
			if len(p.data.Prices) > 0 {
				if err := tx.UpsertPrices(ctx, cardID, p.source, p.data.Prices); err != nil {
					if errors.Is(err, models.ErrInvalidData) {
						return fail(err)
					}
					return err
				}
			}
			if p.data.HasSales {
				if err := tx.ReplaceSales(ctx, cardID, p.source, p.data.Sales); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func requiredString(entry map[string]any, field string) (string, error) {
	value, err := cardString(entry, field)
	if err != nil {
		return "", err
	}
	if value == nil || strings.TrimSpace(*value) == "" {
		return "", &models.ValidationError{Field: field, Message: "is required"}
	}
	return *value, nil
}

// cardString reads an optional card field. Numbers are accepted so serials
// like 58 survive formats that do not quote them.
func cardString(entry map[string]any, field string) (*string, error) {
	switch v := entry[field].(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case json.Number:
		s := v.String()
		return &s, nil
	case int, int64, uint64, float64:
		s := fmt.Sprint(v)
		return &s, nil
	default:
		return nil, &models.ValidationError{Field: field, Message: fmt.Sprintf("must be a string, got %T", v)}
	}
}
