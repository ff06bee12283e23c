package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrDataUnavailable indicates the scheme corpus could not be loaded.
// Callers must fail fast on it; there is no partial-corpus fallback.
var ErrDataUnavailable = errors.New("scheme corpus unavailable")

// Source loads raw scheme records from a backing store.
type Source interface {
	Load(ctx context.Context) ([]ProgramRecord, error)
}

// JSONSource reads the corpus from a JSON file in the original format.
type JSONSource struct {
	path string
}

// NewJSONSource creates a JSON corpus source.
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// Load reads and decodes the scheme file. Any failure wraps
// ErrDataUnavailable.
func (s *JSONSource) Load(ctx context.Context) ([]ProgramRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, s.path, err)
	}

	var records []ProgramRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrDataUnavailable, s.path, err)
	}

	return records, nil
}

// LoadEnriched loads the corpus from a source and normalizes every record.
func LoadEnriched(ctx context.Context, src Source) ([]EnrichedRecord, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedRecord, 0, len(records))
	for _, rec := range records {
		enriched = append(enriched, Normalize(rec))
	}
	return enriched, nil
}

// StaticSource serves an in-memory record slice. Used in tests and demos.
type StaticSource struct {
	Records []ProgramRecord
}

// Load returns the static records.
func (s *StaticSource) Load(ctx context.Context) ([]ProgramRecord, error) {
	return s.Records, nil
}
