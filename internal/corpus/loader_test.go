package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemes.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONSource_Load(t *testing.T) {
	path := writeCorpusFile(t, `[
		{
			"scheme_name": "Kisan Credit",
			"state": "Goa",
			"sub_category": ["Financial assistance"],
			"eligibility": ["Must be 18-60 years old."]
		},
		{
			"scheme_name": "Crop Cover",
			"sub_category": ["Crop insurance"]
		}
	]`)

	records, err := NewJSONSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Kisan Credit", records[0].SchemeName)
	assert.Equal(t, "Goa", records[0].State)
	assert.Equal(t, []string{"Financial assistance"}, records[0].SubCategories)
	assert.Empty(t, records[1].State)
}

func TestJSONSource_Load_MissingFile(t *testing.T) {
	src := NewJSONSource(filepath.Join(t.TempDir(), "missing.json"))

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestJSONSource_Load_MalformedJSON(t *testing.T) {
	path := writeCorpusFile(t, `{"not": "a list"`)

	_, err := NewJSONSource(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestJSONSource_Load_CancelledContext(t *testing.T) {
	path := writeCorpusFile(t, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewJSONSource(path).Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestLoadEnriched(t *testing.T) {
	src := &StaticSource{Records: []ProgramRecord{
		{SchemeName: "A", State: "Goa", Eligibility: []string{"Minimum age 21 for applicants."}},
		{SchemeName: "B"},
	}}

	enriched, err := LoadEnriched(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	require.NotNil(t, enriched[0].Hints.AgeMin)
	assert.Equal(t, 21, *enriched[0].Hints.AgeMin)
	assert.Equal(t, []string{"Goa"}, enriched[0].Hints.States)
	assert.Equal(t, []string{"Central"}, enriched[1].Hints.States)
}
