package datasets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCaptions_JSONAndCSVAgree(t *testing.T) {
	tmp := t.TempDir()
	want := CaptionMap{
		"a.jpg": {{1, 2}, {1, 2, 3}},
		"b.jpg": {{4}},
	}

	jsonPath := filepath.Join(tmp, "captions.json")
	writeJSON(t, jsonPath, want)
	fromJSON, err := LoadCaptions(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, want, fromJSON)

	csvPath := filepath.Join(tmp, "captions.csv")
	writeLines(t, csvPath, []string{
		"image,tokens",
		"a.jpg,1 2",
		"a.jpg,1 2 3",
		"b.jpg,4",
	})
	fromCSV, err := LoadCaptions(csvPath)
	require.NoError(t, err)
	assert.Equal(t, want, fromCSV)
}

func TestLoadCaptions_CSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.csv")
	writeLines(t, path, []string{
		"image,caption",
		"a.jpg,1 2",
	})
	_, err := LoadCaptions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"tokens"`)
}

func TestLoadCaptions_CSVBadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.csv")
	writeLines(t, path, []string{
		"image,tokens",
		"a.jpg,1 two 3",
	})
	_, err := LoadCaptions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestLoadCaptions_UnknownFormat(t *testing.T) {
	_, err := LoadCaptions(filepath.Join(t.TempDir(), "captions.yaml"))
	assert.Error(t, err)
}
