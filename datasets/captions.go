package datasets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
)

// CaptionMap maps an image identifier to its tokenized captions.
type CaptionMap map[string][][]int

// Column names expected in CSV caption files.
const (
	CaptionImageColumn  = "image"
	CaptionTokensColumn = "tokens"
)

// LoadCaptions reads already tokenized captions. The format is chosen by
// extension:
//
//   - .json: an object {"img.jpg": [[1, 2, 3], [1, 4]]}
//   - .csv: columns "image" and "tokens", one caption per row, tokens
//     separated by spaces.
func LoadCaptions(path string) (CaptionMap, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadCaptionsJSON(path)
	case ".csv":
		return loadCaptionsCSV(path)
	default:
		return nil, errors.Errorf("unsupported caption file format %q", path)
	}
}

func loadCaptionsJSON(path string) (CaptionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read captions %s", path)
	}
	var captions CaptionMap
	if err := json.Unmarshal(data, &captions); err != nil {
		return nil, errors.Wrapf(err, "failed to parse captions %s", path)
	}
	return captions, nil
}

func loadCaptionsCSV(path string) (CaptionMap, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open captions %s", path)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file, dataframe.WithTypes(map[string]series.Type{
		CaptionImageColumn:  series.String,
		CaptionTokensColumn: series.String,
	}))
	if df.Err != nil {
		return nil, errors.Wrapf(df.Err, "failed to read captions %s", path)
	}
	names := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		names[name] = true
	}
	for _, required := range []string{CaptionImageColumn, CaptionTokensColumn} {
		if !names[required] {
			return nil, errors.Errorf("required column %q not found in %s", required, path)
		}
	}

	images := df.Col(CaptionImageColumn).Records()
	tokens := df.Col(CaptionTokensColumn).Records()
	captions := make(CaptionMap)
	for row, id := range images {
		id = strings.TrimSpace(id)
		seq, err := parseTokens(tokens[row])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", path, row+1)
		}
		captions[id] = append(captions[id], seq)
	}
	return captions, nil
}

func parseTokens(s string) ([]int, error) {
	fields := strings.Fields(s)
	seq := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid token %q", field)
		}
		seq[i] = v
	}
	return seq, nil
}
