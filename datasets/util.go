package datasets

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LoadSplitIDs reads a split file with one image identifier per line. Lines
// are trimmed and empty lines dropped; the order of the file is kept.
func LoadSplitIDs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open split file %s", path)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read split file %s", path)
	}
	return ids, nil
}

// Auto-discovery helpers

var splitFilePatterns = []string{"%s.txt", "%s_ids.txt", "%s.lst"}

// FindSplitFile looks for the file listing the identifiers of split (e.g.
// "train", "val") inside dir.
func FindSplitFile(dir, split string) (string, error) {
	for _, pattern := range splitFilePatterns {
		candidate := filepath.Join(dir, strings.Replace(pattern, "%s", split, 1))
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no split file for %q found in %s", split, dir)
}
