package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

// validateIndexIntegrity checks a bleve directory before opening it. A
// missing directory is fine (it will be created); a directory without a
// readable index_meta.json is not.
func validateIndexIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	metaPath := filepath.Join(path, indexMetaName)
	info, err := os.Stat(metaPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s missing (corrupted index)", indexMetaName)
	}
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", indexMetaName, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s is empty (corrupted)", indexMetaName)
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", indexMetaName, err)
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("%s is corrupt: %w", indexMetaName, err)
	}
	return nil
}

// isCorruptionError reports whether a bleve open error means the files on
// disk are damaged rather than, say, a permissions problem.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bleve.ErrorIndexMetaCorrupt) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "unexpected end of JSON") ||
		strings.Contains(s, "error parsing mapping JSON") ||
		strings.Contains(s, "failed to load segment") ||
		strings.Contains(s, "error opening bolt")
}
