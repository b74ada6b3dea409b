package store

import "path/filepath"

// On-disk layout of an index directory.
const (
	indexDirName    = "index.bleve"
	manifestName    = "manifest.db"
	lockName        = ".writer.lock"
	indexMetaName   = "index_meta.json"
	writerBudgetDef = 50 << 20
)

// IndexPath is the bleve index inside dir.
func IndexPath(dir string) string { return filepath.Join(dir, indexDirName) }

// ManifestPath is the SQLite manifest inside dir.
func ManifestPath(dir string) string { return filepath.Join(dir, manifestName) }

// LockPath is the writer lock file inside dir.
func LockPath(dir string) string { return filepath.Join(dir, lockName) }
