package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/Aman-CERP/cjkfts/internal/analysis"
)

// State is what the manifest records about an index directory.
type State struct {
	Profile       analysis.Profile
	SchemaVersion int
	CreatedAt     time.Time
	LastCommitAt  time.Time // zero until the first commit
	Commits       int64
}

// Manifest is a small SQLite database next to the bleve index. It pins the
// language profile and schema version the directory was created with and
// tracks commit bookkeeping.
type Manifest struct {
	db   *sql.DB
	path string
}

// OpenManifest opens or creates the manifest at path.
func OpenManifest(ctx context.Context, path string) (*Manifest, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}

	// Single writer; the directory lock already excludes other processes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	m := &Manifest{db: db, path: path}
	if err := m.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize manifest schema: %w", err)
	}
	return m, nil
}

func (m *Manifest) initSchema(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);

	-- Exactly one row describing the index directory.
	CREATE TABLE IF NOT EXISTS index_state (
		id             INTEGER PRIMARY KEY CHECK (id = 1),
		profile        TEXT    NOT NULL,
		schema_version INTEGER NOT NULL,
		created_at     TEXT    NOT NULL,
		last_commit_at TEXT,
		commits        INTEGER NOT NULL DEFAULT 0
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

// Load returns the recorded state. found is false for a fresh manifest.
func (m *Manifest) Load(ctx context.Context) (st State, found bool, err error) {
	var (
		profile    string
		createdAt  string
		lastCommit sql.NullString
	)
	row := m.db.QueryRowContext(ctx,
		`SELECT profile, schema_version, created_at, last_commit_at, commits FROM index_state WHERE id = 1`)
	if err := row.Scan(&profile, &st.SchemaVersion, &createdAt, &lastCommit, &st.Commits); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to read manifest: %w", err)
	}

	if st.Profile, err = analysis.ParseProfile(profile); err != nil {
		return State{}, false, fmt.Errorf("manifest names unknown profile %q: %w", profile, err)
	}
	if st.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return State{}, false, fmt.Errorf("manifest has bad created_at: %w", err)
	}
	if lastCommit.Valid {
		if st.LastCommitAt, err = time.Parse(time.RFC3339Nano, lastCommit.String); err != nil {
			return State{}, false, fmt.Errorf("manifest has bad last_commit_at: %w", err)
		}
	}
	return st, true, nil
}

// Init records the state of a newly created index. An existing row is kept.
func (m *Manifest) Init(ctx context.Context, st State) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO index_state (id, profile, schema_version, created_at) VALUES (1, ?, ?, ?)`,
		st.Profile.String(), st.SchemaVersion, st.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// RecordCommit stamps a successful commit.
func (m *Manifest) RecordCommit(ctx context.Context, at time.Time) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE index_state SET last_commit_at = ?, commits = commits + 1 WHERE id = 1`,
		at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record commit: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (m *Manifest) Path() string { return m.path }

// Close closes the database.
func (m *Manifest) Close() error {
	return m.db.Close()
}
