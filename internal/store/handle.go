// Package store owns the on-disk or in-memory bleve index behind a search
// engine instance.
//
// A Handle pairs the index with its language profile. Mutations run inside a
// Writer session and become visible to searches atomically when the session
// commits; a failed session leaves the committed state untouched. Each commit
// advances the handle's generation, which readers use to invalidate caches.
//
// A directory-backed handle lays its files out as:
//
//	<dir>/index.bleve/   bleve index (schema + segments)
//	<dir>/manifest.db    SQLite manifest: profile, schema version, commits
//	<dir>/.writer.lock   exclusive lock held while the handle is open
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/logging"
	"github.com/Aman-CERP/cjkfts/internal/schema"
)

// Options tunes a Handle. Zero values select defaults.
type Options struct {
	Logger *slog.Logger

	// WriterBudget is the soft cap in bytes on one writer session's buffered
	// documents. Exceeding it is logged; the commit still happens.
	WriterBudget int64

	// Now is the clock used for manifest timestamps.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.WriterBudget <= 0 {
		o.WriterBudget = writerBudgetDef
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Handle is an open index.
type Handle struct {
	mu      sync.RWMutex // guards closed; held shared by readers and writers
	writeMu sync.Mutex   // one writer session at a time
	closed  bool

	index    bleve.Index
	profile  analysis.Profile
	dir      string
	lock     *DirLock
	manifest *Manifest
	opts     Options

	generation atomic.Uint64
}

// OpenMemory creates an empty in-memory index for profile p.
func OpenMemory(p analysis.Profile, opts Options) (*Handle, error) {
	opts = opts.withDefaults()

	im, err := schema.Build(p)
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, cerrors.InternalError("failed to create in-memory index", err)
	}

	opts.Logger.Info("index_created",
		slog.String("profile", p.String()),
		slog.Bool("memory", true))

	return &Handle{index: idx, profile: p, opts: opts}, nil
}

// OpenDir opens the index stored in dir, creating it when dir holds none.
// An existing index must have been created with profile p.
func OpenDir(ctx context.Context, p analysis.Profile, dir string, opts Options) (h *Handle, err error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if !p.Valid() {
		return nil, cerrors.New(cerrors.ErrCodeInvalidProfile, fmt.Sprintf("invalid language profile %s", p), nil)
	}
	// Load the dictionary up front so its failure is reported as such and
	// not buried inside a bleve open error.
	if _, err := analysis.Default().Segmenter(p); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, cerrors.New(cerrors.ErrCodeDirCreate, fmt.Sprintf("failed to create index directory %s", dir), err)
	}

	lock := NewDirLock(dir)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeIndexLocked, "failed to lock index directory", err).
			WithDetail("path", dir)
	}
	if !acquired {
		return nil, cerrors.New(cerrors.ErrCodeIndexLocked, fmt.Sprintf("index at %s is open in another writer", dir), nil).
			WithDetail("path", dir).
			WithSuggestion("close the other process or engine using this directory")
	}

	var (
		manifest *Manifest
		idx      bleve.Index
	)
	defer func() {
		if err == nil {
			return
		}
		if idx != nil {
			_ = idx.Close()
		}
		if manifest != nil {
			_ = manifest.Close()
		}
		_ = lock.Unlock()
	}()

	manifest, err = OpenManifest(ctx, ManifestPath(dir))
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeManifest, "failed to open index manifest", err).
			WithDetail("path", ManifestPath(dir))
	}
	state, found, err := manifest.Load(ctx)
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeManifest, "failed to read index manifest", err)
	}
	if found {
		if err = checkState(state, p); err != nil {
			return nil, err
		}
	}

	indexPath := IndexPath(dir)
	if err = validateIndexIntegrity(indexPath); err != nil {
		logger.Error("index_corrupted",
			slog.String("path", indexPath),
			slog.String("error", err.Error()))
		return nil, corruptError(indexPath, err)
	}

	created := false
	idx, err = bleve.Open(indexPath)
	switch {
	case errors.Is(err, bleve.ErrorIndexPathDoesNotExist):
		im, buildErr := schema.Build(p)
		if buildErr != nil {
			err = buildErr
			return nil, err
		}
		idx, err = bleve.New(indexPath, im)
		if err != nil {
			idx = nil
			return nil, cerrors.New(cerrors.ErrCodeDirCreate, "failed to create index", err).
				WithDetail("path", indexPath)
		}
		created = true
	case err != nil:
		idx = nil
		if cerrors.HasCode(err, cerrors.ErrCodeDictionaryLoad) {
			return nil, err
		}
		logger.Error("index_corrupted",
			slog.String("path", indexPath),
			slog.String("error", err.Error()),
			slog.Bool("corruption", isCorruptionError(err)))
		return nil, corruptError(indexPath, err)
	}

	if !created {
		if err = schema.Validate(idx.Mapping(), p); err != nil {
			return nil, err
		}
	}

	if !found {
		if err = manifest.Init(ctx, State{
			Profile:       p,
			SchemaVersion: schema.Version,
			CreatedAt:     opts.Now(),
		}); err != nil {
			return nil, cerrors.New(cerrors.ErrCodeManifest, "failed to initialize index manifest", err)
		}
	}

	count, _ := idx.DocCount()
	event := "index_opened"
	if created {
		event = "index_created"
	}
	logger.Info(event,
		slog.String("path", dir),
		slog.String("profile", p.String()),
		slog.Uint64("documents", count))

	return &Handle{
		index:    idx,
		profile:  p,
		dir:      dir,
		lock:     lock,
		manifest: manifest,
		opts:     opts,
	}, nil
}

func checkState(st State, p analysis.Profile) error {
	if st.Profile != p {
		return ProfileMismatch(st.Profile, p)
	}
	if st.SchemaVersion != schema.Version {
		return cerrors.New(cerrors.ErrCodeSchemaMismatch,
			fmt.Sprintf("index schema version %d is not supported (want %d)", st.SchemaVersion, schema.Version), nil)
	}
	return nil
}

// ProfileMismatch is the error for opening an index created with profile
// have under profile want.
func ProfileMismatch(have, want analysis.Profile) error {
	return cerrors.New(cerrors.ErrCodeSchemaMismatch,
		fmt.Sprintf("index was created for profile %s, not %s", have, want), nil).
		WithDetail("index_profile", have.String()).
		WithDetail("requested_profile", want.String()).
		WithSuggestion("open the index with --profile " + have.String())
}

func corruptError(path string, cause error) error {
	return cerrors.New(cerrors.ErrCodeCorruptIndex, fmt.Sprintf("index at %s is unreadable", path), cause).
		WithDetail("path", path).
		WithSuggestion("restore the directory from a backup or remove it to start over")
}

// Profile returns the language profile the index was built with.
func (h *Handle) Profile() analysis.Profile { return h.profile }

// Dir returns the index directory, or "" for an in-memory handle.
func (h *Handle) Dir() string { return h.dir }

// Generation returns a counter that advances with every commit.
func (h *Handle) Generation() uint64 { return h.generation.Load() }

func (h *Handle) closedError() error {
	return cerrors.New(cerrors.ErrCodeIndexClosed, "index is closed", nil)
}

// Search runs req against the last committed state. The returned generation
// is the one the results belong to.
func (h *Handle) Search(ctx context.Context, req *bleve.SearchRequest) (*bleve.SearchResult, uint64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return nil, 0, h.closedError()
	}

	gen := h.generation.Load()
	res, err := h.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, gen, cerrors.New(cerrors.ErrCodeSearchFailed, "search failed", err)
	}
	return res, gen, nil
}

// Count returns the number of committed documents.
func (h *Handle) Count() (uint64, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return 0, h.closedError()
	}
	n, err := h.index.DocCount()
	if err != nil {
		return 0, cerrors.InternalError("failed to count documents", err)
	}
	return n, nil
}

// Info describes an open handle.
type Info struct {
	Profile      analysis.Profile
	Dir          string
	Documents    uint64
	Generation   uint64
	CreatedAt    time.Time
	LastCommitAt time.Time
	Commits      int64
}

// Info reports the handle's state, reading the manifest for directory handles.
func (h *Handle) Info(ctx context.Context) (Info, error) {
	n, err := h.Count()
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Profile:    h.profile,
		Dir:        h.dir,
		Documents:  n,
		Generation: h.Generation(),
	}
	if h.manifest != nil {
		st, found, err := h.manifest.Load(ctx)
		if err != nil {
			return Info{}, cerrors.New(cerrors.ErrCodeManifest, "failed to read index manifest", err)
		}
		if found {
			info.CreatedAt = st.CreatedAt
			info.LastCommitAt = st.LastCommitAt
			info.Commits = st.Commits
		}
	}
	return info, nil
}

// Close releases the index, the manifest and the directory lock. It waits
// for in-flight searches and writer sessions. Closing twice is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if err := h.index.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close index: %w", err))
	}
	if h.manifest != nil {
		if err := h.manifest.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close manifest: %w", err))
		}
	}
	if h.lock != nil {
		if err := h.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
