package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	"github.com/Aman-CERP/cjkfts/internal/document"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/ident"
	"github.com/Aman-CERP/cjkfts/internal/metrics"
	"github.com/Aman-CERP/cjkfts/internal/query"
	"github.com/Aman-CERP/cjkfts/internal/seed"
	"github.com/Aman-CERP/cjkfts/internal/store"
)

// Profile is a language profile.
type Profile = analysis.Profile

// Supported profiles.
const (
	Korean         = analysis.Korean
	JapaneseIPADIC = analysis.JapaneseIPADIC
	JapaneseUniDic = analysis.JapaneseUniDic
	Chinese        = analysis.Chinese
)

// ParseProfile resolves a profile name such as "korean", "ja" or "zh".
func ParseProfile(s string) (Profile, error) {
	p, err := analysis.ParseProfile(s)
	if err != nil {
		return 0, cerrors.New(cerrors.ErrCodeInvalidProfile, err.Error(), err)
	}
	return p, nil
}

// Profiles lists every supported profile.
func Profiles() []Profile { return analysis.Profiles() }

// Result is one search hit.
type Result = query.Result

// DocumentInput is one document for AddBatch.
type DocumentInput = document.Input

// Info describes the engine's current index.
type Info struct {
	Profile      Profile   `json:"profile"`
	Path         string    `json:"path,omitempty"` // empty for in-memory indexes
	Documents    uint64    `json:"documents"`
	Generation   uint64    `json:"generation"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	LastCommitAt time.Time `json:"last_commit_at,omitzero"`
	Commits      int64     `json:"commits"`
}

type options struct {
	logger       *slog.Logger
	cacheSize    int
	writerBudget int64
	registerer   prometheus.Registerer
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCacheSize sets how many search result sets are cached per index.
// 0 disables the cache.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithWriterBudget sets the soft per-commit buffer budget in bytes.
func WithWriterBudget(bytes int64) Option {
	return func(o *options) {
		o.writerBudget = bytes
	}
}

// WithMetrics registers the engine's Prometheus collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithClock sets the clock used for document ids and manifest timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Engine is an explicitly owned search engine instance. The zero value is
// not usable; call New.
type Engine struct {
	mu     sync.Mutex // guards the fields below; held for whole mutations
	handle *store.Handle
	docs   *document.Manager
	search *query.Engine

	opts options
	ids  *ident.Generator
}

// New creates an Engine with no index. Every operation other than
// Initialize, InitializeAt and Close fails with ErrNotInitialized until one
// of those succeeds.
func New(opts ...Option) *Engine {
	o := options{
		logger:    slog.Default(),
		cacheSize: query.DefaultCacheSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.registerer != nil {
		if err := metrics.Register(o.registerer); err != nil {
			o.logger.Warn("metrics_register_failed", slog.String("error", err.Error()))
		}
	}

	return &Engine{opts: o, ids: ident.NewWithClock(o.now)}
}

func (e *Engine) storeOptions() store.Options {
	return store.Options{
		Logger:       e.opts.logger,
		WriterBudget: e.opts.writerBudget,
		Now:          e.opts.now,
	}
}

// Initialize replaces the current index with an empty in-memory one.
func (e *Engine) Initialize(ctx context.Context, p Profile) (err error) {
	defer observe("initialize", time.Now(), &err)

	return e.install(ctx, p, "", func() (*store.Handle, error) {
		return store.OpenMemory(p, e.storeOptions())
	})
}

// InitializeAt replaces the current index with the one stored at path,
// creating it if needed. An empty path behaves like Initialize.
//
// A failed initialization keeps the previous index. When path is the
// directory the engine already has open, a different profile is rejected
// up front; any other reopen failure restores the previous handle.
func (e *Engine) InitializeAt(ctx context.Context, p Profile, path string) (err error) {
	if path == "" {
		return e.Initialize(ctx, p)
	}
	defer observe("initialize", time.Now(), &err)

	abs, err := filepath.Abs(path)
	if err != nil {
		return cerrors.New(cerrors.ErrCodeDirCreate, fmt.Sprintf("invalid index path %s", path), err)
	}
	return e.install(ctx, p, abs, func() (*store.Handle, error) {
		return store.OpenDir(ctx, p, abs, e.storeOptions())
	})
}

func (e *Engine) install(ctx context.Context, p Profile, dir string, open func() (*store.Handle, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle != nil && dir != "" && e.handle.Dir() == dir {
		return e.reopen(ctx, p, open)
	}

	h, err := open()
	if err != nil {
		return err
	}
	old := e.handle
	if err := e.attach(h); err != nil {
		_ = h.Close()
		return err
	}
	if old != nil {
		if err := old.Close(); err != nil {
			e.opts.logger.Warn("index_close_failed", slog.String("path", old.Dir()), slog.String("error", err.Error()))
		}
	}
	return nil
}

// reopen replaces the handle on the directory that is already open. The old
// handle must release its lock before the new one can take it, so on failure
// the directory is reopened with its previous profile.
func (e *Engine) reopen(ctx context.Context, p Profile, open func() (*store.Handle, error)) error {
	old := e.handle
	dir := old.Dir()
	if old.Profile() != p {
		return store.ProfileMismatch(old.Profile(), p)
	}

	if err := old.Close(); err != nil {
		e.opts.logger.Warn("index_close_failed", slog.String("path", dir), slog.String("error", err.Error()))
	}
	e.reset()

	h, err := open()
	if err == nil {
		if err = e.attach(h); err == nil {
			return nil
		}
		_ = h.Close()
	}

	prev, restoreErr := store.OpenDir(ctx, old.Profile(), dir, e.storeOptions())
	if restoreErr == nil {
		restoreErr = e.attach(prev)
	}
	if restoreErr != nil {
		if prev != nil {
			_ = prev.Close()
		}
		e.opts.logger.Error("index_restore_failed",
			slog.String("path", dir),
			slog.String("error", restoreErr.Error()))
		return err
	}
	e.opts.logger.Warn("index_restored",
		slog.String("path", dir),
		slog.String("error", err.Error()))
	return err
}

// attach makes h the current index.
func (e *Engine) attach(h *store.Handle) error {
	docs, err := document.NewManager(h, document.WithIDs(e.ids), document.WithLogger(e.opts.logger))
	if err != nil {
		return err
	}
	search, err := query.NewEngine(h, query.WithCacheSize(e.opts.cacheSize), query.WithLogger(e.opts.logger))
	if err != nil {
		return err
	}
	e.handle, e.docs, e.search = h, docs, search
	return nil
}

func (e *Engine) reset() {
	e.handle, e.docs, e.search = nil, nil, nil
}

// IndexSeedDocuments adds the built-in fifteen-document multilingual sample
// corpus in one commit and returns how many documents were added.
func (e *Engine) IndexSeedDocuments(ctx context.Context) (n int, err error) {
	defer observe("seed", time.Now(), &err)

	ids, err := e.addBatch(ctx, seed.Inputs())
	return len(ids), err
}

// Search returns up to limit results for query, best first. An empty query
// or a non-positive limit returns no results. Syntax errors match
// ErrInvalidQuery.
func (e *Engine) Search(ctx context.Context, q string, limit int) (results []Result, err error) {
	defer observe("search", time.Now(), &err)

	e.mu.Lock()
	s := e.search
	e.mu.Unlock()

	if s == nil {
		return nil, cerrors.NotInitialized()
	}
	return s.Search(ctx, q, limit)
}

// Add indexes one document under a fresh id and returns the id. Metadata
// that is not a JSON object is stored as {}.
func (e *Engine) Add(ctx context.Context, title, body, metadataJSON string) (id string, err error) {
	defer observe("add", time.Now(), &err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return "", cerrors.NotInitialized()
	}

	id, err = e.docs.Add(ctx, title, body, metadataJSON)
	if err == nil {
		metrics.Committed(1)
	}
	return id, err
}

// AddBatch indexes docs in one commit and returns their ids in order.
// Documents with an empty ID get a generated one; explicit ids are used as
// given, duplicates included.
func (e *Engine) AddBatch(ctx context.Context, docs []DocumentInput) (ids []string, err error) {
	defer observe("add_batch", time.Now(), &err)

	return e.addBatch(ctx, docs)
}

func (e *Engine) addBatch(ctx context.Context, docs []DocumentInput) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return nil, cerrors.NotInitialized()
	}

	ids, err := e.docs.AddBatch(ctx, docs)
	if err == nil {
		metrics.Committed(len(ids))
	}
	return ids, err
}

// Update replaces all documents with id by one new document with the same
// id, atomically.
func (e *Engine) Update(ctx context.Context, id, title, body, metadataJSON string) (err error) {
	defer observe("update", time.Now(), &err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return cerrors.NotInitialized()
	}

	if err = e.docs.Update(ctx, id, title, body, metadataJSON); err == nil {
		metrics.Committed(1)
	}
	return err
}

// Delete removes all documents with id. Unknown ids are not an error.
func (e *Engine) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", time.Now(), &err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return cerrors.NotInitialized()
	}
	return e.docs.Delete(ctx, id)
}

// DeleteBatch removes all documents whose id is in ids, in one commit.
func (e *Engine) DeleteBatch(ctx context.Context, ids []string) (err error) {
	defer observe("delete_batch", time.Now(), &err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return cerrors.NotInitialized()
	}
	return e.docs.DeleteBatch(ctx, ids)
}

// ClearAll removes every document.
func (e *Engine) ClearAll(ctx context.Context) (err error) {
	defer observe("clear_all", time.Now(), &err)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.docs == nil {
		return cerrors.NotInitialized()
	}
	return e.docs.ClearAll(ctx)
}

// Count returns the number of committed documents.
func (e *Engine) Count(ctx context.Context) (n uint64, err error) {
	defer observe("count", time.Now(), &err)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	e.mu.Lock()
	h := e.handle
	e.mu.Unlock()

	if h == nil {
		return 0, cerrors.NotInitialized()
	}
	return h.Count()
}

// Info describes the current index.
func (e *Engine) Info(ctx context.Context) (Info, error) {
	e.mu.Lock()
	h := e.handle
	e.mu.Unlock()

	if h == nil {
		return Info{}, cerrors.NotInitialized()
	}
	si, err := h.Info(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Profile:      si.Profile,
		Path:         si.Dir,
		Documents:    si.Documents,
		Generation:   si.Generation,
		CreatedAt:    si.CreatedAt,
		LastCommitAt: si.LastCommitAt,
		Commits:      si.Commits,
	}, nil
}

// Close releases the current index. The engine returns to the
// uninitialized state and may be initialized again.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handle == nil {
		return nil
	}
	err := e.handle.Close()
	e.reset()
	return err
}

// PreloadDictionaries loads the dictionaries of profiles (all when none are
// given) so the first Initialize does not pay for it.
func PreloadDictionaries(ctx context.Context, profiles ...Profile) error {
	if len(profiles) == 0 {
		profiles = analysis.Profiles()
	}
	return analysis.Default().Preload(ctx, profiles...)
}

// DictionaryLoaded reports whether the dictionary of p is in memory.
func DictionaryLoaded(p Profile) bool {
	return analysis.Default().Loaded(p)
}

func observe(op string, start time.Time, err *error) {
	metrics.Observe(op, start, *err)
}
