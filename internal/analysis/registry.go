package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// Registry hands out one loaded Segmenter per profile.
//
// Dictionaries are loaded lazily, at most once per Registry, and concurrent
// first requests for the same profile share a single load. A failed load is
// not cached so a later call can retry.
type Registry struct {
	loaders map[Profile]Loader
	logger  *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	loaded map[Profile]Segmenter
}

// NewRegistry creates a registry over loaders. A nil logger uses slog.Default.
func NewRegistry(loaders map[Profile]Loader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loaders: loaders,
		logger:  logger,
		loaded:  make(map[Profile]Segmenter),
	}
}

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry(DefaultLoaders(), nil))
}

// Default returns the process-wide registry used by the bleve tokenizers.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry and returns a func that
// restores the previous one.
func SetDefault(r *Registry) (restore func()) {
	prev := defaultRegistry.Swap(r)
	return func() { defaultRegistry.Store(prev) }
}

// Segmenter returns the segmenter for p, loading its dictionary on first use.
// Failures carry ErrCodeDictionaryLoad.
func (r *Registry) Segmenter(p Profile) (Segmenter, error) {
	r.mu.RLock()
	seg, ok := r.loaded[p]
	r.mu.RUnlock()
	if ok {
		return seg, nil
	}

	v, err, _ := r.group.Do(p.String(), func() (any, error) {
		r.mu.RLock()
		seg, ok := r.loaded[p]
		r.mu.RUnlock()
		if ok {
			return seg, nil
		}
		return r.load(p)
	})
	if err != nil {
		return nil, err
	}
	return v.(Segmenter), nil
}

func (r *Registry) load(p Profile) (Segmenter, error) {
	if !p.Valid() {
		return nil, cerrors.New(cerrors.ErrCodeInvalidProfile, fmt.Sprintf("unknown language profile %d", int(p)), nil)
	}

	loader, ok := r.loaders[p]
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeDictionaryLoad,
			fmt.Sprintf("no loader registered for profile %s", p), nil)
	}

	start := time.Now()
	seg, err := loader()
	if err != nil {
		r.logger.Error("dictionary_load_failed",
			slog.String("profile", p.String()),
			slog.String("dictionary", p.DictionaryName()),
			slog.String("error", err.Error()))
		return nil, cerrors.New(cerrors.ErrCodeDictionaryLoad,
			fmt.Sprintf("failed to load %s dictionary for profile %s", p.DictionaryName(), p), err).
			WithDetail("profile", p.String())
	}

	r.mu.Lock()
	r.loaded[p] = seg
	r.mu.Unlock()

	r.logger.Info("dictionary_loaded",
		slog.String("profile", p.String()),
		slog.String("dictionary", p.DictionaryName()),
		slog.Duration("took", time.Since(start)))

	return seg, nil
}

// Loaded reports whether p's dictionary is already in memory.
func (r *Registry) Loaded(p Profile) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[p]
	return ok
}

// Preload loads the given profiles concurrently and returns the first error.
func (r *Registry) Preload(ctx context.Context, profiles ...Profile) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := r.Segmenter(p)
			return err
		})
	}
	return g.Wait()
}
