// Package query executes query-string searches against a store handle and
// projects the hits into results.
//
// The query language is bleve's query string syntax: bare terms, +must and
// -mustnot prefixes, "quoted phrases", field:term, term~N fuzzy matches,
// prefix* wildcards and ^N boosts. A clause without a field is searched in
// the morphological and the n-gram variants of both title and body.
package query

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	bq "github.com/blevesearch/bleve/v2/search/query"
	lru "github.com/hashicorp/golang-lru/v2"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/logging"
	"github.com/Aman-CERP/cjkfts/internal/metrics"
	"github.com/Aman-CERP/cjkfts/internal/schema"
	"github.com/Aman-CERP/cjkfts/internal/store"
)

// DefaultCacheSize is the number of result sets kept by default.
const DefaultCacheSize = 256

// ErrNilHandle is returned when creating an Engine without a handle.
var ErrNilHandle = errors.New("store handle is required")

type cacheKey struct {
	generation uint64
	limit      int
	query      string
}

// Engine runs searches against one handle.
//
// Engine is safe for concurrent use.
type Engine struct {
	h         *store.Handle
	cache     *lru.Cache[cacheKey, []Result] // nil when disabled
	cacheSize int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheSize sets how many result sets are cached. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine for h.
func NewEngine(h *store.Handle, opts ...Option) (*Engine, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	e := &Engine{h: h, cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[cacheKey, []Result](e.cacheSize)
		if err != nil {
			return nil, cerrors.New(cerrors.ErrCodeConfigInvalid, "invalid search cache size", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Parse parses a query string. Syntax errors carry ErrCodeInvalidQuery.
func Parse(queryString string) (bq.Query, error) {
	q, err := bq.NewQueryStringQuery(queryString).Parse()
	if err != nil {
		return nil, cerrors.InvalidQuery(queryString, err)
	}
	return q, nil
}

// Search returns up to limit results for queryString, best first. An empty
// query or a non-positive limit yields no results; the query is still
// parsed so syntax errors surface either way.
func (e *Engine) Search(ctx context.Context, queryString string, limit int) ([]Result, error) {
	if strings.TrimSpace(queryString) == "" {
		return []Result{}, nil
	}

	parsed, err := Parse(queryString)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []Result{}, nil
	}

	start := time.Now()
	key := cacheKey{generation: e.h.Generation(), limit: limit, query: queryString}
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			metrics.CacheLookup(true)
			e.logger.Debug("search_complete",
				slog.String("query", queryString),
				slog.Int("results", len(cached)),
				slog.Bool("cached", true),
				slog.Duration("duration", time.Since(start)))
			return append([]Result(nil), cached...), nil
		}
		metrics.CacheLookup(false)
	}

	req := bleve.NewSearchRequestOptions(Expand(parsed, schema.SearchFields()), limit, 0, false)
	req.Fields = schema.StoredFields()

	res, _, err := e.h.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		results = append(results, Project(hit.ID, hit.Score, hit.Fields))
	}

	if e.cache != nil {
		e.cache.Add(key, append([]Result(nil), results...))
	}

	e.logger.Debug("search_complete",
		slog.String("query", queryString),
		slog.Int("results", len(results)),
		slog.Uint64("total", res.Total),
		slog.Bool("cached", false),
		slog.Duration("duration", time.Since(start)))

	return results, nil
}

// Purge drops every cached result set.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.Purge()
	}
}
