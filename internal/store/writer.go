package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
	"github.com/Aman-CERP/cjkfts/internal/schema"
)

const keyPageSize = 1000

// Writer stages mutations for a single commit. It is only valid inside the
// function passed to Handle.Write.
type Writer struct {
	h     *Handle
	ctx   context.Context
	batch *bleve.Batch

	// pending maps logical ids added in this session to their internal keys
	// so a later delete in the same session also drops them.
	pending map[string][]string
	deleted map[string]struct{}
	added   int
	bytes   int64
}

// Commit summarises a successful Write.
type Commit struct {
	Added      int
	Deleted    int
	Generation uint64
	Duration   time.Duration
}

// Write runs fn with a fresh Writer and commits everything it staged as one
// atomic batch. If fn returns an error nothing is committed.
func (h *Handle) Write(ctx context.Context, fn func(w *Writer) error) (Commit, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return Commit{}, h.closedError()
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	start := time.Now()
	w := &Writer{
		h:       h,
		ctx:     ctx,
		batch:   h.index.NewBatch(),
		pending: make(map[string][]string),
		deleted: make(map[string]struct{}),
	}
	defer w.batch.Reset()

	if err := fn(w); err != nil {
		return Commit{}, err
	}
	if err := ctx.Err(); err != nil {
		return Commit{}, err
	}

	if w.bytes > h.opts.WriterBudget {
		h.opts.Logger.Warn("writer_budget_exceeded",
			slog.Int64("buffered_bytes", w.bytes),
			slog.Int64("budget_bytes", h.opts.WriterBudget),
			slog.Int("documents", w.added))
	}

	commit := Commit{Added: w.added, Deleted: len(w.deleted), Generation: h.generation.Load()}
	if w.batch.Size() == 0 {
		commit.Duration = time.Since(start)
		return commit, nil
	}

	if err := h.index.Batch(w.batch); err != nil {
		return Commit{}, cerrors.New(cerrors.ErrCodeIndexFailed, "failed to commit changes", err)
	}
	commit.Generation = h.generation.Add(1)
	commit.Duration = time.Since(start)

	if h.manifest != nil {
		// The index commit is durable at this point; a bookkeeping failure
		// must not report it as failed.
		if err := h.manifest.RecordCommit(ctx, h.opts.Now()); err != nil {
			h.opts.Logger.Warn("manifest_update_failed", slog.String("error", err.Error()))
		}
	}

	h.opts.Logger.Debug("commit_applied",
		slog.Int("added", commit.Added),
		slog.Int("deleted", commit.Deleted),
		slog.Uint64("generation", commit.Generation),
		slog.Duration("duration", commit.Duration))

	return commit, nil
}

// Add stages doc. Documents sharing a logical id are kept side by side.
func (w *Writer) Add(doc Document) error {
	// Keys are unique across processes sharing a directory, so a later
	// session never overwrites an existing document by accident.
	k, err := uuid.NewV7()
	if err != nil {
		return cerrors.New(cerrors.ErrCodeIndexFailed, "failed to generate document key", err)
	}
	key := k.String()
	if err := w.batch.Index(key, doc.fields()); err != nil {
		return cerrors.New(cerrors.ErrCodeIndexFailed, fmt.Sprintf("failed to stage document %s", doc.ID), err)
	}
	w.pending[doc.ID] = append(w.pending[doc.ID], key)
	w.added++
	w.bytes += doc.size()
	return nil
}

// DeleteByID stages removal of every document whose id equals id, both
// committed ones and ones added earlier in this session. It returns how many
// committed documents it matched.
func (w *Writer) DeleteByID(id string) (int, error) {
	for _, key := range w.pending[id] {
		w.batch.Delete(key)
		w.added--
	}
	delete(w.pending, id)

	q := query.NewTermQuery(id)
	q.SetField(schema.FieldID)
	keys, err := w.collectKeys(q)
	if err != nil {
		return 0, err
	}
	return w.deleteKeys(keys), nil
}

// DeleteAll stages removal of every document.
func (w *Writer) DeleteAll() (int, error) {
	for id, keys := range w.pending {
		for _, key := range keys {
			w.batch.Delete(key)
			w.added--
		}
		delete(w.pending, id)
	}

	keys, err := w.collectKeys(query.NewMatchAllQuery())
	if err != nil {
		return 0, err
	}
	return w.deleteKeys(keys), nil
}

// Pending returns the number of documents staged for addition.
func (w *Writer) Pending() int { return w.added }

func (w *Writer) deleteKeys(keys []string) int {
	n := 0
	for _, key := range keys {
		if _, seen := w.deleted[key]; seen {
			continue
		}
		w.deleted[key] = struct{}{}
		w.batch.Delete(key)
		n++
	}
	return n
}

// collectKeys pages through the committed documents matching q. Sessions are
// serialised, so the committed state cannot change while paging.
func (w *Writer) collectKeys(q query.Query) ([]string, error) {
	var keys []string
	for from := 0; ; from += keyPageSize {
		req := bleve.NewSearchRequestOptions(q, keyPageSize, from, false)
		req.SortBy([]string{"_id"})

		res, err := w.h.index.SearchInContext(w.ctx, req)
		if err != nil {
			return nil, cerrors.New(cerrors.ErrCodeIndexFailed, "failed to resolve documents to delete", err)
		}
		for _, hit := range res.Hits {
			keys = append(keys, hit.ID)
		}
		if len(res.Hits) < keyPageSize {
			return keys, nil
		}
	}
}
