// Package document implements the document lifecycle on top of a store
// handle: add, batch add, update, delete and clear, each as one atomic
// writer session.
package document

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Aman-CERP/cjkfts/internal/ident"
	"github.com/Aman-CERP/cjkfts/internal/logging"
	"github.com/Aman-CERP/cjkfts/internal/metadata"
	"github.com/Aman-CERP/cjkfts/internal/store"
)

// ErrNilHandle is returned when creating a Manager without a handle.
var ErrNilHandle = errors.New("store handle is required")

// Input is one document for AddBatch. An empty ID is replaced by a generated
// one; a non-empty ID is used verbatim and is not checked for uniqueness.
type Input struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Metadata string `json:"metadata,omitempty"`
}

// Manager applies document mutations to one handle.
//
// Manager is safe for concurrent use; the handle serialises writer sessions.
type Manager struct {
	h      *store.Handle
	ids    *ident.Generator
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDs sets the generator for document ids.
func WithIDs(g *ident.Generator) Option {
	return func(m *Manager) {
		m.ids = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates a Manager for h.
func NewManager(h *store.Handle, opts ...Option) (*Manager, error) {
	if h == nil {
		return nil, ErrNilHandle
	}
	m := &Manager{h: h}
	for _, opt := range opts {
		opt(m)
	}
	if m.ids == nil {
		m.ids = ident.New()
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	return m, nil
}

func build(id, title, body, rawMetadata string) store.Document {
	return store.Document{
		ID:       id,
		Title:    title,
		Body:     body,
		Metadata: metadata.Normalize(rawMetadata),
	}
}

// Add indexes one document under a fresh id and commits. Metadata that is
// not a JSON object is stored as {}.
func (m *Manager) Add(ctx context.Context, title, body, rawMetadata string) (string, error) {
	id := m.ids.Next()
	_, err := m.h.Write(ctx, func(w *store.Writer) error {
		return w.Add(build(id, title, body, rawMetadata))
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// AddBatch indexes docs in one commit and returns their ids in input order.
// Nothing is committed if any document fails to stage.
func (m *Manager) AddBatch(ctx context.Context, docs []Input) ([]string, error) {
	ids := make([]string, len(docs))
	if len(docs) == 0 {
		return ids, nil
	}

	for i, d := range docs {
		ids[i] = d.ID
		if ids[i] == "" {
			ids[i] = m.ids.Next()
		}
	}

	c, err := m.h.Write(ctx, func(w *store.Writer) error {
		for i, d := range docs {
			if err := w.Add(build(ids[i], d.Title, d.Body, d.Metadata)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("batch_indexed",
		slog.Int("documents", c.Added),
		slog.Uint64("generation", c.Generation))
	return ids, nil
}

// Update replaces every document with id by a single new one carrying the
// same id. The delete and the add commit together. Updating an unknown id
// creates it.
func (m *Manager) Update(ctx context.Context, id, title, body, rawMetadata string) error {
	_, err := m.h.Write(ctx, func(w *store.Writer) error {
		if _, err := w.DeleteByID(id); err != nil {
			return err
		}
		return w.Add(build(id, title, body, rawMetadata))
	})
	return err
}

// Delete removes every document with id. An unknown id is not an error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.DeleteBatch(ctx, []string{id})
}

// DeleteBatch removes every document whose id is in ids, in one commit.
func (m *Manager) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	c, err := m.h.Write(ctx, func(w *store.Writer) error {
		for _, id := range ids {
			if _, err := w.DeleteByID(id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("documents_deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", c.Deleted))
	return nil
}

// ClearAll removes every document.
func (m *Manager) ClearAll(ctx context.Context) error {
	c, err := m.h.Write(ctx, func(w *store.Writer) error {
		_, err := w.DeleteAll()
		return err
	})
	if err != nil {
		return err
	}

	m.logger.Info("index_cleared", slog.Int("deleted", c.Deleted))
	return nil
}
