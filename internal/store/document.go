package store

import (
	"github.com/Aman-CERP/cjkfts/internal/metadata"
	"github.com/Aman-CERP/cjkfts/internal/schema"
)

// Document is one record as written to the index.
type Document struct {
	ID       string
	Title    string
	Body     string
	Metadata metadata.Value
}

// fields is the bleve representation: text twice (morphological and n-gram),
// metadata twice (structured for filtering, raw JSON for projection).
func (d Document) fields() map[string]interface{} {
	meta := d.Metadata
	if meta.Kind() != metadata.KindObject {
		meta = metadata.EmptyObject()
	}
	return map[string]interface{}{
		schema.FieldID:           d.ID,
		schema.FieldTitle:        d.Title,
		schema.FieldBody:         d.Body,
		schema.FieldTitleNgram:   d.Title,
		schema.FieldBodyNgram:    d.Body,
		schema.FieldMetadata:     meta.Indexable(),
		schema.FieldMetadataJSON: meta.JSON(),
	}
}

// size approximates the bytes a document adds to the writer's buffer.
func (d Document) size() int64 {
	return int64(2*len(d.Title) + 2*len(d.Body) + 2*len(d.Metadata.JSON()) + len(d.ID))
}
