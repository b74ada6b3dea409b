package query

import (
	"github.com/Aman-CERP/cjkfts/internal/metadata"
	"github.com/Aman-CERP/cjkfts/internal/schema"
)

// Result is one ranked hit.
type Result struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Body     string  `json:"body"`
	Score    float64 `json:"score"`
	Metadata string  `json:"metadata"` // JSON object text, "{}" when absent
}

// Project turns the stored fields of a hit into a Result. key is the internal
// document key and only stands in for the id when the id field is missing.
// Project never fails: missing text is "", missing metadata is {}.
func Project(key string, score float64, fields map[string]any) Result {
	r := Result{
		ID:    text(fields[schema.FieldID]),
		Title: text(fields[schema.FieldTitle]),
		Body:  text(fields[schema.FieldBody]),
		Score: score,
	}
	if r.ID == "" {
		r.ID = key
	}

	if raw, ok := fields[schema.FieldMetadataJSON].(string); ok && raw != "" {
		r.Metadata = raw
	} else {
		r.Metadata = metadata.FromStored(fields, schema.FieldMetadata).JSON()
	}
	return r
}

// text reads a stored text value. Multi-valued fields yield their first
// string.
func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				return s
			}
		}
	}
	return ""
}
