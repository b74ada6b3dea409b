package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aman-CERP/cjkfts/internal/metadata"
)

func TestDocuments(t *testing.T) {
	docs := Documents()

	assert.Len(t, docs, 15)
	assert.Equal(t, "15 documents (ja 3, ko 9, zh 3)", Summary(docs))

	for _, d := range docs {
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.Body)
		assert.Empty(t, d.ID, "ids are generated at indexing time")
		assert.True(t, metadata.Valid(d.Metadata), d.Title)
	}
}

func TestDocuments_ReturnsCopy(t *testing.T) {
	docs := Documents()
	docs[0].Title = "changed"

	assert.Equal(t, "나리타 국제공항", Documents()[0].Title)
	assert.Equal(t, "나리타 국제공항", Inputs()[0].Title)
}
