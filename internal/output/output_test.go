package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cjkfts/internal/query"
)

func plain(buf *bytes.Buffer) *Writer {
	return New(buf, WithColor(false))
}

func TestWriter_StatusLines(t *testing.T) {
	buf := &bytes.Buffer{}
	w := plain(buf)

	w.Successf("indexed %d documents", 15)
	w.Warning("index is empty")
	w.Errorf("failed: %s", "boom")
	w.Status("", "indented")
	w.Newline()

	assert.Equal(t, "✓ indexed 15 documents\n! index is empty\n✗ failed: boom\n   indented\n\n", buf.String())
}

func TestWriter_Results_Text(t *testing.T) {
	// Given: two results, one with metadata and a long body
	buf := &bytes.Buffer{}
	w := plain(buf)
	results := []query.Result{
		{ID: "a", Title: "인천국제공항", Body: strings.Repeat("공항 ", 100), Score: 2.5, Metadata: `{"iata":"ICN"}`},
		{ID: "b", Title: "김포국제공항", Score: 1.25, Metadata: "{}"},
	}

	// When: printing as text
	require.NoError(t, w.Results(FormatText, "공항", results))

	// Then: ranks, scores, ids and metadata appear; empty metadata is hidden
	out := buf.String()
	assert.Contains(t, out, `2 results for "공항"`)
	assert.Contains(t, out, " 1. 인천국제공항  2.5000")
	assert.Contains(t, out, " 2. 김포국제공항  1.2500")
	assert.Contains(t, out, "id: a")
	assert.Contains(t, out, `metadata: {"iata":"ICN"}`)
	assert.Equal(t, 1, strings.Count(out, "metadata:"))
	assert.Contains(t, out, "…")
}

func TestWriter_Results_Empty(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, plain(buf).Results(FormatText, "없음", nil))

	assert.Equal(t, "· no results for \"없음\"\n", buf.String())
}

func TestWriter_Results_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	w := plain(buf)

	require.NoError(t, w.Results(FormatJSON, "q", []query.Result{{ID: "a", Title: "<t>", Score: 1, Metadata: "{}"}}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "<t>", decoded[0]["title"])
	assert.Equal(t, "{}", decoded[0]["metadata"])
	assert.Contains(t, buf.String(), "<t>", "HTML is not escaped")

	buf.Reset()
	require.NoError(t, w.Results(FormatJSON, "q", nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriter_Table(t *testing.T) {
	buf := &bytes.Buffer{}

	plain(buf).Table("Index", []KV{{"profile", "korean"}, {"documents", "15"}})

	assert.Equal(t, "Index\nprofile    korean\ndocuments  15\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", Snippet("  a \n b\tc ", 10))
	assert.Equal(t, "東京国…", Snippet("東京国際空港", 3))
}

func TestUseColor_NonTerminal(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, UseColor(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.False(t, IsTTY(f))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.True(t, DetectNoColor())
}
