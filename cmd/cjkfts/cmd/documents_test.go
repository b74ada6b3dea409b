package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}-[0-9a-f]{8}$`)

func count(t *testing.T, dir string) string {
	t.Helper()
	out, err := run(t, "count", "--index", dir)
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestAddUpdateDelete(t *testing.T) {
	dir := isolate(t)

	// Given: one added document
	out, err := run(t, "add", "--index", dir, "--title", "인천국제공항", "--body", "인천국제공항은 대한민국의 국제공항이다.", "--metadata", `{"iata":"ICN"}`)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.Regexp(t, idPattern, id)
	assert.Equal(t, "1", count(t, dir))

	// When: updating it
	_, err = run(t, "update", id, "--index", dir, "--title", "인천공항", "--body", "영종도")
	require.NoError(t, err)

	// Then: the new body is searchable under the same id
	out, err = run(t, "search", "영종도", "--index", dir, "--format", "json")
	require.NoError(t, err)
	var results []engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, id, results[0].ID)
	assert.Equal(t, "1", count(t, dir))

	// And: delete removes it, ignoring unknown ids
	out, err = run(t, "delete", id, "missing", "--index", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 id(s)")
	assert.Equal(t, "0", count(t, dir))
}

func TestAddBatch_FromFile(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"title": "인천국제공항", "body": "대한민국", "metadata": {"iata": "ICN"}},
		{"id": "hnd", "title": "東京国際空港", "body": "羽田", "metadata": "{\"iata\":\"HND\"}"},
		{"title": "北京首都国际机场", "body": "北京"}
	]`), 0o644))

	// When: adding the batch
	out, err := run(t, "add-batch", file, "--index", dir, "--format", "json")
	require.NoError(t, err)

	// Then: ids come back in order and both metadata spellings are kept
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(out), &ids))
	require.Len(t, ids, 3)
	assert.Regexp(t, idPattern, ids[0])
	assert.Equal(t, "hnd", ids[1])
	assert.Equal(t, "3", count(t, dir))

	out, err = run(t, "search", "+metadata.iata:HND", "--index", dir, "-f", "json")
	require.NoError(t, err)
	var results []engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "hnd", results[0].ID)
}

func TestAddBatch_FromStdin(t *testing.T) {
	dir := isolate(t)

	cmd := NewRootCmd()
	out := &strings.Builder{}
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(`[{"title":"김포국제공항","body":"서울"}]`))
	cmd.SetArgs([]string{"add-batch", "-", "--index", dir})

	require.NoError(t, cmd.Execute())
	assert.Regexp(t, idPattern, strings.TrimSpace(out.String()))
}

func TestReadBatch(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		metadata string
		wantErr  bool
	}{
		{"object", `[{"title":"a","metadata":{"k":1}}]`, `{"k":1}`, false},
		{"string", `[{"title":"a","metadata":"{\"k\":1}"}]`, `{"k":1}`, false},
		{"absent", `[{"title":"a"}]`, ``, false},
		{"scalar", `[{"title":"a","metadata":3}]`, `3`, false},
		{"unknown field", `[{"title":"a","tags":[]}]`, "", true},
		{"not an array", `{"title":"a"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := readBatch(strings.NewReader(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, docs, 1)
			assert.Equal(t, tt.metadata, docs[0].Metadata)
		})
	}
}

func TestClear_RequiresConfirmation(t *testing.T) {
	dir := isolate(t)
	_, err := run(t, "seed", "--index", dir)
	require.NoError(t, err)

	// When: clearing without --yes
	_, err = run(t, "clear", "--index", dir)

	// Then: nothing is deleted
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, "15", count(t, dir))

	_, err = run(t, "clear", "--yes", "--index", dir)
	require.NoError(t, err)
	assert.Equal(t, "0", count(t, dir))
}
