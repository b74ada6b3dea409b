package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cjkfts/internal/analysis/analysistest"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// isolate points every per-user path at temp directories and swaps in the
// dictionary-free segmenter. It returns an index directory for --index.
func isolate(t *testing.T) string {
	t.Helper()
	analysistest.Install(t)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("CJKFTS_INDEX_PATH", "")
	t.Setenv("CJKFTS_PROFILE", "")
	t.Setenv("CJKFTS_LOG_LEVEL", "")
	t.Setenv("CJKFTS_CACHE_SIZE", "")

	return filepath.Join(t.TempDir(), "idx")
}

// run executes the root command with args and returns what it printed to
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{
		"seed", "search", "add", "add-batch", "update", "delete", "clear",
		"count", "info", "dicts", "config", "logs", "version",
	} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"config", "index", "profile", "debug", "cpuprofile", "memprofile", "trace"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_InvalidProfileFlag(t *testing.T) {
	dir := isolate(t)

	_, err := run(t, "count", "--index", dir, "--profile", "klingon")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "klingon")
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	dir := isolate(t)

	// When: pointing --config at a file that does not exist
	_, err := run(t, "count", "--index", dir, "--config", filepath.Join(dir, "nope.yaml"))

	// Then: index commands fail
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// And: version still runs on defaults
	out, err := run(t, "version", "--short", "--config", filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRootCmd_DefaultIndexPath(t *testing.T) {
	isolate(t)

	// When: seeding without --index
	_, err := run(t, "seed")
	require.NoError(t, err)

	// Then: the per-user data directory holds the index
	out, err := run(t, "info", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("cjkfts", "index"))
}

func TestRootCmd_ProfilingFlags(t *testing.T) {
	dir := isolate(t)
	cpu := filepath.Join(t.TempDir(), "cpu.prof")

	_, err := run(t, "count", "--index", dir, "--cpuprofile", cpu)

	require.NoError(t, err)
	assert.FileExists(t, cpu)
}

// runReported executes like Execute does and returns what was reported on
// stderr.
func runReported(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, a := newRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	stderr := &bytes.Buffer{}
	err := execute(root, a, stderr)
	return stderr.String(), err
}

func TestExecute_ReportsErrors(t *testing.T) {
	dir := isolate(t)

	t.Run("text", func(t *testing.T) {
		out, err := runReported(t, "search", `"인천 국제공항`, "--index", dir)

		require.Error(t, err)
		assert.Contains(t, out, "Code: ERR_403_INVALID_QUERY")
		assert.Contains(t, out, "Hint:")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runReported(t, "search", `"인천 국제공항`, "--index", dir, "-f", "json")

		require.Error(t, err)
		var reported struct {
			Code     string `json:"code"`
			Category string `json:"category"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &reported))
		assert.Equal(t, "ERR_403_INVALID_QUERY", reported.Code)
		assert.Equal(t, "VALIDATION", reported.Category)
	})
}

func TestExecute_LogsFailureToFile(t *testing.T) {
	dir := isolate(t)
	logFile := filepath.Join(t.TempDir(), "cjkfts.log")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("logging:\n  file: "+logFile+"\n"), 0o644))

	// When: a command fails with file logging configured
	_, err := runReported(t, "search", `"인천 국제공항`, "--index", dir, "--config", cfgFile)
	require.Error(t, err)

	// Then: the failure is in the log with its code
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"command_failed"`)
	assert.Contains(t, string(data), `"error_code":"ERR_403_INVALID_QUERY"`)
	assert.Contains(t, string(data), `"command":"cjkfts search"`)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain", errors.New("boom"), ExitError},
		{"locked", cerrors.New(cerrors.ErrCodeIndexLocked, "locked", nil), ExitTransient},
		{"corrupt", cerrors.New(cerrors.ErrCodeCorruptIndex, "corrupt", nil), ExitUnusable},
		{"dictionary", cerrors.New(cerrors.ErrCodeDictionaryLoad, "missing", nil), ExitUnusable},
		{"query", cerrors.InvalidQuery("(", nil), ExitInvalid},
		{"config", cerrors.ConfigError("bad", nil), ExitInvalid},
		{"wrapped", fmt.Errorf("open: %w", cerrors.New(cerrors.ErrCodeSchemaMismatch, "other profile", nil)), ExitUnusable},
		{"internal", cerrors.InternalError("bug", nil), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
