package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/cjkfts/internal/analysis"
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// isolate points the user config at an empty directory and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, env := range []string{EnvIndexPath, EnvProfile, EnvLogLevel, EnvCacheSize} {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	return xdg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, "", cfg.Index.Path)
	assert.Equal(t, analysis.Korean, cfg.Index.Profile)
	assert.Equal(t, 50, cfg.Index.WriterBudgetMB)
	assert.Equal(t, int64(50<<20), cfg.WriterBudgetBytes())
	assert.Equal(t, 10, cfg.Search.DefaultLimit)
	assert.Equal(t, 256, cfg.Search.CacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	xdg := isolate(t)

	// Given: a user config, an explicit file and an env override
	writeFile(t, filepath.Join(xdg, "cjkfts", "config.yaml"), `
index:
  path: /from/user
  profile: japanese-unidic
search:
  default_limit: 25
`)
	explicit := filepath.Join(t.TempDir(), "cjkfts.yaml")
	writeFile(t, explicit, `
index:
  profile: zh
search:
  cache_size: 0
`)
	t.Setenv(EnvLogLevel, "DEBUG")

	// When: loading
	cfg, err := Load(explicit)
	require.NoError(t, err)

	// Then: each layer wins only for the keys it sets
	assert.Equal(t, "/from/user", cfg.Index.Path)
	assert.Equal(t, analysis.Chinese, cfg.Index.Profile)
	assert.Equal(t, 25, cfg.Search.DefaultLimit)
	assert.Equal(t, 0, cfg.Search.CacheSize, "an explicit zero disables the cache")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvIndexPath, "/tmp/idx")
	t.Setenv(EnvProfile, "ja")
	t.Setenv(EnvCacheSize, "7")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/idx", cfg.Index.Path)
	assert.Equal(t, analysis.JapaneseIPADIC, cfg.Index.Profile)
	assert.Equal(t, 7, cfg.Search.CacheSize)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		wantCode string
	}{
		{"unknown profile in file", "index:\n  profile: klingon\n", nil, cerrors.ErrCodeConfigInvalid},
		{"unknown key", "index:\n  paht: /x\n", nil, cerrors.ErrCodeConfigInvalid},
		{"malformed yaml", "index: [\n", nil, cerrors.ErrCodeConfigInvalid},
		{"negative cache", "search:\n  cache_size: -1\n", nil, cerrors.ErrCodeConfigInvalid},
		{"zero limit", "search:\n  default_limit: 0\n", nil, cerrors.ErrCodeConfigInvalid},
		{"bad level", "logging:\n  level: loud\n", nil, cerrors.ErrCodeConfigInvalid},
		{"bad version", "version: 9\n", nil, cerrors.ErrCodeConfigInvalid},
		{"bad env profile", "", map[string]string{EnvProfile: "klingon"}, cerrors.ErrCodeInvalidProfile},
		{"bad env cache", "", map[string]string{EnvCacheSize: "many"}, cerrors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, path, tt.file)

			_, err := Load(path)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, cerrors.GetCode(err))
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.True(t, cerrors.HasCode(err, cerrors.ErrCodeConfigNotFound))
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestWriteYAML_RoundTripAndBackup(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	// Given: a customised config written twice
	cfg := NewConfig()
	cfg.Index.Profile = analysis.JapaneseUniDic
	cfg.Index.Path = "/data/idx"
	require.NoError(t, cfg.WriteYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "profile: japanese-unidic")

	cfg.Search.DefaultLimit = 3
	require.NoError(t, cfg.WriteYAML(path))

	// Then: it loads back identically and the first version was backed up
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestBackupFile_KeepsNewest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	// Given: no file yet
	b, err := BackupFile(path)
	require.NoError(t, err)
	assert.Empty(t, b)

	// When: backing up more often than MaxBackups
	writeFile(t, path, "version: 1\n")
	for i := 0; i < MaxBackups+2; i++ {
		_, err := BackupFile(path)
		require.NoError(t, err)
	}

	// Then: only MaxBackups remain
	backups, err := ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, MaxBackups)
}

func TestGetUserConfigPath_XDG(t *testing.T) {
	xdg := isolate(t)

	assert.Equal(t, filepath.Join(xdg, "cjkfts", "config.yaml"), GetUserConfigPath())
	assert.Equal(t, filepath.Join(xdg, "cjkfts"), GetUserConfigDir())
	assert.False(t, UserConfigExists())
}

func TestGetDefaultIndexPath_XDG(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	assert.Equal(t, filepath.Join(data, "cjkfts", "index"), GetDefaultIndexPath())
}
