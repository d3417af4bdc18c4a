package xlogsvc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xapplog/pkg/config/xconf"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xrotate"
	"github.com/omeyang/xapplog/pkg/util/xfile"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultDir, cfg.Dir)
	assert.Equal(t, xfilelog.DefaultFileA, cfg.FileA)
	assert.Equal(t, xfilelog.DefaultFileB, cfg.FileB)
	assert.Equal(t, int64(xfilelog.DefaultMaxSize), cfg.MaxSizeBytes)
	assert.Equal(t, "INFO", cfg.Level)
	assert.Empty(t, cfg.Mirror.Path)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty dir", func(c *Config) { c.Dir = "" }, nil},
		{"empty file", func(c *Config) { c.FileB = "" }, nil},
		{"same files", func(c *Config) { c.FileB = c.FileA }, nil},
		{"tiny max size", func(c *Config) { c.MaxSizeBytes = 1 }, nil},
		{"bad level", func(c *Config) { c.Level = "loud" }, nil},
		{"mirror without size", func(c *Config) {
			c.Mirror.Path = "m.json"
			c.Mirror.MaxSizeMB = 0
		}, xrotate.ErrInvalidMaxSize},
		{"mirror without cleanup", func(c *Config) {
			c.Mirror.Path = "m.json"
			c.Mirror.MaxBackups, c.Mirror.MaxAgeDays = 0, 0
		}, xrotate.ErrNoCleanupPolicy},
		{"file escapes dir", func(c *Config) { c.FileA = "../log0.txt" }, xfile.ErrPathTraversal},
		{"absolute file", func(c *Config) { c.FileA = "/tmp/log0.txt" }, xfile.ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir
	a, b, err := cfg.Paths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "log0.txt"), a)
	assert.Equal(t, filepath.Join(dir, "log1.txt"), b)

	cfg.Dir = "relative"
	a, _, err = cfg.Paths()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(a))
}

func TestConfig_ExportDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultDir, cfg.ExportLocation())
	cfg.ExportDir = "/tmp/exports"
	assert.Equal(t, "/tmp/exports", cfg.ExportLocation())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xapplog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dir: /var/log/app
max_size_bytes: 4096
level: debug
console: true
export_html: true
mirror:
  path: /var/log/app/mirror.json
  max_backups: 5
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app", cfg.Dir)
	assert.Equal(t, int64(4096), cfg.MaxSizeBytes)
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Console)
	assert.True(t, cfg.ExportHTML)
	assert.Equal(t, "/var/log/app/mirror.json", cfg.Mirror.Path)
	assert.Equal(t, 5, cfg.Mirror.MaxBackups)
	// 文件未提供的字段保留默认值
	assert.Equal(t, xfilelog.DefaultFileA, cfg.FileA)
	assert.Equal(t, DefaultConfig().Mirror.MaxSizeMB, cfg.Mirror.MaxSizeMB)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xapplog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dir":"/data/logs","app_tag":"uploader","version":"1.4.2"}`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/logs", cfg.Dir)
	assert.Equal(t, "uploader", cfg.AppTag)
	assert.Equal(t, "1.4.2", cfg.Version)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, xconf.ErrLoadFailed)

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: shout\n"), 0o600))
	_, err = LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
