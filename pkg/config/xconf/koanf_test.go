package xconf

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mirrorConfig struct {
	Path      string `koanf:"path"`
	MaxSizeMB int    `koanf:"max_size_mb"`
}

type logConfig struct {
	Dir          string       `koanf:"dir"`
	MaxSizeBytes int64        `koanf:"max_size_bytes"`
	Level        string       `koanf:"level"`
	Console      bool         `koanf:"console"`
	Mirror       mirrorConfig `koanf:"mirror"`
}

const testYAML = `dir: /var/log/app
max_size_bytes: 4096
level: debug
mirror:
  path: /var/log/app/mirror.json
  max_size_mb: 5
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		format  Format
	}{
		{"yaml", "log.yaml", testYAML, FormatYAML},
		{"yml", "log.YML", testYAML, FormatYAML},
		{"json", "log.json", `{"dir":"/var/log/app","max_size_bytes":4096,"level":"debug","mirror":{"path":"/var/log/app/mirror.json","max_size_mb":5}}`, FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := New(path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, cfg.Format())
			assert.Equal(t, path, cfg.Path())
			assert.Equal(t, "debug", cfg.Client().String("level"))
			assert.Equal(t, int64(5), cfg.Client().Int64("mirror.max_size_mb"))
		})
	}
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = New(filepath.Join(dir, "log.toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = New(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = New(writeConfig(t, "bad.yaml", "level: [unclosed"))
	assert.ErrorIs(t, err, ErrParseFailed)

	_, err = New(writeConfig(t, "bad.json", "{"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestNew_EmptyFile(t *testing.T) {
	cfg, err := New(writeConfig(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Client().All())
}

func TestNewFromBytes(t *testing.T) {
	cfg, err := NewFromBytes([]byte(testYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app", cfg.Client().String("dir"))
	assert.Empty(t, cfg.Path())
	assert.ErrorIs(t, cfg.Reload(), ErrNotWatchable)

	cfg, err = NewFromBytes(nil, FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, cfg.Client().Keys())

	_, err = NewFromBytes([]byte("x"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestUnmarshal_KeepsDefaults(t *testing.T) {
	cfg, err := NewFromBytes([]byte("level: warn\nmirror:\n  max_size_mb: 9\n"), FormatYAML)
	require.NoError(t, err)

	target := logConfig{Dir: "/default", MaxSizeBytes: 2 << 20, Console: true, Mirror: mirrorConfig{Path: "m.json"}}
	require.NoError(t, cfg.Unmarshal("", &target))

	assert.Equal(t, logConfig{
		Dir:          "/default",
		MaxSizeBytes: 2 << 20,
		Level:        "warn",
		Console:      true,
		Mirror:       mirrorConfig{Path: "m.json", MaxSizeMB: 9},
	}, target)

	var mirror mirrorConfig
	require.NoError(t, cfg.Unmarshal("mirror", &mirror))
	assert.Equal(t, 9, mirror.MaxSizeMB)
}

func TestUnmarshal_Error(t *testing.T) {
	cfg, err := NewFromBytes([]byte("max_size_bytes: lots\n"), FormatYAML)
	require.NoError(t, err)
	var target logConfig
	assert.ErrorIs(t, cfg.Unmarshal("", &target), ErrUnmarshalFailed)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "log.yaml", testYAML)
	target := logConfig{Console: true}
	require.NoError(t, Load(path, &target))
	assert.Equal(t, "/var/log/app", target.Dir)
	assert.Equal(t, int64(4096), target.MaxSizeBytes)
	assert.True(t, target.Console)

	assert.ErrorIs(t, Load("", &target), ErrEmptyPath)
}

func TestOptions(t *testing.T) {
	path := writeConfig(t, "log.yaml", testYAML)
	cfg, err := New(path, WithDelim("/"), WithTag("json"), WithDelim(""), nil)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app/mirror.json", cfg.Client().String("mirror/path"))

	var target struct {
		Level string `json:"level"`
	}
	require.NoError(t, cfg.Unmarshal("", &target))
	assert.Equal(t, "debug", target.Level)
}

func TestReload(t *testing.T) {
	path := writeConfig(t, "log.yaml", "level: info\n")
	cfg, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("level: verbose\n"), 0600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, "verbose", cfg.Client().String("level"))

	// 解析失败保留旧配置
	require.NoError(t, os.WriteFile(path, []byte("level: [\n"), 0600))
	assert.ErrorIs(t, cfg.Reload(), ErrParseFailed)
	assert.Equal(t, "verbose", cfg.Client().String("level"))

	require.NoError(t, os.Remove(path))
	assert.ErrorIs(t, cfg.Reload(), ErrLoadFailed)
	assert.Equal(t, "verbose", cfg.Client().String("level"))
}

func TestReload_Concurrent(t *testing.T) {
	path := writeConfig(t, "log.yaml", testYAML)
	cfg, err := New(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cfg.Reload())
		}()
		go func() {
			defer wg.Done()
			var target logConfig
			assert.NoError(t, cfg.Unmarshal("", &target))
		}()
	}
	wg.Wait()
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{"a.yaml": FormatYAML, "b.yml": FormatYAML, "c.JSON": FormatJSON}
	for path, want := range tests {
		got, err := detectFormat(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := detectFormat("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
