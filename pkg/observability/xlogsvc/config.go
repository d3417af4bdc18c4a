package xlogsvc

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/omeyang/xapplog/pkg/config/xconf"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xlog"
	"github.com/omeyang/xapplog/pkg/observability/xrotate"
	"github.com/omeyang/xapplog/pkg/util/xfile"
	"github.com/omeyang/xapplog/pkg/util/xsys"
)

// DefaultDir 默认日志目录
const DefaultDir = "logs"

// MirrorConfig JSON 镜像配置，Path 为空时不启用
type MirrorConfig struct {
	Path       string `koanf:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// Config 日志服务配置
type Config struct {
	// Dir 轮转文件所在目录，同时用于保存安装标识
	Dir string `koanf:"dir"`
	// FileA / FileB 轮转文件名（不含目录）
	FileA string `koanf:"file_a"`
	FileB string `koanf:"file_b"`
	// MaxSizeBytes 两个轮转文件合计上限
	MaxSizeBytes int64 `koanf:"max_size_bytes"`
	// AppTag 标签前缀，默认进程名
	AppTag string `koanf:"app_tag"`
	// Level 日志级别名，见 xlog.ParseLevel
	Level string `koanf:"level"`
	// Console 同时输出 logcat 风格控制台
	Console bool `koanf:"console"`
	// ExportDir 导出目录，为空时使用 Dir
	ExportDir string `koanf:"export_dir"`
	// ExportHTML 导出为 HTML
	ExportHTML bool `koanf:"export_html"`
	// SyncWrites 每条记录写入后 fsync
	SyncWrites bool         `koanf:"sync_writes"`
	Mirror     MirrorConfig `koanf:"mirror"`
	// Version 导出头部中的版本行
	Version string `koanf:"version"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Dir:          DefaultDir,
		FileA:        xfilelog.DefaultFileA,
		FileB:        xfilelog.DefaultFileB,
		MaxSizeBytes: xfilelog.DefaultMaxSize,
		AppTag:       xsys.ProcessName(),
		Level:        xlog.LevelInfo.String(),
		Mirror: MirrorConfig{
			MaxSizeMB:  xrotate.DefaultMirrorMaxSizeMB,
			MaxBackups: xrotate.DefaultMirrorMaxBackups,
			MaxAgeDays: xrotate.DefaultMirrorMaxAgeDays,
			Compress:   true,
		},
	}
}

// LoadConfig 从 YAML/JSON 文件加载配置，文件中缺省的字段保留默认值
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := xconf.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c Config) Validate() error {
	var errs []error
	if c.Dir == "" {
		errs = append(errs, errors.New("dir is required"))
	}
	if c.FileA == "" || c.FileB == "" {
		errs = append(errs, errors.New("file_a and file_b are required"))
	} else if c.FileA == c.FileB {
		errs = append(errs, fmt.Errorf("file_a and file_b must differ: %q", c.FileA))
	}
	if c.MaxSizeBytes < 2 {
		errs = append(errs, fmt.Errorf("max_size_bytes must be at least 2, got %d", c.MaxSizeBytes))
	}
	if _, err := xlog.ParseLevel(c.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Mirror.Path != "" {
		if err := c.Mirror.Policy().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("mirror: %w", err))
		}
	}
	if c.Dir != "" && c.FileA != "" && c.FileB != "" {
		if _, _, err := c.Paths(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Paths 返回两个轮转文件的完整路径，文件名不能逃出 Dir
func (c Config) Paths() (pathA, pathB string, err error) {
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return "", "", fmt.Errorf("dir: %w", err)
	}
	if pathA, err = xfile.SafeJoin(dir, c.FileA); err != nil {
		return "", "", fmt.Errorf("file_a: %w", err)
	}
	if pathB, err = xfile.SafeJoin(dir, c.FileB); err != nil {
		return "", "", fmt.Errorf("file_b: %w", err)
	}
	return pathA, pathB, nil
}

// ExportLocation 导出目录，未配置 ExportDir 时使用 Dir
func (c Config) ExportLocation() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return c.Dir
}

// Policy 返回镜像的滚动策略
func (m MirrorConfig) Policy() xrotate.MirrorPolicy {
	return xrotate.MirrorPolicy{
		MaxSizeMB:  m.MaxSizeMB,
		MaxBackups: m.MaxBackups,
		MaxAgeDays: m.MaxAgeDays,
		Compress:   m.Compress,
	}
}
