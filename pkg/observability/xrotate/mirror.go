package xrotate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/omeyang/xapplog/pkg/util/xfile"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 镜像默认策略
const (
	DefaultMirrorMaxSizeMB  = 10
	DefaultMirrorMaxBackups = 3
	DefaultMirrorMaxAgeDays = 7
)

// 策略取值上限
const (
	mirrorMaxSizeMB  = 10240
	mirrorMaxBackups = 1024
	mirrorMaxAgeDays = 3650
)

// backupTimeLayout lumberjack 备份文件名中的时间格式
const backupTimeLayout = "2006-01-02T15-04-05.000"

// MirrorPolicy JSON 镜像的滚动与清理策略
type MirrorPolicy struct {
	// MaxSizeMB 当前文件达到该大小后滚动，1~10240
	MaxSizeMB int
	// MaxBackups 保留的备份数，0 表示只按天数清理
	MaxBackups int
	// MaxAgeDays 备份保留天数，0 表示只按数量清理
	MaxAgeDays int
	// Compress 备份是否 gzip 压缩
	Compress bool
}

// DefaultMirrorPolicy 返回默认策略：10MB 滚动，保留 3 个、7 天内的压缩备份
func DefaultMirrorPolicy() MirrorPolicy {
	return MirrorPolicy{
		MaxSizeMB:  DefaultMirrorMaxSizeMB,
		MaxBackups: DefaultMirrorMaxBackups,
		MaxAgeDays: DefaultMirrorMaxAgeDays,
		Compress:   true,
	}
}

// Validate 检查策略，返回所有不合法的项
func (p MirrorPolicy) Validate() error {
	var errs []error
	if p.MaxSizeMB <= 0 || p.MaxSizeMB > mirrorMaxSizeMB {
		errs = append(errs, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, p.MaxSizeMB, mirrorMaxSizeMB))
	}
	if p.MaxBackups < 0 || p.MaxBackups > mirrorMaxBackups {
		errs = append(errs, fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, p.MaxBackups, mirrorMaxBackups))
	}
	if p.MaxAgeDays < 0 || p.MaxAgeDays > mirrorMaxAgeDays {
		errs = append(errs, fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, p.MaxAgeDays, mirrorMaxAgeDays))
	}
	if p.MaxBackups == 0 && p.MaxAgeDays == 0 {
		errs = append(errs, ErrNoCleanupPolicy)
	}
	return errors.Join(errs...)
}

// Mirror JSON 镜像文件，每行一条记录。
//
// 由 lumberjack 按大小滚动，备份名使用本地时间（与轮转文件的时间戳一致），
// 文件权限为 0600。只接受以换行结尾的完整行，一条记录不会被滚动拆到两个文件。
type Mirror struct {
	lj     *lumberjack.Logger
	path   string
	closed atomic.Bool
	lines  atomic.Uint64
}

var _ Rotator = (*Mirror)(nil)

// NewMirror 创建 JSON 镜像。文件在首次写入时创建，父目录不存在时自动创建（0750）。
func NewMirror(filename string, policy MirrorPolicy) (*Mirror, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	path, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(path); err != nil {
		return nil, err
	}
	return &Mirror{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    policy.MaxSizeMB,
			MaxBackups: policy.MaxBackups,
			MaxAge:     policy.MaxAgeDays,
			Compress:   policy.Compress,
			LocalTime:  true,
		},
		path: path,
	}, nil
}

// Write 写入一行或多行 JSON，p 必须以换行结尾
func (m *Mirror) Write(p []byte) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if p[len(p)-1] != '\n' {
		return 0, ErrPartialLine
	}

	n, err := m.lj.Write(p)
	if err != nil {
		if m.closed.Load() {
			return n, ErrClosed
		}
		return n, err
	}
	m.lines.Add(uint64(strings.Count(string(p), "\n")))
	return n, nil
}

// Rotate 立即滚动当前文件
func (m *Mirror) Rotate() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if err := m.lj.Rotate(); err != nil {
		if m.closed.Load() {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Close 关闭镜像。重复调用返回 [ErrClosed]。
func (m *Mirror) Close() error {
	if m.closed.Swap(true) {
		return ErrClosed
	}
	return m.lj.Close()
}

// Path 返回规范化后的镜像文件路径
func (m *Mirror) Path() string {
	return m.path
}

// Lines 返回自创建以来写入的行数
func (m *Mirror) Lines() uint64 {
	return m.lines.Load()
}

// Backups 返回当前镜像的备份文件，见 [MirrorBackups]
func (m *Mirror) Backups() ([]string, error) {
	return MirrorBackups(m.path)
}

// MirrorBackups 返回 filename 已滚动出的备份文件，按时间从旧到新。
//
// 备份名形如 app-2006-01-02T15-04-05.000.json，压缩后追加 .gz。
func MirrorBackups(filename string) ([]string, error) {
	dir := filepath.Dir(filename)
	ext := filepath.Ext(filename)
	prefix := strings.TrimSuffix(filepath.Base(filename), ext) + "-"

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var backups []string
	for _, e := range entries {
		if e.IsDir() || !isMirrorBackup(e.Name(), prefix, ext) {
			continue
		}
		backups = append(backups, filepath.Join(dir, e.Name()))
	}
	// 时间戳定长，字典序即时间序
	slices.Sort(backups)
	return backups, nil
}

func isMirrorBackup(name, prefix, ext string) bool {
	name = strings.TrimSuffix(name, ".gz")
	if len(name) < len(prefix)+len(ext) || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return false
	}
	_, err := time.Parse(backupTimeLayout, name[len(prefix):len(name)-len(ext)])
	return err == nil
}
