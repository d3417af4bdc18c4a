package xrotate

import (
	"fmt"
	"os"
	"sync"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xapplog/pkg/util/xfile"
)

// FileID 双文件轮转中的文件编号
type FileID uint8

const (
	// FileA 第一个文件
	FileA FileID = iota
	// FileB 第二个文件
	FileB
)

// Other 返回另一个文件编号
func (f FileID) Other() FileID {
	if f == FileA {
		return FileB
	}
	return FileA
}

// String 返回 "A" 或 "B"
func (f FileID) String() string {
	switch f {
	case FileA:
		return "A"
	case FileB:
		return "B"
	default:
		return fmt.Sprintf("FileID(%d)", uint8(f))
	}
}

const (
	// DefaultMaxBytes 两个文件合计的默认上限（2 MiB），单个文件写到一半即切换
	DefaultMaxBytes int64 = 2 * 1024 * 1024

	// dualFilePerm 日志文件权限（gosec G302）
	dualFilePerm os.FileMode = 0600

	// reopenAttempts 切换时打开新文件的总尝试次数（首次 + 1 次重试）
	reopenAttempts = 2

	// reopenDelay 重试间隔
	reopenDelay = 10 * time.Millisecond

	flagAppend   = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	flagTruncate = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
)

type dualConfig struct {
	maxBytes   int64
	syncWrites bool
	onRotate   func(from, to FileID)
}

// DualOption 双文件轮转器配置选项
type DualOption func(*dualConfig)

// WithMaxBytes 设置两个文件合计的上限（字节），必须 >= 2。
//
// 当前文件大小达到 maxBytes/2 时，下一次写入前切换到另一个文件。
func WithMaxBytes(n int64) DualOption {
	return func(c *dualConfig) {
		c.maxBytes = n
	}
}

// WithSyncWrites 设置每次写入后是否调用 fsync
func WithSyncWrites(enabled bool) DualOption {
	return func(c *dualConfig) {
		c.syncWrites = enabled
	}
}

// WithOnRotate 设置切换完成后的回调。
//
// 回调在持有内部锁时执行，不得回调同一个 DualFile。
func WithOnRotate(fn func(from, to FileID)) DualOption {
	return func(c *dualConfig) {
		c.onRotate = fn
	}
}

// DualFile 双文件半桶轮转器
//
// 所有方法并发安全；在日志场景下通常只有一个写入者（Sink 的 worker）。
type DualFile struct {
	mu         sync.Mutex
	paths      [2]string
	active     FileID
	size       int64
	half       int64
	file       *os.File
	closed     bool
	syncWrites bool

	// needTruncate 上次切换的截断打开失败，重开时仍须截断
	needTruncate bool
	onRotate   func(from, to FileID)

	// openFn 可注入的打开函数，仅用于测试
	openFn func(name string, flag int, perm os.FileMode) (*os.File, error)
}

var _ Rotator = (*DualFile)(nil)

// NewDualFile 创建双文件轮转器并打开要续写的文件。
//
// 路径会经过规范化与安全检查，父目录不存在时自动创建（0750）。
// 返回错误表示初始文件无法打开，调用方应进入禁用状态。
func NewDualFile(pathA, pathB string, opts ...DualOption) (*DualFile, error) {
	if pathA == "" || pathB == "" {
		return nil, ErrEmptyFilename
	}

	cfg := dualConfig{maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxBytes < 2 {
		return nil, fmt.Errorf("%w: got %d, want >= 2", ErrInvalidMaxBytes, cfg.maxBytes)
	}

	a, err := xfile.SanitizePath(pathA)
	if err != nil {
		return nil, err
	}
	b, err := xfile.SanitizePath(pathB)
	if err != nil {
		return nil, err
	}
	if a == b {
		return nil, fmt.Errorf("%w: %s", ErrSamePath, a)
	}
	for _, p := range []string{a, b} {
		if err := xfile.EnsureDir(p); err != nil {
			return nil, err
		}
	}

	d := &DualFile{
		paths:      [2]string{a, b},
		half:       cfg.maxBytes / 2,
		syncWrites: cfg.syncWrites,
		onRotate:   cfg.onRotate,
		openFn:     os.OpenFile,
	}
	d.active, d.size = resumeTarget(a, b)

	f, err := d.openFn(d.paths[d.active], flagAppend, dualFilePerm)
	if err != nil {
		return nil, fmt.Errorf("xrotate: open %s: %w", d.paths[d.active], err)
	}
	d.file = f
	return d, nil
}

// resumeTarget 选出启动时续写的文件及其已有大小。
func resumeTarget(pathA, pathB string) (FileID, int64) {
	a, b := xfile.Probe(pathA), xfile.Probe(pathB)
	if !a.Exists && !b.Exists {
		return FileA, 0
	}
	newer, _ := xfile.NewerOf(a, b)
	if newer.Path == pathA {
		return FileA, a.Size
	}
	return FileB, b.Size
}

// Write 写入一条记录。
//
// 写入前检查当前文件大小，达到半桶上限时先切换。大小按实际写入字节数累加。
func (d *DualFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	if d.file == nil {
		if err := d.reopenActiveLocked(); err != nil {
			return 0, err
		}
	}
	if d.size >= d.half {
		if err := d.rotateLocked(); err != nil {
			return 0, err
		}
	}

	n, err := d.file.Write(p)
	d.size += int64(n)
	if err != nil {
		return n, err
	}
	if d.syncWrites {
		if err := d.file.Sync(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Rotate 立即切换到另一个文件（截断）。
func (d *DualFile) Rotate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	return d.rotateLocked()
}

// Sync 将当前文件刷到磁盘。没有打开的文件时返回 [ErrNoFile]。
func (d *DualFile) Sync() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.file == nil {
		return ErrNoFile
	}
	return d.file.Sync()
}

// Close 关闭当前文件。重复调用返回 [ErrClosed]。
func (d *DualFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	d.closed = true
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// Active 返回当前写入的文件编号
func (d *DualFile) Active() FileID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Size 返回当前文件已写入的字节数
func (d *DualFile) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

// Paths 返回规范化后的两个文件路径
func (d *DualFile) Paths() (pathA, pathB string) {
	return d.paths[FileA], d.paths[FileB]
}

// rotateLocked 关闭当前文件，截断打开另一个文件，大小归零。
//
// 打开失败时句柄保持为 nil，当前编号已切换并记下 needTruncate，
// 下一次 Write 会以截断模式重试，不会续写切换目标里的旧内容。
func (d *DualFile) rotateLocked() error {
	from := d.active
	to := from.Other()

	if d.file != nil {
		// 旧文件的关闭错误不影响切换
		_ = d.file.Close()
		d.file = nil
	}
	d.active = to
	d.size = 0

	f, err := retry.NewWithData[*os.File](
		retry.Attempts(reopenAttempts),
		retry.Delay(reopenDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() (*os.File, error) {
		return d.openFn(d.paths[to], flagTruncate, dualFilePerm)
	})
	if err != nil {
		d.needTruncate = true
		return fmt.Errorf("xrotate: rotate to %s: %w", d.paths[to], err)
	}
	d.file = f
	d.needTruncate = false

	if d.onRotate != nil {
		d.onRotate(from, to)
	}
	return nil
}

// reopenActiveLocked 重新打开当前文件。
//
// 正常情况下以追加模式打开，大小取文件现有长度；
// 上次切换未完成时以截断模式打开，大小归零并补发切换回调。
func (d *DualFile) reopenActiveLocked() error {
	path := d.paths[d.active]
	if d.needTruncate {
		f, err := d.openFn(path, flagTruncate, dualFilePerm)
		if err != nil {
			return fmt.Errorf("xrotate: reopen %s: %w", path, err)
		}
		d.file = f
		d.size = 0
		d.needTruncate = false
		if d.onRotate != nil {
			d.onRotate(d.active.Other(), d.active)
		}
		return nil
	}

	f, err := d.openFn(path, flagAppend, dualFilePerm)
	if err != nil {
		return fmt.Errorf("xrotate: reopen %s: %w", path, err)
	}
	d.file = f
	d.size = 0
	if fi, err := f.Stat(); err == nil {
		d.size = fi.Size()
	}
	return nil
}
