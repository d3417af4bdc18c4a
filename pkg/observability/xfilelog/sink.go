package xfilelog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xapplog/pkg/observability/xrotate"
	"github.com/omeyang/xapplog/pkg/util/xfile"
)

// rotatingWriter Sink 写入协程独占的轮转写入器，由 [xrotate.DualFile] 实现
type rotatingWriter interface {
	Write(p []byte) (int, error)
	Close() error
	Active() xrotate.FileID
	Size() int64
}

// item 队列元素：一条记录，或一个 Flush 屏障
type item struct {
	rec     Record
	barrier chan struct{}
}

// Stats Sink 运行统计
type Stats struct {
	// Submitted 被接受进入队列的记录数
	Submitted uint64
	// Written 成功写入的记录数
	Written uint64
	// Dropped 因关闭或禁用被丢弃的记录数
	Dropped uint64
	// WriteErrors 写入失败的记录数
	WriteErrors uint64
	// Rotations 文件切换次数
	Rotations uint64
	// Active 当前写入的文件
	Active xrotate.FileID
	// ActiveSize 当前文件已写入的字节数
	ActiveSize int64
}

// Sink 异步双文件轮转日志写入器
type Sink struct {
	cfg          config
	logger       *slog.Logger
	metrics      *sinkMetrics
	pathA, pathB string

	// w 只由写入协程使用；禁用时为 nil
	w rotatingWriter

	mu     sync.Mutex
	queue  []item
	spare  []item
	closed bool
	notify chan struct{}
	done   chan struct{}

	closeOnce sync.Once
	exportMu  sync.Mutex

	disabled    atomic.Bool
	dropLogged  atomic.Bool
	writeLogged bool // 仅写入协程访问

	submitted   atomic.Uint64
	written     atomic.Uint64
	dropped     atomic.Uint64
	writeErrors atomic.Uint64
	rotations   atomic.Uint64
}

// New 创建 Sink 并启动写入协程。
//
// pathA/pathB 是两个轮转文件。New 不返回错误：初始文件无法打开时
// Sink 进入禁用状态（[Sink.Disabled] 返回 true），通过内部 logger 记录一次，
// 之后所有提交被接受并丢弃。导出仍然可用，读取磁盘上已有的轮转文件。
func New(pathA, pathB string, opts ...Option) *Sink {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	s := newSinkBase(cfg)
	d, err := xrotate.NewDualFile(pathA, pathB,
		xrotate.WithMaxBytes(cfg.maxSize),
		xrotate.WithSyncWrites(cfg.syncWrites),
		xrotate.WithOnRotate(s.onRotate),
	)
	if err != nil {
		s.pathA, s.pathB = cleanPath(pathA), cleanPath(pathB)
		s.disable(err)
		return s
	}
	s.pathA, s.pathB = d.Paths()
	s.start(d)
	return s
}

// newSinkBase 构造未启动的 Sink
func newSinkBase(cfg config) *Sink {
	s := &Sink{
		cfg:    cfg,
		logger: cfg.logger,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	m, err := newSinkMetrics(cfg.meterProvider)
	if err != nil {
		s.logger.Warn("create sink metrics failed, using noop counters", slog.Any("error", err))
	}
	s.metrics = m
	return s
}

// start 绑定写入器并启动写入协程
func (s *Sink) start(w rotatingWriter) {
	s.w = w
	go s.run()
}

// disable 进入禁用状态，只记录一次
func (s *Sink) disable(err error) {
	s.disabled.Store(true)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	close(s.done)
	s.dropLogged.Store(true)
	s.logger.Error("could not open log file, file logging disabled",
		slog.String("file_a", s.pathA),
		slog.String("file_b", s.pathB),
		slog.Any("error", err),
	)
}

func cleanPath(p string) string {
	if clean, err := xfile.SanitizePath(p); err == nil {
		return clean
	}
	return filepath.Clean(p)
}

// Submit 提交一条记录。
//
// 可在任意 goroutine 调用，不阻塞、不返回错误、不 panic。
// 非并发的两次调用中先返回者先写入。Sink 已关闭或已禁用时记录被丢弃，只记录一次内部日志。
func (s *Sink) Submit(r Record) {
	r = r.clone()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.drop()
		return
	}
	s.queue = append(s.queue, item{rec: r})
	s.submitted.Add(1)
	s.mu.Unlock()

	s.wake()
}

func (s *Sink) drop() {
	s.dropped.Add(1)
	inc(s.metrics.dropped)
	if s.dropLogged.CompareAndSwap(false, true) {
		s.logger.Warn("log sink is closed, discarding records")
	}
}

func (s *Sink) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Flush 等待调用前提交的所有记录写入完成。
//
// 禁用或已关闭的 Sink 立即返回 nil。ctx 结束时返回 ctx.Err()，记录仍会在之后写入。
func (s *Sink) Flush(ctx context.Context) error {
	barrier := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.waitDone(ctx)
	}
	s.queue = append(s.queue, item{barrier: barrier})
	s.mu.Unlock()
	s.wake()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 停止接收新记录，写完队列中的记录后关闭文件。可重复调用。
//
// ctx 结束时返回 ctx.Err()，写入协程仍会在后台完成收尾。
func (s *Sink) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.wake()
	})
	return s.waitDone(ctx)
}

func (s *Sink) waitDone(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disabled 报告 Sink 是否因初始文件打开失败而禁用
func (s *Sink) Disabled() bool {
	return s.disabled.Load()
}

// Paths 返回两个轮转文件的路径
func (s *Sink) Paths() (pathA, pathB string) {
	return s.pathA, s.pathB
}

// Stats 返回运行统计快照
func (s *Sink) Stats() Stats {
	st := Stats{
		Submitted:   s.submitted.Load(),
		Written:     s.written.Load(),
		Dropped:     s.dropped.Load(),
		WriteErrors: s.writeErrors.Load(),
		Rotations:   s.rotations.Load(),
	}
	if !s.Disabled() && s.w != nil {
		st.Active = s.w.Active()
		st.ActiveSize = s.w.Size()
	}
	return st
}

// run 写入协程：按入队顺序处理，队列为空且已关闭时关闭文件退出。
func (s *Sink) run() {
	defer close(s.done)

	var buf []byte
	for {
		s.mu.Lock()
		for len(s.queue) == 0 {
			if s.closed {
				s.mu.Unlock()
				s.closeWriter()
				return
			}
			s.mu.Unlock()
			<-s.notify
			s.mu.Lock()
		}
		batch := s.queue
		s.queue = s.spare[:0]
		s.mu.Unlock()

		for i := range batch {
			if batch[i].barrier != nil {
				close(batch[i].barrier)
				continue
			}
			buf = AppendRecord(buf[:0], batch[i].rec)
			s.write(buf)
			batch[i] = item{}
		}

		s.mu.Lock()
		s.spare = batch[:0]
		s.mu.Unlock()
	}
}

func (s *Sink) write(line []byte) {
	if _, err := s.w.Write(line); err != nil {
		s.writeErrors.Add(1)
		inc(s.metrics.writeErrors)
		if !s.writeLogged {
			s.writeLogged = true
			s.logger.Error("could not write to log file", slog.Any("error", err))
		}
		return
	}
	s.written.Add(1)
	inc(s.metrics.records)
}

func (s *Sink) closeWriter() {
	if err := s.w.Close(); err != nil {
		s.logger.Warn("close log file failed", slog.Any("error", err))
	}
}

// onRotate 由写入器在写入协程内回调
func (s *Sink) onRotate(from, to xrotate.FileID) {
	s.rotations.Add(1)
	inc(s.metrics.rotations)
	s.logger.Debug("rotation file switched",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}
