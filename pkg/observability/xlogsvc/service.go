package xlogsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/omeyang/xapplog/pkg/config/xconf"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xlog"
	"github.com/omeyang/xapplog/pkg/util/xpool"
)

// Service 持有一组轮转文件及其上的 Logger。
//
// 所有方法可并发调用。Shutdown 之后 Logger 的输出被丢弃，导出返回 [ErrClosed]。
type Service struct {
	cfg      Config
	opts     options
	sink     *xfilelog.Sink
	logger   xlog.LoggerWithLevel
	cleanup  func() error
	exports  *xpool.Pool[exportRequest]
	internal *slog.Logger

	mu      sync.Mutex
	watcher *xconf.Watcher
	closed  bool

	shutdownOnce sync.Once
	shutdownErr  error
}

type exportRequest struct {
	done func(path string, err error)
}

// New 校验配置并启动服务。
//
// 轮转文件无法打开时不返回错误：Sink 进入禁用状态，Logger 仍可使用，
// 可通过 Sink().Disabled() 检查。
func New(cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	pathA, pathB, err := cfg.Paths()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s := &Service{
		cfg:      cfg,
		opts:     o,
		internal: o.internal.With(slog.String("component", "xlogsvc")),
	}
	s.sink = xfilelog.New(pathA, pathB, o.sinkOptions(cfg)...)

	b := xlog.New().
		SetLevelString(cfg.Level).
		SetAppTag(cfg.AppTag).
		SetFileSink(s.sink).
		SetOnError(s.reportError)
	if cfg.Console {
		b.SetConsole(o.console)
	}
	if cfg.Mirror.Path != "" {
		b.SetMirror(cfg.Mirror.Path, cfg.Mirror.Policy())
	}
	logger, cleanup, err := b.Build()
	if err != nil {
		_ = s.sink.Close(context.Background())
		return nil, fmt.Errorf("xlogsvc: build logger: %w", err)
	}
	s.logger, s.cleanup = logger, cleanup

	s.exports, err = xpool.New(1, 1, s.runExport,
		xpool.WithLogger(s.internal),
		xpool.WithName("export"),
	)
	if err != nil {
		_ = cleanup()
		_ = s.sink.Close(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Service) reportError(err error) {
	s.internal.Warn("log output failed", slog.Any("error", err))
}

// Logger 返回服务的 Logger
func (s *Service) Logger() xlog.LoggerWithLevel {
	return s.logger
}

// Sink 返回底层 Sink，可用于 defer Sink().ExportOnPanic(dir)
func (s *Service) Sink() *xfilelog.Sink {
	return s.sink
}

// Config 返回启动时的配置
func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) exportOptions() []xfilelog.ExportOption {
	if s.cfg.ExportHTML {
		return []xfilelog.ExportOption{xfilelog.WithHTML()}
	}
	return nil
}

// Export 同步导出到配置的导出目录，返回导出文件路径
func (s *Service) Export(ctx context.Context) (string, error) {
	if s.isClosed() {
		return "", ErrClosed
	}
	return s.sink.ExportToDir(ctx, s.cfg.ExportLocation(), s.exportOptions()...)
}

// ExportAsync 在后台导出，完成后调用 done。
//
// 导出串行执行；已有一个导出在排队时返回 [ErrExportBusy]。
func (s *Service) ExportAsync(done func(path string, err error)) error {
	if done == nil {
		return ErrNilCallback
	}
	err := s.exports.Submit(exportRequest{done: done})
	switch {
	case errors.Is(err, xpool.ErrQueueFull):
		return ErrExportBusy
	case errors.Is(err, xpool.ErrPoolStopped):
		return ErrClosed
	}
	return err
}

func (s *Service) runExport(req exportRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.exportTimeout)
	defer cancel()
	path, err := s.sink.ExportToDir(ctx, s.cfg.ExportLocation(), s.exportOptions()...)
	req.done(path, err)
}

// WatchConfig 监视配置文件，文件变更后应用其中的 level。
//
// 只有 level 支持热更新，其他字段的变更需要重启服务。
// 重复调用会替换之前的监视。
func (s *Service) WatchConfig(path string) error {
	c, err := xconf.New(path)
	if err != nil {
		return err
	}
	w, err := xconf.Watch(c, s.onConfigChange)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = w.Stop()
		return ErrClosed
	}
	prev := s.watcher
	s.watcher = w
	s.mu.Unlock()

	if prev != nil {
		_ = prev.Stop()
	}
	s.onConfigChange(c, nil)
	w.StartAsync()
	return nil
}

func (s *Service) onConfigChange(c xconf.Config, err error) {
	if err != nil {
		s.internal.Warn("reload log config failed", slog.Any("error", err))
		return
	}
	var next Config
	if err := c.Unmarshal("", &next); err != nil {
		s.internal.Warn("decode log config failed", slog.Any("error", err))
		return
	}
	// 未配置 level 时保持当前级别
	if strings.TrimSpace(next.Level) == "" {
		return
	}
	level, err := xlog.ParseLevel(next.Level)
	if err != nil {
		s.internal.Warn("ignoring invalid log level", slog.String("level", next.Level), slog.Any("error", err))
		return
	}
	if prev := s.logger.GetLevel(); prev != level {
		s.logger.SetLevel(level)
		s.internal.Info("log level changed", slog.String("from", prev.String()), slog.String("to", level.String()))
	}
}

func (s *Service) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown 停止配置监视、等待排队的导出、写完剩余记录并关闭文件。
//
// 可重复调用，返回首次调用的结果。
func (s *Service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		w := s.watcher
		s.watcher = nil
		s.mu.Unlock()

		var errs []error
		if w != nil {
			errs = append(errs, w.Stop())
		}
		errs = append(errs,
			s.exports.Shutdown(ctx),
			s.sink.Close(ctx),
			s.cleanup(),
		)
		s.shutdownErr = errors.Join(errs...)
	})
	return s.shutdownErr
}
