package xfilelog

import (
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xapplog/pkg/observability/xmetrics"
	"github.com/omeyang/xapplog/pkg/observability/xrotate"
)

const (
	// DefaultFileA 默认轮转文件 A 的文件名
	DefaultFileA = "log0.txt"
	// DefaultFileB 默认轮转文件 B 的文件名
	DefaultFileB = "log1.txt"
	// DefaultMaxSize 两个轮转文件合计的默认上限
	DefaultMaxSize = xrotate.DefaultMaxBytes
)

type config struct {
	maxSize       int64
	syncWrites    bool
	clock         func() time.Time
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	observer      xmetrics.Observer
	header        HeaderProvider
}

func defaultConfig() config {
	return config{
		maxSize:       DefaultMaxSize,
		clock:         time.Now,
		logger:        slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "xfilelog"),
		meterProvider: otel.GetMeterProvider(),
		observer:      xmetrics.NoopObserver{},
		header:        DefaultHeader("", ""),
	}
}

// Option Sink 配置选项
type Option func(*config)

// WithMaxSize 设置两个轮转文件合计的上限（字节），单个文件写到一半即切换。
//
// 小于 2 的值会导致打开失败，Sink 进入禁用状态。
func WithMaxSize(n int64) Option {
	return func(c *config) {
		c.maxSize = n
	}
}

// WithSync 设置每条记录写入后是否 fsync
func WithSync(enabled bool) Option {
	return func(c *config) {
		c.syncWrites = enabled
	}
}

// WithClock 设置时间源，用于导出头部时间与导出文件名。nil 被忽略。
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithInternalLogger 设置 Sink 内部诊断日志的输出。nil 被忽略。
//
// 该 logger 不得以同一个 Sink 作为输出，否则写入错误会递归。
func WithInternalLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMeterProvider 设置计数器使用的 MeterProvider。nil 被忽略。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) {
		if provider != nil {
			c.meterProvider = provider
		}
	}
}

// WithObserver 设置导出操作的观测器。nil 被忽略。
func WithObserver(obs xmetrics.Observer) Option {
	return func(c *config) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithHeaderProvider 设置导出头部的字段来源。nil 被忽略。
func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *config) {
		if h != nil {
			c.header = h
		}
	}
}
