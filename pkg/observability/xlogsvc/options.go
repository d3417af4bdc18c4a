package xlogsvc

import (
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xmetrics"
)

// DefaultExportTimeout ExportAsync 单次导出的超时
const DefaultExportTimeout = 30 * time.Second

// Option Service 配置选项
type Option func(*options)

type options struct {
	console       io.Writer
	internal      *slog.Logger
	clock         func() time.Time
	meterProvider metric.MeterProvider
	observer      xmetrics.Observer
	header        xfilelog.HeaderProvider
	exportTimeout time.Duration
}

func defaultOptions() options {
	return options{
		console:       os.Stderr,
		internal:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
		exportTimeout: DefaultExportTimeout,
	}
}

// WithConsoleWriter 设置控制台输出目标（Config.Console 为 true 时生效），默认 stderr
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithInternalLogger 设置服务自身诊断日志的 logger，不会写回日志文件
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.internal = logger
		}
	}
}

// WithClock 设置时钟，影响导出头部时间与导出文件名
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithMeterProvider 设置 Sink 计数器的 MeterProvider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = provider
	}
}

// WithObserver 设置导出 span 的 Observer
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithHeaderProvider 替换导出头部，默认 xfilelog.DefaultHeader(Config.Version, Config.Dir)
func WithHeaderProvider(h xfilelog.HeaderProvider) Option {
	return func(o *options) {
		o.header = h
	}
}

// WithExportTimeout 设置 ExportAsync 单次导出的超时，非正值被忽略
func WithExportTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.exportTimeout = d
		}
	}
}

func (o options) sinkOptions(cfg Config) []xfilelog.Option {
	header := o.header
	if header == nil {
		header = xfilelog.DefaultHeader(cfg.Version, cfg.Dir)
	}
	opts := []xfilelog.Option{
		xfilelog.WithMaxSize(cfg.MaxSizeBytes),
		xfilelog.WithSync(cfg.SyncWrites),
		xfilelog.WithInternalLogger(o.internal.With(slog.String("component", "xfilelog"))),
		xfilelog.WithHeaderProvider(header),
	}
	if o.clock != nil {
		opts = append(opts, xfilelog.WithClock(o.clock))
	}
	if o.meterProvider != nil {
		opts = append(opts, xfilelog.WithMeterProvider(o.meterProvider))
	}
	if o.observer != nil {
		opts = append(opts, xfilelog.WithObserver(o.observer))
	}
	return opts
}
