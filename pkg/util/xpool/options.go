package xpool

import "log/slog"

// Option Pool 可选配置
type Option func(*options)

type options struct {
	logger       *slog.Logger
	name         string
	logTaskValue bool
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
	}
}

// WithLogger 设置 panic 日志的 logger，nil 被忽略
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，出现在日志的 pool 字段中
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogTaskValue panic 日志中输出任务的完整值，默认只输出类型
func WithLogTaskValue() Option {
	return func(o *options) {
		o.logTaskValue = true
	}
}
