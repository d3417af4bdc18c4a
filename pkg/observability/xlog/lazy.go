package xlog

import "log/slog"

// 延迟求值：属性值在 handler 格式化时才计算，级别禁用时 fn 不会被调用。
// 接口装箱的一次分配仍然存在，简单值直接用 slog.String 等更划算。

type lazyValue struct {
	fn func() any
}

func (l lazyValue) LogValue() slog.Value {
	return slog.AnyValue(l.fn())
}

// Lazy 返回延迟求值的属性，fn 为 nil 时值为 nil
//
//	logger.Verbose(ctx, "queue snapshot",
//	    xlog.Lazy("items", func() any { return queue.Snapshot() }))
func Lazy(key string, fn func() any) slog.Attr {
	if fn == nil {
		return slog.Any(key, nil)
	}
	return slog.Any(key, lazyValue{fn: fn})
}

type lazyStringValue struct {
	fn func() string
}

func (l lazyStringValue) LogValue() slog.Value {
	return slog.StringValue(l.fn())
}

// LazyString 返回延迟求值的字符串属性
func LazyString(key string, fn func() string) slog.Attr {
	if fn == nil {
		return slog.String(key, "")
	}
	return slog.Any(key, lazyStringValue{fn: fn})
}
