package xlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// =============================================================================
// 全局 Logger
//
// 进程级单例，由 xlogsvc.Init 安装、xlogsvc.Shutdown 卸载。
// 库代码推荐依赖注入（显式持有 Logger）。
// =============================================================================

var (
	globalLogger atomic.Pointer[LoggerWithLevel]
	globalMu     sync.Mutex // 保护 globalOnce 的执行与重置
	globalOnce   sync.Once
)

// defaultLogger 惰性创建默认 Logger。持锁执行 once.Do，避免与 ResetDefault 竞争。
func defaultLogger() LoggerWithLevel {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalOnce.Do(func() {
		logger, _, err := New().Build()
		if err != nil {
			// 默认参数不应失败，失败时降级为最小可用 logger
			fmt.Fprintf(os.Stderr, "xlog: failed to build default logger: %v, using fallback\n", err)
			var fallback LoggerWithLevel = &xlogger{
				handler:        slog.NewTextHandler(os.Stderr, nil),
				levelVar:       new(slog.LevelVar),
				errorCount:     new(atomic.Uint64),
				inErrorHandler: new(atomic.Bool),
			}
			globalLogger.Store(&fallback)
			return
		}
		globalLogger.Store(&logger)
	})
	return *globalLogger.Load()
}

// Default 返回全局 Logger，未设置时惰性创建（stderr 控制台，Info 级别）
func Default() LoggerWithLevel {
	if l := globalLogger.Load(); l != nil {
		return *l
	}
	return defaultLogger()
}

// SetDefault 替换全局 Logger，nil 被忽略
func SetDefault(l LoggerWithLevel) {
	if l == nil {
		return
	}
	globalLogger.Store(&l)
}

// ResetDefault 重置为未初始化状态，下次 Default() 重新创建默认 Logger
func ResetDefault() {
	globalMu.Lock()
	globalLogger.Store(nil)
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

// globalLog 全局函数比实例方法多一层调用，额外跳过 1 帧
func globalLog(l LoggerWithLevel, ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if xl, ok := l.(*xlogger); ok {
		xl.logWithSkip(ctx, slog.Level(level), msg, attrs, 1)
		return
	}
	switch {
	case level < LevelDebug:
		l.Verbose(ctx, msg, attrs...)
	case level < LevelInfo:
		l.Debug(ctx, msg, attrs...)
	case level < LevelWarn:
		l.Info(ctx, msg, attrs...)
	case level < LevelError:
		l.Warn(ctx, msg, attrs...)
	case level < LevelAssert:
		l.Error(ctx, msg, attrs...)
	default:
		l.Assert(ctx, msg, attrs...)
	}
}

// Verbose 使用全局 Logger 记录 Verbose 级别日志
func Verbose(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelVerbose, msg, attrs)
}

// Debug 使用全局 Logger 记录 Debug 级别日志
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelDebug, msg, attrs)
}

// Info 使用全局 Logger 记录 Info 级别日志
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelInfo, msg, attrs)
}

// Warn 使用全局 Logger 记录 Warn 级别日志
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelWarn, msg, attrs)
}

// Error 使用全局 Logger 记录 Error 级别日志
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelError, msg, attrs)
}

// Assert 使用全局 Logger 记录 Assert 级别日志
func Assert(ctx context.Context, msg string, attrs ...slog.Attr) {
	globalLog(Default(), ctx, LevelAssert, msg, attrs)
}

// Stack 使用全局 Logger 记录带堆栈的错误日志
func Stack(ctx context.Context, msg string, attrs ...slog.Attr) {
	l := Default()
	if xl, ok := l.(*xlogger); ok {
		xl.stackWithSkip(ctx, msg, attrs, 1)
		return
	}
	l.Stack(ctx, msg, attrs...)
}
