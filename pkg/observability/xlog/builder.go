package xlog

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xapplog/pkg/observability/xrotate"
)

// ReplaceAttrFunc 属性替换函数类型
//
// 用于字段重命名、敏感信息脱敏、字段过滤。返回空 Key 的 Attr 时该属性被移除。
//
//	func(groups []string, a slog.Attr) slog.Attr {
//	    if a.Key == "password" {
//	        return slog.String("password", "***")
//	    }
//	    return a
//	}
type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

// Builder 日志配置构建器
//
// 输出目标可以组合：文件 Sink、logcat 风格控制台、lumberjack JSON 镜像。
// 一个都没有配置时输出到 stderr 控制台。
// 遇到第一个配置错误后记录该错误，由 Build 返回。
type Builder struct {
	levelVar     *slog.LevelVar
	appTag       string
	sink         RecordSink
	console      io.Writer
	mirror       *xrotate.Mirror
	addSource    bool
	enableEnrich bool
	replaceAttr  ReplaceAttrFunc
	onError      func(error)
	err          error
}

// New 创建配置构建器，默认 Info 级别、启用 enrich
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		levelVar:     levelVar,
		enableEnrich: true,
	}
}

func (b *Builder) setErr(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别，支持 [ParseLevel] 的全部写法
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		return b.setErr(err)
	}
	return b.SetLevel(level)
}

// SetLevelVar 使用外部 LevelVar，便于多个 logger 共享动态级别
func (b *Builder) SetLevelVar(v *slog.LevelVar) *Builder {
	if v != nil {
		b.levelVar = v
	}
	return b
}

// SetAppTag 设置应用标签，记录标签为 "<appTag>/<tag>"
func (b *Builder) SetAppTag(tag string) *Builder {
	b.appTag = tag
	return b
}

// SetFileSink 把记录提交给文件 Sink，通常为 *xfilelog.Sink。
//
// Sink 的生命周期由调用方管理，cleanup 不会关闭它。
func (b *Builder) SetFileSink(sink RecordSink) *Builder {
	if sink == nil {
		return b.setErr(ErrNilSink)
	}
	b.sink = sink
	return b
}

// SetConsole 以 logcat 风格输出到 w
func (b *Builder) SetConsole(w io.Writer) *Builder {
	if w == nil {
		return b.setErr(ErrNilWriter)
	}
	b.console = w
	return b
}

// SetMirror 额外以 JSON 行写入按大小滚动的镜像文件（见 [xrotate.Mirror]），cleanup 时关闭
func (b *Builder) SetMirror(filename string, policy xrotate.MirrorPolicy) *Builder {
	mirror, err := xrotate.NewMirror(filename, policy)
	if err != nil {
		return b.setErr(err)
	}
	if b.mirror != nil {
		_ = b.mirror.Close()
	}
	b.mirror = mirror
	return b
}

// SetAddSource 是否在 JSON 镜像中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetEnrich 是否从 context 注入 trace_id、span_id，默认启用
func (b *Builder) SetEnrich(enable bool) *Builder {
	b.enableEnrich = enable
	return b
}

// SetOnError 设置内部错误回调
//
// 任一输出的 Handle 失败时调用（如镜像文件磁盘满）。
// 回调在日志调用方同步执行，应保持轻量；回调内的日志错误不会递归。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// SetReplaceAttr 设置属性替换函数，对所有输出生效
//
//	logger, _, _ := xlog.New().
//		SetReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
//			if a.Key == "token" {
//				return slog.String(a.Key, "***REDACTED***")
//			}
//			return a
//		}).
//		Build()
func (b *Builder) SetReplaceAttr(fn ReplaceAttrFunc) *Builder {
	b.replaceAttr = fn
	return b
}

// Build 构建 Logger 实例
//
// 返回值：
//   - LoggerWithLevel: 日志实例，同时支持动态级别控制
//   - func() error: 清理函数，关闭 JSON 镜像文件
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		if b.mirror != nil {
			_ = b.mirror.Close()
		}
		return nil, nil, b.err
	}

	recordOpts := &FileHandlerOptions{
		Level:       b.levelVar,
		AppTag:      b.appTag,
		ReplaceAttr: b.replaceAttr,
	}

	var handlers []slog.Handler
	if b.sink != nil {
		fh, err := NewFileHandler(b.sink, recordOpts)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, fh)
	}
	if b.console != nil {
		handlers = append(handlers, NewConsoleHandler(b.console, recordOpts))
	}
	if b.mirror != nil {
		handlers = append(handlers, slog.NewJSONHandler(b.mirror, &slog.HandlerOptions{
			Level:       b.levelVar,
			AddSource:   b.addSource,
			ReplaceAttr: b.mirrorReplaceAttr(),
		}))
	}
	if len(handlers) == 0 {
		handlers = append(handlers, NewConsoleHandler(os.Stderr, recordOpts))
	}

	handler := newMultiHandler(handlers...)
	if b.enableEnrich {
		enriched, err := NewEnrichHandler(handler)
		if err != nil {
			return nil, nil, err
		}
		handler = enriched
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		addSource:      b.addSource,
		inErrorHandler: new(atomic.Bool),
	}
	return logger, b.createCleanup(), nil
}

// mirrorReplaceAttr 先规范级别名称，再交给用户的替换函数
func (b *Builder) mirrorReplaceAttr() func([]string, slog.Attr) slog.Attr {
	user := b.replaceAttr
	if user == nil {
		return replaceLevelName
	}
	return func(groups []string, a slog.Attr) slog.Attr {
		return user(groups, replaceLevelName(groups, a))
	}
}

func (b *Builder) createCleanup() func() error {
	var once sync.Once
	mirror := b.mirror
	return func() error {
		var err error
		once.Do(func() {
			if mirror != nil {
				err = mirror.Close()
			}
		})
		return err
	}
}
