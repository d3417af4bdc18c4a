package xlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/omeyang/xapplog/pkg/context/xctx"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
)

// RecordSink 接收文件记录，由 *xfilelog.Sink 实现
type RecordSink interface {
	Submit(r xfilelog.Record)
}

// FileHandler 把 slog 记录转换为 [xfilelog.Record] 提交给 Sink。
//
// 线程名取自 xctx.ThreadName(ctx)；error/stack 属性写入错误行；
// operation 属性作为消息前缀；其余属性以 k=v 追加在消息后。
// Handle 从不返回错误，写入失败由 Sink 自行记录。
type FileHandler struct {
	sink RecordSink
	handlerBase
}

var _ slog.Handler = (*FileHandler)(nil)

// FileHandlerOptions FileHandler 配置
type FileHandlerOptions struct {
	// Level 最低级别，nil 为 Info
	Level slog.Leveler
	// AppTag 应用标签，作为所有标签的前缀
	AppTag string
	// ReplaceAttr 属性替换函数
	ReplaceAttr ReplaceAttrFunc
}

// NewFileHandler 创建 FileHandler，sink 为 nil 时返回 ErrNilSink
func NewFileHandler(sink RecordSink, opts *FileHandlerOptions) (*FileHandler, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if opts == nil {
		opts = &FileHandlerOptions{}
	}
	return &FileHandler{
		sink: sink,
		handlerBase: handlerBase{
			level:   opts.Level,
			appTag:  opts.AppTag,
			replace: opts.ReplaceAttr,
		},
	}, nil
}

// Enabled 报告级别是否启用
func (h *FileHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

// Handle 转换并提交记录
func (h *FileHandler) Handle(ctx context.Context, r slog.Record) error {
	f := h.collect(r)
	at := r.Time
	if at.IsZero() {
		at = time.Now()
	}
	h.sink.Submit(xfilelog.Record{
		Time:     at,
		Severity: Level(r.Level).Severity(),
		Thread:   xctx.ThreadName(ctx),
		Tag:      h.resolveTag(ctx, f.tag),
		Message:  f.message(r.Message),
		Err:      f.errorDetail(),
	})
	return nil
}

// WithAttrs 返回带额外属性的新 handler
func (h *FileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &FileHandler{sink: h.sink, handlerBase: h.withAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
func (h *FileHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &FileHandler{sink: h.sink, handlerBase: h.withGroup(name)}
}
