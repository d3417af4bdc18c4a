package xmetrics

import (
	"context"
	"errors"
)

// Outcome 一次操作的结果分类，写入 span 状态与指标的 status 属性
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
	// OutcomeCanceled 调用方取消或超时（如关闭时导出等待超时），不计为失败
	OutcomeCanceled Outcome = "canceled"
)

// OutcomeOf 按错误分类：nil 为 ok，链上含 context 取消或超时为 canceled，其余为 error。
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// Attr 附加在 span 上的属性，构造函数见 attrs.go
type Attr struct {
	Key   string
	Value any
}

// SpanOptions 开始观测的参数
type SpanOptions struct {
	// Component 组件名，为空时记为 unknown
	Component string
	// Operation 操作名，同时作为 span 名称
	Operation string
	Attrs     []Attr
}

// Result 结束观测时的结果
type Result struct {
	Err error
	// Bytes 本次操作产出的字节数，大于 0 时计入 xapplog.operation.bytes
	Bytes int64
	// Attrs 结束时才知道的属性（如参与合并的文件数）
	Attrs []Attr
}

// Span 一次观测
type Span interface {
	// End 结束观测，多次调用只记录第一次
	End(result Result)
}

// Observer 导出等低频操作的观测入口
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopObserver 不记录任何内容，Sink 未配置 Observer 时使用
type NoopObserver struct{}

// Start 原样返回 ctx（nil 时为 context.Background()）
func (NoopObserver) Start(ctx context.Context, _ SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, NoopSpan{}
}

// NoopSpan 空 Span
type NoopSpan struct{}

// End 空实现
func (NoopSpan) End(Result) {}

// Start 通过 observer 开始观测，返回值总是非 nil。
//
// nil ctx 替换为 context.Background()；observer 为 nil 或返回 nil Span 时使用 [NoopSpan]。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	retCtx, span := observer.Start(ctx, opts)
	if retCtx == nil {
		retCtx = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return retCtx, span
}
