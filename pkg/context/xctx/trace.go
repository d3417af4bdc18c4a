package xctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.opentelemetry.io/otel/trace"
)

// 追踪 Key 常量，遵循 OpenTelemetry 语义约定（下划线分隔）
const (
	KeyTraceID    = "trace_id"
	KeySpanID     = "span_id"
	KeyTraceFlags = "trace_flags"
)

const (
	// TraceIDSize W3C 规范: 128-bit (16 bytes) -> 32 hex chars
	TraceIDSize = 16
)

const (
	keyTraceID    = contextKey("xctx:trace_id")
	keySpanID     = contextKey("xctx:span_id")
	keyTraceFlags = contextKey("xctx:trace_flags")
)

// WithTraceID 将 trace ID 注入 context
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTraceID(ctx context.Context, traceID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyTraceID, traceID), nil
}

// TraceID 从 context 提取 trace ID。
//
// 显式注入的值优先；否则读取 OpenTelemetry span context；都没有时返回空字符串。
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyTraceID).(string); ok && v != "" {
		return v
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// WithSpanID 将 span ID 注入 context
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithSpanID(ctx context.Context, spanID string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keySpanID, spanID), nil
}

// SpanID 从 context 提取 span ID，规则同 [TraceID]
func SpanID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keySpanID).(string); ok && v != "" {
		return v
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}

// WithTraceFlags 将 W3C trace-flags 注入 context，格式为 2 位十六进制（"01" 已采样，"00" 未采样）。
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTraceFlags(ctx context.Context, flags string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyTraceFlags, flags), nil
}

// TraceFlags 从 context 提取 trace-flags，未设置时返回空字符串，由调用方决定默认值
func TraceFlags(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyTraceFlags).(string); ok {
		return v
	}
	return ""
}

// GenerateTraceID 生成 32 位小写十六进制的 TraceID（非全零）。
//
// 熵源不可用时 panic，此时进程已无法提供安全随机数。
func GenerateTraceID() string {
	var buf [TraceIDSize]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("xctx: crypto/rand.Read failed: " + err.Error())
		}
		if !isAllZeros(buf[:]) {
			return hex.EncodeToString(buf[:])
		}
	}
}

func isAllZeros(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// EnsureTraceID 确保 context 中存在 TraceID，已有则原样返回，否则生成并注入。
//
// 用于一次导出或一次 CLI 调用的入口，使其日志可被关联。
// 如果 ctx 为 nil，返回 ErrNilContext。
func EnsureTraceID(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if TraceID(ctx) != "" {
		return ctx, nil
	}
	return WithTraceID(ctx, GenerateTraceID())
}
