package xctx

import "context"

// 日志属性 Key 常量
const (
	KeyThreadName = "thread_name"
	KeyTag        = "tag"
)

// DefaultThreadName 未设置线程名时使用的值
const DefaultThreadName = "main"

const (
	keyThreadName = contextKey("xctx:thread_name")
	keyTag        = contextKey("xctx:tag")
)

// WithThreadName 将线程名注入 context。
//
// 空字符串等同于未设置，读取时返回 [DefaultThreadName]。
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithThreadName(ctx context.Context, name string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyThreadName, name), nil
}

// ThreadName 从 context 提取线程名，不存在返回 [DefaultThreadName]
func ThreadName(ctx context.Context) string {
	if ctx == nil {
		return DefaultThreadName
	}
	if v, ok := ctx.Value(keyThreadName).(string); ok && v != "" {
		return v
	}
	return DefaultThreadName
}

// WithTag 将日志标签注入 context。
//
// 如果 ctx 为 nil，返回 ErrNilContext。
func WithTag(ctx context.Context, tag string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return context.WithValue(ctx, keyTag, tag), nil
}

// Tag 从 context 提取日志标签，不存在返回空字符串
func Tag(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyTag).(string); ok {
		return v
	}
	return ""
}
