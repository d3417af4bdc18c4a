// Package xctx 提供日志记录所需的 context 字段存取。
//
// 一条日志记录的 thread 与 tag 字段不从调用栈推断，而是由调用方显式提供，
// 最常见的方式就是挂在 context 上，由 xlog 的 handler 在写入时读取。
//
// # 字段
//
//   - thread_name: 产生日志的逻辑执行单元名称（goroutine 没有名字，由调用方命名），缺省 "main"
//   - tag        : 日志标签（通常是组件名），缺省由 xlog 使用应用标签
//   - trace_id   : 追踪标识；未显式设置时从 OpenTelemetry span context 读取
//   - span_id    : 跨度标识；规则同 trace_id
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入：将 value 写入 context
//	Xxx(ctx)               - 读取：缺失时返回零值（thread_name 返回默认值）
//	EnsureXxx(ctx)         - 确保存在：若已存在则返回，否则自动生成
//
// # 哨兵错误
//
//	ErrNilContext - context 为 nil
//
// xctx 是纯粹的存取层，不对字段值进行格式校验。
package xctx
