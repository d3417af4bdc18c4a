// Package context 提供上下文相关的子包。
//
// 子包列表：
//   - xctx: 日志记录的线程名、标签与追踪标识在 context 中的存取
//
// 设计原则：
//   - 所有上下文信息通过 context.Context 传递，不使用全局变量
package context
