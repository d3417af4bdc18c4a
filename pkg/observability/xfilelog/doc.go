// Package xfilelog 实现异步双文件轮转日志写入与导出。
//
// # 组成
//
//   - [Record]: 不可变的日志记录（时间、级别、线程名、标签、消息、可选错误详情）
//   - [Sink]: 记录队列 + 唯一的后台写入协程，按提交顺序写入双文件轮转器
//   - [ExportFiles] / [Sink.Export]: 按修改时间把两个轮转文件合并成一份带头部的报告
//   - [AppendRecord] / [NewScanner]: 行格式的编码与解析
//
// # 行格式
//
//	2026-10-19 14:03:07'042<TAB>I<TAB>main<TAB>app/net<TAB>connected
//
// 字段以制表符分隔，级别字母为 V/D/I/W/E，ASSERT 写作 E。
// 线程名与标签中的制表符、回车、换行替换为空格。
// 错误详情（消息 + 堆栈）紧跟在记录行之后，每行以换行结束。
//
// # 并发模型
//
// [Sink.Submit] 可在任意 goroutine 调用，只做一次加锁追加，从不阻塞、从不丢弃；
// 所有记录由同一个写入协程按全局提交顺序处理。
// 初始文件打开失败时 Sink 进入禁用状态，之后的提交被接受并丢弃，只记录一次内部日志。
//
// 导出前先调用 [Sink.Flush] 作为同步点，保证导出包含调用前提交的全部记录；
// 同一个 Sink 的导出互斥执行。
//
// # 内部诊断
//
// Sink 自身的错误写入独立的 *slog.Logger（默认 stderr），永远不会回写到 Sink。
package xfilelog
