// Package xlog 基于 log/slog 的应用日志门面，输出到双文件轮转 Sink。
//
// # 核心功能
//
//   - 六个级别：Verbose、Debug、Info、Warn、Error、Assert
//   - 多路输出：文件 Sink（[FileHandler]）、logcat 风格控制台（[ConsoleHandler]）、
//     lumberjack JSON 镜像，可任意组合
//   - 标签：[Logger.WithTag] 或 xctx.WithTag，记录标签为 "<appTag>/<tag>"
//   - 线程名：xctx.WithThreadName，未设置为 "main"
//   - 自动从 context 注入 trace_id、span_id（[EnrichHandler]，默认启用）
//   - 动态级别调整，全局 Logger 便利函数
//
// # 创建 Logger
//
//	sink := xfilelog.New(pathA, pathB)
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetAppTag("uploader").
//		SetFileSink(sink).
//		SetConsole(os.Stderr).
//		Build()
//
// Builder 为一次性使用，遇到第一个配置错误后由 [Builder.Build] 返回。
//
// # 文件记录的映射
//
// 级别映射为 xfilelog.Severity，Assert 在文件中写作 E。
// [Err] 与 [KeyStack] 属性写入记录后的错误行；[Operation] 属性作为消息前缀；
// 其余属性以 k=v 追加在消息之后。
//
// # 全局 Logger
//
//   - [Default]: 获取全局 Logger（惰性初始化：stderr 控制台、Info 级别）
//   - [SetDefault]: 替换全局 Logger（nil 会被忽略）
//   - [ResetDefault]: 重置为未初始化状态
//   - [Verbose] ... [Assert]、[Stack]: 全局便利函数，签名为 (ctx, msg, ...slog.Attr)
//
// # 派生 Logger 与级别控制
//
// [Logger.With]、[Logger.WithGroup]、[Logger.WithTag] 返回 [Logger]。
// 底层实现同时实现 [LoggerWithLevel]，派生 logger 共享父级的 LevelVar。
package xlog
