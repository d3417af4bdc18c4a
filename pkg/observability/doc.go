// Package observability 提供应用日志相关的子包。
//
// 子包列表：
//   - xfilelog: 异步双文件日志写入、行格式、导出合并
//   - xrotate: 双文件半容量轮转与 lumberjack 镜像轮转
//   - xlog: 基于 log/slog 的日志门面，文件/控制台/JSON 镜像输出
//   - xlogsvc: 组装以上组件的日志服务，配置加载与热更新
//   - xmetrics: 基于 OpenTelemetry 的 span 与计数器
//
// 设计原则：
//   - 写入方永不阻塞，日志写入失败不影响业务
//   - 内部诊断日志不写回日志文件本身
package observability
