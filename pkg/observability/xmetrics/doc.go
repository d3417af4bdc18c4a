// Package xmetrics 提供最小化的观测接口（tracing + metrics）。
//
// 业务代码只依赖 Observer/Span/Attr，默认实现基于 OpenTelemetry，
// 未配置 provider 时使用全局 provider（通常为 noop）。
//
// # 使用示例
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xfilelog",
//		Operation: "export",
//		Attrs:     []xmetrics.Attr{xmetrics.Dest(dest)},
//	})
//	defer func() { span.End(xmetrics.Result{Err: err, Bytes: n}) }()
//
// # 指标命名
//
//   - xapplog.operation.total
//   - xapplog.operation.duration
//   - xapplog.operation.bytes（仅 Bytes > 0 时记录）
//
// 统一属性：component / operation / status，status 取值见 [Outcome]。
// 调用方取消或超时记为 canceled，不计入失败。
package xmetrics
