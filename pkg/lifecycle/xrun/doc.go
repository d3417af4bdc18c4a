// Package xrun 基于 errgroup + context 的进程生命周期管理。
//
// Group 并发运行多个服务，任一服务返回错误或收到终止信号时取消共享 context，
// 其余服务监听 ctx.Done() 后退出。Run 在 Group 之上自动注册信号监听，
// 信号退出时返回 [*SignalError]。
//
//	err := xrun.Run(ctx,
//		func(ctx context.Context) error { return pump(ctx, os.Stdin, sink) },
//		xrun.Ticker(10*time.Second, false, reportStats),
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//		// 正常退出
//	}
//
// Wait 过滤由 Group 自身取消引起的 context.Canceled，保留显式 cause。
//
// [errgroup]: https://pkg.go.dev/golang.org/x/sync/errgroup
package xrun
