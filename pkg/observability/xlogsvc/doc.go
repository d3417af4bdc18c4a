// Package xlogsvc 组装应用日志服务：双文件 Sink、xlog Logger、JSON 镜像与导出队列。
//
// 显式实例：
//
//	cfg, err := xlogsvc.LoadConfig("xapplog.yaml")
//	svc, err := xlogsvc.New(cfg)
//	defer svc.Shutdown(context.Background())
//	svc.Logger().WithTag("net").Info(ctx, "connected")
//
// 进程级单例：Init 安装服务并替换 xlog 的全局 Logger，Shutdown 卸载并关闭。
// 两种方式可以并存，但同一组轮转文件只能由一个服务持有。
package xlogsvc
