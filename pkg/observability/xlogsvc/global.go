package xlogsvc

import (
	"context"
	"sync"

	"github.com/omeyang/xapplog/pkg/observability/xlog"
)

// 进程级单例。生命周期：Init 到 Shutdown 之间有效，期间 xlog 的全局函数写入该服务。

var (
	globalMu  sync.Mutex
	globalSvc *Service
)

// Init 创建服务并安装为进程级单例，同时替换 xlog 的全局 Logger。
// 已安装时返回 [ErrAlreadyInitialized]。
func Init(cfg Config, opts ...Option) (*Service, error) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalSvc != nil {
		return nil, ErrAlreadyInitialized
	}
	svc, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	globalSvc = svc
	xlog.SetDefault(svc.Logger())
	return svc, nil
}

// Current 返回已安装的服务，未安装时返回 nil
func Current() *Service {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalSvc
}

// Shutdown 卸载并关闭进程级服务，xlog 恢复默认 Logger。未安装时返回 nil。
func Shutdown(ctx context.Context) error {
	globalMu.Lock()
	svc := globalSvc
	globalSvc = nil
	if svc != nil {
		xlog.ResetDefault()
	}
	globalMu.Unlock()

	if svc == nil {
		return nil
	}
	return svc.Shutdown(ctx)
}
