package xlogsvc

import "errors"

var (
	// ErrInvalidConfig 配置校验失败
	ErrInvalidConfig = errors.New("xlogsvc: invalid config")

	// ErrExportBusy 已有导出在排队
	ErrExportBusy = errors.New("xlogsvc: export already pending")

	// ErrClosed 服务已关闭
	ErrClosed = errors.New("xlogsvc: service is closed")

	// ErrAlreadyInitialized 全局服务已安装
	ErrAlreadyInitialized = errors.New("xlogsvc: already initialized")

	// ErrNilCallback ExportAsync 的回调为 nil
	ErrNilCallback = errors.New("xlogsvc: nil export callback")
)
