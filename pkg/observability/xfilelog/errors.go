package xfilelog

import "errors"

var (
	// ErrClosed Sink 已关闭
	ErrClosed = errors.New("xfilelog: sink is closed")

	// ErrExportFailed 导出失败，目标文件可能已部分写入，不应视为可用导出
	ErrExportFailed = errors.New("xfilelog: export failed")

	// ErrEmptyDestination 导出目标为空
	ErrEmptyDestination = errors.New("xfilelog: export destination is required")

	// ErrDestinationIsSource 导出目标与轮转文件相同
	ErrDestinationIsSource = errors.New("xfilelog: export destination is a rotation file")
)
