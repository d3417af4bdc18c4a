package xpool

import "errors"

var (
	// ErrNilHandler handler 为 nil
	ErrNilHandler = errors.New("xpool: handler cannot be nil")

	// ErrPoolStopped pool 已关闭
	ErrPoolStopped = errors.New("xpool: pool is stopped")

	// ErrQueueFull 任务队列已满
	ErrQueueFull = errors.New("xpool: queue is full")

	// ErrInvalidWorkers worker 数量超出 [1, 65536]
	ErrInvalidWorkers = errors.New("xpool: invalid worker count")

	// ErrInvalidQueueSize 队列大小超出 [1, 16777216]
	ErrInvalidQueueSize = errors.New("xpool: invalid queue size")

	// ErrNilContext Shutdown 的 ctx 为 nil
	ErrNilContext = errors.New("xpool: nil context")
)
