// Package xpool 泛型 worker pool。
//
// New 创建后立即启动 worker。Submit 非阻塞：队列满返回 [ErrQueueFull]，
// 关闭后返回 [ErrPoolStopped]。任务 panic 被恢复并记录（默认只记录任务类型），
// 不影响后续任务。
//
// Close 等待队列中的任务全部处理完；Shutdown(ctx) 在 ctx 结束时提前返回，
// 剩余任务仍在后台处理，可通过 Done() 等待。Close/Shutdown 不能在 handler 内调用。
//
// 单 worker、队列长度 1 的 pool 可用作"最多一个待办"的串行执行器：
//
//	exports, _ := xpool.New(1, 1, func(req exportRequest) { ... })
//	if err := exports.Submit(req); errors.Is(err, xpool.ErrQueueFull) {
//		// 已有导出在排队
//	}
package xpool
