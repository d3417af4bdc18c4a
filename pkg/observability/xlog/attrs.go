package xlog

import (
	"log/slog"
	"time"

	"github.com/omeyang/xapplog/pkg/context/xctx"
)

// 常用属性 Key。KeyError、KeyStack、KeyOperation、KeyTag 在文件记录中有专门位置，
// 其他属性以 k=v 追加在消息后。
const (
	// KeyError 错误消息，写入文件记录的错误行
	KeyError = "error"

	// KeyStack 堆栈文本，写入文件记录的错误行
	KeyStack = "stack"

	// KeyOperation 操作名，作为消息前缀
	KeyOperation = "operation"

	// KeyTag 记录标签，与 xctx 保持一致
	KeyTag = xctx.KeyTag

	KeyDuration  = "duration"
	KeyCount     = "count"
	KeyComponent = "component"
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被忽略）
//
//	if err != nil {
//	    logger.Error(ctx, "upload failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Operation 创建操作名属性。文件与控制台输出中以 "<operation> <message>" 呈现。
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Tag 创建标签属性，效果同 [Logger.WithTag]
func Tag(tag string) slog.Attr {
	return slog.String(KeyTag, tag)
}

// Duration 创建耗时属性，输出人类可读格式（如 "1m30s"）
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}
