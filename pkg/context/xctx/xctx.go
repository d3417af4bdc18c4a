package xctx

import "errors"

// contextKey 包私有类型，避免与其他包的 context key 冲突
type contextKey string

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")
)
