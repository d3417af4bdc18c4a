package xlog

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxConsoleLine 单条控制台输出的最大长度，与 logcat 单条上限一致
const maxConsoleLine = 4000

// ConsoleHandler 以 logcat 风格 "L/tag: message" 输出到 io.Writer。
//
// 错误与堆栈文本跟在消息后另起一行。消息达到 4000 字节时先按行拆分，
// 过长的行再按 4000 字节切块，每块单独输出一行。
type ConsoleHandler struct {
	w  io.Writer
	mu *sync.Mutex // 派生 handler 共享
	handlerBase
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// NewConsoleHandler 创建 ConsoleHandler，opts 可为 nil
func NewConsoleHandler(w io.Writer, opts *FileHandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &FileHandlerOptions{}
	}
	return &ConsoleHandler{
		w:  w,
		mu: new(sync.Mutex),
		handlerBase: handlerBase{
			level:   opts.Level,
			appTag:  opts.AppTag,
			replace: opts.ReplaceAttr,
		},
	}
}

// Enabled 报告级别是否启用
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

// Handle 格式化并写出记录
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	f := h.collect(r)
	msg := f.message(r.Message)
	if text := f.errorDetail().Text(); text != "" {
		msg += "\n" + text
	}
	prefix := string(Level(r.Level).logcatLetter()) + "/" + h.resolveTag(ctx, f.tag) + ": "

	buf := make([]byte, 0, len(prefix)+len(msg)+1)
	for _, part := range consoleChunks(msg) {
		buf = append(buf, prefix...)
		buf = append(buf, part...)
		buf = append(buf, '\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// consoleChunks 短消息整体输出；长消息按行拆分，超长行按 maxConsoleLine 切块，不拆开 UTF-8 字符
func consoleChunks(msg string) []string {
	if len(msg) < maxConsoleLine {
		return []string{msg}
	}
	var parts []string
	for line := range strings.SplitSeq(msg, "\n") {
		for len(line) > maxConsoleLine {
			end := maxConsoleLine
			for end > 0 && !utf8.RuneStart(line[end]) {
				end--
			}
			if end == 0 {
				end = maxConsoleLine
			}
			parts = append(parts, line[:end])
			line = line[end:]
		}
		parts = append(parts, line)
	}
	return parts
}

// WithAttrs 返回带额外属性的新 handler
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &ConsoleHandler{w: h.w, mu: h.mu, handlerBase: h.withAttrs(attrs)}
}

// WithGroup 返回带分组的新 handler
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ConsoleHandler{w: h.w, mu: h.mu, handlerBase: h.withGroup(name)}
}
