package xlog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/omeyang/xapplog/pkg/context/xctx"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
)

// fields 从属性中拆出的记录字段。标签、操作名、错误与堆栈有专门位置，
// 其余属性渲染为 " k=v" 追加在消息之后。
type fields struct {
	tag    string
	op     string
	errMsg string
	stack  string
	extras []byte
}

// add 解析一个属性。分组展开为 "group.key"，replace 对每个叶子属性生效。
func (f *fields) add(a slog.Attr, prefix string, groups []string, replace ReplaceAttrFunc) {
	if a.Equal(slog.Attr{}) {
		return
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return
		}
		if a.Key != "" {
			prefix += a.Key + "."
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range attrs {
			f.add(ga, prefix, groups, replace)
		}
		return
	}
	if replace != nil {
		a = replace(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Key == "" {
		return
	}

	switch a.Key {
	case KeyTag:
		f.tag = a.Value.String()
	case KeyOperation:
		f.op = a.Value.String()
	case KeyError:
		f.errMsg = a.Value.String()
	case KeyStack:
		f.stack = a.Value.String()
	default:
		f.extras = append(f.extras, ' ')
		f.extras = append(f.extras, prefix...)
		f.extras = append(f.extras, a.Key...)
		f.extras = append(f.extras, '=')
		f.extras = appendValue(f.extras, a.Value)
	}
}

// merge 以 g 中的非空字段覆盖 f，extras 追加
func (f fields) merge(g fields) fields {
	if g.tag != "" {
		f.tag = g.tag
	}
	if g.op != "" {
		f.op = g.op
	}
	if g.errMsg != "" {
		f.errMsg = g.errMsg
	}
	if g.stack != "" {
		f.stack = g.stack
	}
	if len(g.extras) > 0 {
		f.extras = append(f.extras[:len(f.extras):len(f.extras)], g.extras...)
	}
	return f
}

// message 返回 "<operation> <msg> k=v ..."
func (f fields) message(msg string) string {
	if f.op == "" && len(f.extras) == 0 {
		return msg
	}
	var b strings.Builder
	b.Grow(len(f.op) + 1 + len(msg) + len(f.extras))
	if f.op != "" {
		b.WriteString(f.op)
		b.WriteByte(' ')
	}
	b.WriteString(msg)
	b.Write(f.extras)
	return b.String()
}

func (f fields) errorDetail() *xfilelog.ErrorDetail {
	if f.errMsg == "" && f.stack == "" {
		return nil
	}
	return &xfilelog.ErrorDetail{Message: f.errMsg, Stack: f.stack}
}

func appendValue(dst []byte, v slog.Value) []byte {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		s = v.Duration().String()
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

// handlerBase FileHandler 与 ConsoleHandler 共享的级别、标签与属性状态
type handlerBase struct {
	level   slog.Leveler
	appTag  string
	replace ReplaceAttrFunc
	prefix  string
	groups  []string
	attrs   fields
}

func (b *handlerBase) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if b.level != nil {
		threshold = b.level.Level()
	}
	return level >= threshold
}

// collect 合并 WithAttrs 预解析的字段与记录自身的属性
func (b *handlerBase) collect(r slog.Record) fields {
	if r.NumAttrs() == 0 {
		return b.attrs
	}
	var rf fields
	r.Attrs(func(a slog.Attr) bool {
		rf.add(a, b.prefix, b.groups, b.replace)
		return true
	})
	return b.attrs.merge(rf)
}

// resolveTag 标签优先级：属性（WithTag）> context（xctx.WithTag）> appTag
func (b *handlerBase) resolveTag(ctx context.Context, tag string) string {
	if tag == "" {
		tag = xctx.Tag(ctx)
	}
	switch {
	case tag == "":
		return b.appTag
	case b.appTag == "":
		return tag
	default:
		return b.appTag + "/" + tag
	}
}

func (b handlerBase) withAttrs(attrs []slog.Attr) handlerBase {
	var af fields
	for _, a := range attrs {
		af.add(a, b.prefix, b.groups, b.replace)
	}
	b.attrs = b.attrs.merge(af)
	return b
}

func (b handlerBase) withGroup(name string) handlerBase {
	b.prefix += name + "."
	b.groups = append(b.groups[:len(b.groups):len(b.groups)], name)
	return b
}
