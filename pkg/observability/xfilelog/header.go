package xfilelog

import (
	"html"
	"strings"
	"time"

	"github.com/omeyang/xapplog/pkg/util/xsys"
)

const headerRule = "==================================================================="

// HeaderField 导出头部中的一行 "Key: Value"
type HeaderField struct {
	Key   string
	Value string
}

// HeaderProvider 提供导出头部的版本与设备信息
type HeaderProvider interface {
	// Header 返回头部字段，now 为本次导出的采集时间
	Header(now time.Time) []HeaderField
}

// HeaderFunc 函数适配器
type HeaderFunc func(now time.Time) []HeaderField

// Header 实现 HeaderProvider
func (f HeaderFunc) Header(now time.Time) []HeaderField {
	return f(now)
}

// StaticHeader 返回固定字段的 HeaderProvider
func StaticHeader(fields ...HeaderField) HeaderProvider {
	fixed := append([]HeaderField(nil), fields...)
	return HeaderFunc(func(time.Time) []HeaderField {
		return fixed
	})
}

// DefaultHeader 返回包含版本、进程、系统、设备与安装标识的 HeaderProvider。
//
// version 为空时不输出版本行；stateDir 为空或安装标识不可用时不输出安装标识行。
func DefaultHeader(version, stateDir string) HeaderProvider {
	return HeaderFunc(func(time.Time) []HeaderField {
		dev := xsys.Device()
		fields := make([]HeaderField, 0, 5)
		if version != "" {
			fields = append(fields, HeaderField{Key: "Version", Value: version})
		}
		if name := xsys.ProcessName(); name != "" {
			fields = append(fields, HeaderField{Key: "Process", Value: name})
		}
		fields = append(fields, HeaderField{Key: "OS", Value: dev.String()})
		if dev.Hostname != "" {
			fields = append(fields, HeaderField{Key: "Device", Value: dev.Hostname})
		}
		if stateDir != "" {
			if id, err := xsys.InstallID(stateDir); err == nil {
				fields = append(fields, HeaderField{Key: "Install ID", Value: id})
			}
		}
		return fields
	})
}

// renderHeader 生成导出头部文本
func renderHeader(now time.Time, h HeaderProvider, htmlMode bool) string {
	var b strings.Builder
	if htmlMode {
		b.WriteString("<html><body><pre>\n")
	}
	b.WriteString(headerRule)
	b.WriteByte('\n')
	b.WriteString("Logs collected on: ")
	b.Write(AppendTimestamp(nil, now))
	b.WriteByte('\n')
	if h != nil {
		for _, f := range h.Header(now) {
			line := f.Key + ": " + strings.ReplaceAll(f.Value, "\n", " ")
			if htmlMode {
				line = html.EscapeString(line)
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	b.WriteString(headerRule)
	b.WriteByte('\n')
	return b.String()
}
