package xsys

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

// DeviceInfo 设备描述
type DeviceInfo struct {
	// OS 操作系统名称（如 "Linux"、"Darwin"），uname 不可用时为 runtime.GOOS
	OS string
	// Release 内核版本（如 "6.8.0-45-generic"）
	Release string
	// Machine 硬件架构（如 "x86_64"、"arm64"），uname 不可用时为 runtime.GOARCH
	Machine string
	// Hostname 主机名
	Hostname string
}

// String 返回 "<OS> <Release> (<Machine>)" 形式的可读描述。
func (d DeviceInfo) String() string {
	var b strings.Builder
	b.WriteString(d.OS)
	if d.Release != "" {
		b.WriteByte(' ')
		b.WriteString(d.Release)
	}
	if d.Machine != "" {
		b.WriteString(" (")
		b.WriteString(d.Machine)
		b.WriteByte(')')
	}
	return b.String()
}

var (
	deviceOnce  sync.Once
	deviceValue DeviceInfo
)

// unameFn 平台相关实现，测试中可替换
var unameFn = uname

// Device 返回当前设备描述，首次调用后缓存。
func Device() DeviceInfo {
	deviceOnce.Do(func() {
		deviceValue = resolveDevice()
	})
	return deviceValue
}

func resolveDevice() DeviceInfo {
	d := DeviceInfo{OS: runtime.GOOS, Machine: runtime.GOARCH}
	if sys, release, machine, ok := unameFn(); ok {
		if sys != "" {
			d.OS = sys
		}
		d.Release = release
		if machine != "" {
			d.Machine = machine
		}
	}
	if host, err := os.Hostname(); err == nil {
		d.Hostname = host
	}
	return d
}
