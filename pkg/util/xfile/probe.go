package xfile

import (
	"os"
	"time"
)

// Info 文件探测结果
type Info struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
}

// statFn 测试注入点
var statFn = os.Stat

// Probe 对 path 执行一次 Stat。
//
// 文件不存在或 Stat 失败时 Exists 为 false，调用方按"文件缺失"处理即可。
func Probe(path string) Info {
	info := Info{Path: path}
	fi, err := statFn(path)
	if err != nil || fi.IsDir() {
		return info
	}
	info.Exists = true
	info.Size = fi.Size()
	info.ModTime = fi.ModTime()
	return info
}

// NewerOf 返回 a、b 中修改时间更新的一个，以及另一个。
//
// 修改时间相同时 b 视为更新（与两文件轮转的历史行为一致）。
// 只有一个存在时，存在的那个视为更新；都不存在时返回 (b, a)。
func NewerOf(a, b Info) (newer, older Info) {
	switch {
	case a.Exists && !b.Exists:
		return a, b
	case !a.Exists && b.Exists:
		return b, a
	case a.Exists && b.Exists && a.ModTime.After(b.ModTime):
		return a, b
	default:
		return b, a
	}
}
