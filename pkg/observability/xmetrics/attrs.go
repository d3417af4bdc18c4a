package xmetrics

// 导出观测的属性键
const (
	KeyDest    = "dest"
	KeyFormat  = "format"
	KeySources = "sources"
)

// Dest 导出目标路径
func Dest(path string) Attr {
	return Attr{Key: KeyDest, Value: path}
}

// Format 导出格式，html 或 text
func Format(html bool) Attr {
	if html {
		return Attr{Key: KeyFormat, Value: "html"}
	}
	return Attr{Key: KeyFormat, Value: "text"}
}

// Sources 实际合并的轮转文件数（0~2）
func Sources(n int) Attr {
	return Attr{Key: KeySources, Value: n}
}
