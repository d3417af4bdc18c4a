package xconf

import "github.com/knadh/koanf/v2"

// Format 配置文件格式
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 已加载的配置。并发安全。
type Config interface {
	// Client 返回当前的 koanf 实例。Reload 后旧实例仍可读，但内容是旧的。
	Client() *koanf.Koanf

	// Unmarshal 把 path 下的配置反序列化到 target，path 为空表示整个配置
	Unmarshal(path string, target any) error

	// Reload 重新读取文件。失败时保留旧配置。
	Reload() error

	// Path 返回配置文件路径，从字节创建时为空
	Path() string

	// Format 返回配置格式
	Format() Format
}
