package xlog

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
)

// Level 日志级别，与 slog.Level 兼容
type Level slog.Level

// 日志级别常量。Debug/Info/Warn/Error 与 slog 一致，Verbose 与 Assert 在两端各扩展一级。
const (
	LevelVerbose = Level(-8)
	LevelDebug   = Level(slog.LevelDebug)
	LevelInfo    = Level(slog.LevelInfo)
	LevelWarn    = Level(slog.LevelWarn)
	LevelError   = Level(slog.LevelError)
	LevelAssert  = Level(12)
)

// String 返回级别的大写名称，非标准级别委托给 slog.Level.String()（如 "INFO+2"）
func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "VERBOSE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelAssert:
		return "ASSERT"
	default:
		return slog.Level(l).String()
	}
}

// Severity 映射为文件记录的严重级别，非标准级别向下取整到最近的一级
func (l Level) Severity() xfilelog.Severity {
	switch {
	case l < LevelDebug:
		return xfilelog.SeverityVerbose
	case l < LevelInfo:
		return xfilelog.SeverityDebug
	case l < LevelWarn:
		return xfilelog.SeverityInfo
	case l < LevelError:
		return xfilelog.SeverityWarn
	case l < LevelAssert:
		return xfilelog.SeverityError
	default:
		return xfilelog.SeverityAssert
	}
}

// logcatLetter 控制台输出使用的级别字母，Assert 为 A
func (l Level) logcatLetter() byte {
	if l >= LevelAssert {
		return 'A'
	}
	return l.Severity().Letter()
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口，支持配置文件直接反序列化
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析字符串为日志级别（大小写不敏感，自动 TrimSpace）
//
// 支持 verbose/v、debug/d、info/i、warn/warning/w、error/e、assert/wtf/a。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "v":
		return LevelVerbose, nil
	case "debug", "d":
		return LevelDebug, nil
	case "info", "i":
		return LevelInfo, nil
	case "warn", "warning", "w":
		return LevelWarn, nil
	case "error", "e":
		return LevelError, nil
	case "assert", "wtf", "a":
		return LevelAssert, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}

// replaceLevelName 让 slog 内置 handler 输出 VERBOSE/ASSERT 而不是 DEBUG-4/ERROR+4
func replaceLevelName(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lv, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, Level(lv).String())
		}
	}
	return a
}
