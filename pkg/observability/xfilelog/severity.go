package xfilelog

import "strconv"

// Severity 日志级别
type Severity int8

const (
	SeverityVerbose Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	// SeverityAssert 按错误处理，写入文件时字母为 E
	SeverityAssert
)

var severityNames = [...]string{"VERBOSE", "DEBUG", "INFO", "WARN", "ERROR", "ASSERT"}

// Letter 返回写入文件的级别字母。未知级别返回 "?"。
func (s Severity) Letter() byte {
	switch s {
	case SeverityVerbose:
		return 'V'
	case SeverityDebug:
		return 'D'
	case SeverityInfo:
		return 'I'
	case SeverityWarn:
		return 'W'
	case SeverityError, SeverityAssert:
		return 'E'
	default:
		return '?'
	}
}

// String 返回级别名称
func (s Severity) String() string {
	if s >= 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "Severity(" + strconv.Itoa(int(s)) + ")"
}

// ParseSeverityLetter 将文件中的级别字母还原为级别。E 还原为 [SeverityError]。
func ParseSeverityLetter(c byte) (Severity, bool) {
	switch c {
	case 'V':
		return SeverityVerbose, true
	case 'D':
		return SeverityDebug, true
	case 'I':
		return SeverityInfo, true
	case 'W':
		return SeverityWarn, true
	case 'E':
		return SeverityError, true
	default:
		return 0, false
	}
}
