package xfilelog

import (
	"strconv"
	"strings"
	"time"
)

const (
	// dateLayout 时间戳的秒级部分，毫秒以撇号分隔追加在后
	dateLayout = "2006-01-02 15:04:05"

	// timestampLen "2006-01-02 15:04:05'000" 的长度
	timestampLen = len(dateLayout) + 4
)

// AppendTimestamp 以 "2006-01-02 15:04:05'000"（本地时间）格式追加时间戳。
func AppendTimestamp(dst []byte, t time.Time) []byte {
	t = t.Local()
	dst = t.AppendFormat(dst, dateLayout)
	dst = append(dst, '\'')
	ms := t.Nanosecond() / int(time.Millisecond)
	if ms < 100 {
		dst = append(dst, '0')
	}
	if ms < 10 {
		dst = append(dst, '0')
	}
	return strconv.AppendInt(dst, int64(ms), 10)
}

// ParseTimestamp 解析 [AppendTimestamp] 的输出（按本地时区）。
func ParseTimestamp(s string) (time.Time, bool) {
	if len(s) != timestampLen || s[len(dateLayout)] != '\'' {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, s[:len(dateLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	ms, err := strconv.Atoi(s[len(dateLayout)+1:])
	if err != nil || ms < 0 {
		return time.Time{}, false
	}
	return t.Add(time.Duration(ms) * time.Millisecond), true
}

// AppendRecord 将记录编码为一行（附带错误文本行）追加到 dst。
//
//	timestamp \t letter \t thread \t tag \t message \n
//	[error text lines \n]
//
// 线程名与标签中的制表符、换行被替换为空格；消息按原样写入。
// 消息含换行时，文件内容完整保留，但 [Scanner] 只把第一行当作消息，
// 其余行与错误文本一起归入 Record.Err（见 [Entry.Raw]）。
func AppendRecord(dst []byte, r Record) []byte {
	dst = AppendTimestamp(dst, r.Time)
	dst = append(dst, '\t', r.Severity.Letter(), '\t')
	dst = appendField(dst, r.Thread)
	dst = append(dst, '\t')
	dst = appendField(dst, r.Tag)
	dst = append(dst, '\t')
	dst = append(dst, r.Message...)
	dst = append(dst, '\n')

	if text := r.Err.Text(); text != "" {
		for line := range strings.SplitSeq(text, "\n") {
			dst = append(dst, strings.TrimSuffix(line, "\r")...)
			dst = append(dst, '\n')
		}
	}
	return dst
}

// appendField 追加线程名/标签，制表符与换行替换为空格，保证字段边界不被破坏。
func appendField(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\t' || c == '\n' || c == '\r' {
			c = ' '
		}
		dst = append(dst, c)
	}
	return dst
}
