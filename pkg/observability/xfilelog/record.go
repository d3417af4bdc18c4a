package xfilelog

import (
	"strings"
	"time"
)

// ErrorDetail 记录附带的错误详情
type ErrorDetail struct {
	// Message 错误消息
	Message string
	// Stack 堆栈文本，可为空
	Stack string
}

// Text 返回写入文件的错误文本：消息在前，堆栈在后，末尾不含换行。
func (e *ErrorDetail) Text() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimRight(e.Message, "\r\n")
	stack := strings.TrimRight(e.Stack, "\r\n")
	switch {
	case stack == "":
		return msg
	case msg == "":
		return stack
	default:
		return msg + "\n" + stack
	}
}

// ErrorDetailFrom 从 error 构造错误详情，err 为 nil 时返回 nil。
func ErrorDetailFrom(err error, stack string) *ErrorDetail {
	if err == nil && stack == "" {
		return nil
	}
	d := &ErrorDetail{Stack: stack}
	if err != nil {
		d.Message = err.Error()
	}
	return d
}

// Record 一条日志记录
//
// 提交给 [Sink.Submit] 后由 Sink 持有一份独立副本，调用方之后的修改不影响已提交的记录。
type Record struct {
	Time     time.Time
	Severity Severity
	Thread   string
	Tag      string
	Message  string
	Err      *ErrorDetail
}

// NewRecord 以当前时间创建记录。err 非 nil 时附带其消息作为错误详情。
func NewRecord(sev Severity, thread, tag, message string, err error) Record {
	return Record{
		Time:     time.Now(),
		Severity: sev,
		Thread:   thread,
		Tag:      tag,
		Message:  message,
		Err:      ErrorDetailFrom(err, ""),
	}
}

// clone 返回不与调用方共享错误详情的副本
func (r Record) clone() Record {
	if r.Err != nil {
		e := *r.Err
		r.Err = &e
	}
	return r
}
