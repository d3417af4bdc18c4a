package xfilelog

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize 单行最大长度
const maxLineSize = 1 << 20

// Entry 从日志文件解析出的一条记录
type Entry struct {
	Record Record
	// Raw 原始文本，包括续行，不含末尾换行
	Raw string
}

// ParseLine 解析一条记录行（不含续行）。不是记录行时返回 false。
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.SplitN(line, "\t", 5)
	if len(fields) != 5 || len(fields[1]) != 1 {
		return Record{}, false
	}
	ts, ok := ParseTimestamp(fields[0])
	if !ok {
		return Record{}, false
	}
	sev, ok := ParseSeverityLetter(fields[1][0])
	if !ok {
		return Record{}, false
	}
	return Record{
		Time:     ts,
		Severity: sev,
		Thread:   fields[2],
		Tag:      fields[3],
		Message:  fields[4],
	}, true
}

// Scanner 逐条读取日志文件中的记录。
//
// 不是记录行的行归入上一条记录的错误详情；第一条记录之前的行（如导出头部）被跳过。
type Scanner struct {
	sc      *bufio.Scanner
	pending *pendingEntry
	cur     Entry
	skipped int
}

type pendingEntry struct {
	rec   Record
	lines []string
}

// NewScanner 创建 Scanner
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Scan 前进到下一条记录
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		line := s.sc.Text()
		if rec, ok := ParseLine(line); ok {
			next := &pendingEntry{rec: rec, lines: []string{line}}
			if s.pending != nil {
				s.cur = s.pending.entry()
				s.pending = next
				return true
			}
			s.pending = next
			continue
		}
		if s.pending == nil {
			s.skipped++
			continue
		}
		s.pending.lines = append(s.pending.lines, line)
	}
	if s.pending != nil {
		s.cur = s.pending.entry()
		s.pending = nil
		return true
	}
	return false
}

// Entry 返回当前记录
func (s *Scanner) Entry() Entry {
	return s.cur
}

// Skipped 返回第一条记录之前被跳过的行数
func (s *Scanner) Skipped() int {
	return s.skipped
}

// Err 返回读取过程中的错误（io.EOF 不算错误）
func (s *Scanner) Err() error {
	return s.sc.Err()
}

func (p *pendingEntry) entry() Entry {
	rec := p.rec
	if cont := p.lines[1:]; len(cont) > 0 {
		d := &ErrorDetail{Message: strings.TrimSuffix(cont[0], "\r")}
		if len(cont) > 1 {
			d.Stack = strings.Join(cont[1:], "\n")
		}
		rec.Err = d
	}
	return Entry{Record: rec, Raw: strings.Join(p.lines, "\n")}
}
