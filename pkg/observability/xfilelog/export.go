package xfilelog

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/omeyang/xapplog/pkg/context/xctx"
	"github.com/omeyang/xapplog/pkg/observability/xmetrics"
	"github.com/omeyang/xapplog/pkg/util/xfile"
)

const (
	// exportFilePerm 导出文件权限（gosec G302）
	exportFilePerm os.FileMode = 0600

	// exportNameLayout 导出文件名中的时间部分 yyMMddHHmm
	exportNameLayout = "0601021504"

	// panicExportTimeout 崩溃导出的最长等待时间
	panicExportTimeout = 5 * time.Second
)

type exportConfig struct {
	html  bool
	clock func() time.Time
}

// ExportOption 导出选项
type ExportOption func(*exportConfig)

// WithHTML 以 HTML 包装导出：头部前加 <html><body><pre>，日志内容转义，末尾闭合标签。
func WithHTML() ExportOption {
	return func(c *exportConfig) {
		c.html = true
	}
}

// WithExportClock 设置头部采集时间的时间源。nil 被忽略。
func WithExportClock(clock func() time.Time) ExportOption {
	return func(c *exportConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func buildExportConfig(opts []ExportOption) exportConfig {
	cfg := exportConfig{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ExportFileName 返回导出文件名 log_<yyMMddHHmm>.txt，HTML 模式为 .html。
func ExportFileName(now time.Time, htmlMode bool) string {
	ext := ".txt"
	if htmlMode {
		ext = ".html"
	}
	return "log_" + now.Format(exportNameLayout) + ext
}

// ExportFiles 把两个轮转文件合并写入 dest。
//
// 输出依次为：头部、较旧的文件、较新的文件（按修改时间；相同时 A 在前）。
// 只有一个文件存在时只复制它；都不存在时只写头部，不算错误。
// dest 的父目录不存在时自动创建。失败时返回包装了 [ErrExportFailed] 的错误，
// dest 可能已部分写入。
//
// ExportFiles 不与写入者同步，调用方需要自行保证顺序（见 [Sink.Export]）。
func ExportFiles(ctx context.Context, pathA, pathB, dest string, header HeaderProvider, opts ...ExportOption) error {
	_, err := exportFiles(ctx, pathA, pathB, dest, header, buildExportConfig(opts))
	return err
}

// exportStats 一次导出的产出
type exportStats struct {
	sources int
	bytes   int64
}

func exportFiles(ctx context.Context, pathA, pathB, dest string, header HeaderProvider, cfg exportConfig) (exportStats, error) {
	if err := ctx.Err(); err != nil {
		return exportStats{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if dest == "" {
		return exportStats{}, fmt.Errorf("%w: %w", ErrExportFailed, ErrEmptyDestination)
	}

	dest, err := xfile.SanitizePath(dest)
	if err != nil {
		return exportStats{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if dest == cleanPath(pathA) || dest == cleanPath(pathB) {
		return exportStats{}, fmt.Errorf("%w: %w: %s", ErrExportFailed, ErrDestinationIsSource, dest)
	}
	if err := xfile.EnsureDir(dest); err != nil {
		return exportStats{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	newer, older := xfile.NewerOf(xfile.Probe(pathA), xfile.Probe(pathB))

	st, err := writeExport(dest, older, newer, header, cfg)
	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return st, nil
}

// writeExport 写入头部并按 older、newer 顺序复制存在的文件
func writeExport(dest string, older, newer xfile.Info, header HeaderProvider, cfg exportConfig) (st exportStats, err error) {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, exportFilePerm)
	if err != nil {
		return st, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(renderHeader(cfg.clock(), header, cfg.html)); err != nil {
		return st, err
	}

	var body io.Writer = bw
	if cfg.html {
		body = htmlEscaper{w: bw}
	}
	for _, src := range []xfile.Info{older, newer} {
		if !src.Exists {
			continue
		}
		if err := copyFile(body, src.Path); err != nil {
			return st, err
		}
		st.sources++
	}

	if cfg.html {
		if _, err := bw.WriteString("</pre></body></html>\n"); err != nil {
			return st, err
		}
	}
	if err := bw.Flush(); err != nil {
		return st, err
	}
	if info, err := f.Stat(); err == nil {
		st.bytes = info.Size()
	}
	return st, f.Sync()
}

func copyFile(dst io.Writer, path string) error {
	src, err := os.Open(path) //#nosec G304 -- 路径来自轮转文件配置
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()
	_, err = io.Copy(dst, src)
	return err
}

// htmlEscaper 转义写入的内容。转义的字符都是单字节 ASCII，分块写入不会截断转义序列。
type htmlEscaper struct {
	w io.StringWriter
}

func (h htmlEscaper) Write(p []byte) (int, error) {
	if _, err := h.w.WriteString(html.EscapeString(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Export 先等待已提交的记录写入，再把两个轮转文件合并写入 dest。
//
// 同一个 Sink 的导出互斥执行。失败时返回包装了 [ErrExportFailed] 的错误。
func (s *Sink) Export(ctx context.Context, dest string, opts ...ExportOption) (err error) {
	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	all := make([]ExportOption, 0, len(opts)+1)
	all = append(all, WithExportClock(s.cfg.clock))
	all = append(all, opts...)
	cfg := buildExportConfig(all)

	var st exportStats
	ctx, span := xmetrics.Start(ctx, s.cfg.observer, xmetrics.SpanOptions{
		Component: "xfilelog",
		Operation: "export",
		Attrs:     []xmetrics.Attr{xmetrics.Dest(dest), xmetrics.Format(cfg.html)},
	})
	defer func() {
		span.End(xmetrics.Result{Err: err, Bytes: st.bytes, Attrs: []xmetrics.Attr{xmetrics.Sources(st.sources)}})
	}()

	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrExportFailed, err)
	}

	st, err = exportFiles(ctx, s.pathA, s.pathB, dest, s.cfg.header, cfg)
	if err != nil {
		s.logger.Error("could not prepare log export", slog.String("dest", dest), slog.Any("error", err))
		return err
	}
	s.logger.Debug("log export prepared",
		slog.String("dest", dest), slog.Int("sources", st.sources), slog.Int64("bytes", st.bytes))
	return nil
}

// ExportToDir 导出到 dir 下的 log_<yyMMddHHmm>.txt（或 .html），返回导出文件路径。
//
// 返回的路径可直接交给分享或上传流程。
func (s *Sink) ExportToDir(ctx context.Context, dir string, opts ...ExportOption) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, ErrEmptyDestination)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	cfg := buildExportConfig(opts)
	dest, err := xfile.SafeJoin(abs, ExportFileName(s.cfg.clock(), cfg.html))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if err := s.Export(ctx, dest, opts...); err != nil {
		return "", err
	}
	return dest, nil
}

// ExportOnPanic 在 panic 时记录一条 ASSERT 记录、导出日志到 dir，然后继续 panic。
//
// 必须直接 defer 调用：
//
//	defer sink.ExportOnPanic(dir)
//
// 只能捕获当前 goroutine 的 panic。
func (s *Sink) ExportOnPanic(dir string) {
	r := recover()
	if r == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), panicExportTimeout)
	defer cancel()

	s.Submit(Record{
		Time:     s.cfg.clock(),
		Severity: SeverityAssert,
		Thread:   xctx.DefaultThreadName,
		Tag:      "panic",
		Message:  fmt.Sprint("panic: ", r),
		Err:      &ErrorDetail{Stack: string(debug.Stack())},
	})
	if path, err := s.ExportToDir(ctx, dir); err != nil {
		s.logger.Error("could not export logs after panic", slog.Any("error", err))
	} else {
		s.logger.Error("logs exported after panic", slog.String("path", path))
	}
	panic(r)
}
