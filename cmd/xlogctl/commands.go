package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xapplog/pkg/context/xctx"
	"github.com/omeyang/xapplog/pkg/lifecycle/xrun"
	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xlog"
	"github.com/omeyang/xapplog/pkg/observability/xlogsvc"
	"github.com/omeyang/xapplog/pkg/observability/xrotate"
	"github.com/omeyang/xapplog/pkg/util/xfile"
)

const (
	shutdownTimeout = 5 * time.Second
	maxInputLine    = 1 << 20
)

// errInputDone 标准输入读完
var errInputDone = errors.New("input closed")

func createPipeCommand(s streams) *cli.Command {
	return &cli.Command{
		Name:  "pipe",
		Usage: "把标准输入的每一行写入轮转文件",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "记录标签（追加在 app_tag 之后）"},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "记录级别", Value: "info"},
			&cli.StringFlag{Name: "thread", Usage: "记录的线程名", Value: xctx.DefaultThreadName},
			&cli.DurationFlag{Name: "stats-interval", Usage: "周期输出写入统计，0 表示关闭"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdPipe(ctx, cmd, s)
		},
	}
}

func createExportCommand(s streams) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "合并两个轮转文件，输出导出文件路径",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "导出目录，缺省使用配置的 export_dir"},
			&cli.BoolFlag{Name: "html", Usage: "导出为 HTML"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdExport(ctx, cmd, s)
		},
	}
}

func createInspectCommand(s streams) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "查看轮转文件状态",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdInspect(cmd, s)
		},
	}
}

func createCatCommand(s streams) *cli.Command {
	return &cli.Command{
		Name:  "cat",
		Usage: "按时间顺序打印记录",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "最低级别", Value: "verbose"},
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "只输出标签包含该字符串的记录"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdCat(cmd, s)
		},
	}
}

// loadConfig 读取全局 --config / --dir
func loadConfig(cmd *cli.Command) (xlogsvc.Config, error) {
	cfg := xlogsvc.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := xlogsvc.LoadConfig(path)
		if err != nil {
			if errors.Is(err, xlogsvc.ErrInvalidConfig) {
				return cfg, usagef("%v", err)
			}
			return cfg, err
		}
		cfg = loaded
	}
	if dir := cmd.String("dir"); dir != "" {
		cfg.Dir = dir
	}
	if err := cfg.Validate(); err != nil {
		return cfg, usagef("%v", err)
	}
	return cfg, nil
}

func parseLevelFlag(cmd *cli.Command) (xlog.Level, error) {
	level, err := xlog.ParseLevel(cmd.String("level"))
	if err != nil {
		return 0, usagef("--level: %v", err)
	}
	return level, nil
}

func cmdPipe(ctx context.Context, cmd *cli.Command, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := parseLevelFlag(cmd)
	if err != nil {
		return err
	}
	ctx, err = xctx.WithThreadName(ctx, cmd.String("thread"))
	if err != nil {
		return usagef("--thread: %v", err)
	}
	interval := cmd.Duration("stats-interval")
	if interval < 0 {
		return usagef("--stats-interval must not be negative")
	}

	internal := slog.New(slog.NewTextHandler(s.err, nil))
	svc, err := xlogsvc.New(cfg,
		xlogsvc.WithInternalLogger(internal),
		xlogsvc.WithConsoleWriter(s.err),
	)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := svc.Shutdown(shutdownCtx); err != nil {
			internal.Warn("shutdown log service failed", slog.Any("error", err))
		}
	}()

	var logger xlog.Logger = svc.Logger()
	if tag := cmd.String("tag"); tag != "" {
		logger = logger.WithTag(tag)
	}
	services := []func(context.Context) error{
		pump(s.in, func(ctx context.Context, line string) {
			logAt(ctx, logger, level, line)
		}),
	}
	if interval > 0 {
		services = append(services, xrun.Ticker(interval, false, func(context.Context) error {
			printStats(s.err, svc.Sink().Stats())
			return nil
		}))
	}

	err = xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithName("xlogctl-pipe"),
		xrun.WithLogger(internal),
	}, services...)
	if errors.Is(err, errInputDone) || errors.Is(err, xrun.ErrSignal) {
		err = nil
	}
	if err != nil {
		return err
	}
	if err := svc.Sink().Flush(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if svc.Sink().Disabled() {
		return errors.New("log files could not be opened")
	}
	return nil
}

// pump 逐行读取 in，读完返回 errInputDone。
// 读取在独立 goroutine 中进行，ctx 取消时不等待阻塞中的 Read。
func pump(in io.Reader, write func(ctx context.Context, line string)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		lines := make(chan string)
		errc := make(chan error, 1)
		go func() {
			defer close(lines)
			sc := bufio.NewScanner(in)
			sc.Buffer(make([]byte, 0, 64*1024), maxInputLine)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					return
				}
			}
			errc <- sc.Err()
		}()

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					select {
					case err := <-errc:
						if err != nil {
							return fmt.Errorf("read input: %w", err)
						}
					default:
					}
					return errInputDone
				}
				if strings.TrimSpace(line) != "" {
					write(ctx, line)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func logAt(ctx context.Context, l xlog.Logger, level xlog.Level, msg string) {
	switch {
	case level >= xlog.LevelAssert:
		l.Assert(ctx, msg)
	case level >= xlog.LevelError:
		l.Error(ctx, msg)
	case level >= xlog.LevelWarn:
		l.Warn(ctx, msg)
	case level >= xlog.LevelInfo:
		l.Info(ctx, msg)
	case level >= xlog.LevelDebug:
		l.Debug(ctx, msg)
	default:
		l.Verbose(ctx, msg)
	}
}

func printStats(w io.Writer, st xfilelog.Stats) {
	fmt.Fprintf(w, "submitted=%d written=%d dropped=%d write_errors=%d rotations=%d active=%s active_size=%d\n",
		st.Submitted, st.Written, st.Dropped, st.WriteErrors, st.Rotations, st.Active, st.ActiveSize)
}

func cmdExport(ctx context.Context, cmd *cli.Command, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pathA, pathB, err := cfg.Paths()
	if err != nil {
		return usagef("%v", err)
	}
	outDir := cmd.String("out")
	if outDir == "" {
		outDir = cfg.ExportLocation()
	}
	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return err
	}
	htmlMode := cmd.Bool("html") || cfg.ExportHTML
	dest, err := xfile.SafeJoin(outDir, xfilelog.ExportFileName(time.Now(), htmlMode))
	if err != nil {
		return usagef("--out: %v", err)
	}

	var opts []xfilelog.ExportOption
	if htmlMode {
		opts = append(opts, xfilelog.WithHTML())
	}
	if err := xfilelog.ExportFiles(ctx, pathA, pathB, dest, xfilelog.DefaultHeader(cfg.Version, cfg.Dir), opts...); err != nil {
		return err
	}
	fmt.Fprintln(s.out, dest)
	return nil
}

// fileSummary 单个轮转文件的统计
type fileSummary struct {
	id      string
	info    xfile.Info
	counts  [xfilelog.SeverityAssert + 1]int
	records int
	first   time.Time
	last    time.Time
}

func summarize(id string, info xfile.Info) (fileSummary, error) {
	sum := fileSummary{id: id, info: info}
	err := scanFile(info, func(e xfilelog.Entry) bool {
		sev := e.Record.Severity
		if sev >= 0 && int(sev) < len(sum.counts) {
			sum.counts[sev]++
		}
		if sum.records == 0 {
			sum.first = e.Record.Time
		}
		sum.last = e.Record.Time
		sum.records++
		return true
	})
	return sum, err
}

// scanFile 遍历文件中的记录，文件不存在时什么也不做。fn 返回 false 时停止。
func scanFile(info xfile.Info, fn func(xfilelog.Entry) bool) error {
	if !info.Exists {
		return nil
	}
	f, err := os.Open(info.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := xfilelog.NewScanner(f)
	for sc.Scan() {
		if !fn(sc.Entry()) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", info.Path, err)
	}
	return nil
}

// rotationOrder 按修改时间返回 (older, newer)，时间相同时 A 在前
func rotationOrder(cfg xlogsvc.Config) (older, newer xfile.Info, err error) {
	pathA, pathB, err := cfg.Paths()
	if err != nil {
		return older, newer, usagef("%v", err)
	}
	newer, older = xfile.NewerOf(xfile.Probe(pathA), xfile.Probe(pathB))
	return older, newer, nil
}

func cmdInspect(cmd *cli.Command, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pathA, pathB, err := cfg.Paths()
	if err != nil {
		return usagef("%v", err)
	}
	infoA, infoB := xfile.Probe(pathA), xfile.Probe(pathB)

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tPATH\tSIZE\tMODIFIED\tRECORDS\tV\tD\tI\tW\tE\tFIRST\tLAST")
	for _, item := range []struct {
		id   string
		info xfile.Info
	}{{"A", infoA}, {"B", infoB}} {
		sum, err := summarize(item.id, item.info)
		if err != nil {
			return err
		}
		writeSummary(tw, sum)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	newer, _ := xfile.NewerOf(infoA, infoB)
	switch {
	case !newer.Exists:
		fmt.Fprintln(s.out, "active: none (next start writes A)")
	case newer.Path == infoA.Path:
		fmt.Fprintln(s.out, "active: A")
	default:
		fmt.Fprintln(s.out, "active: B")
	}
	fmt.Fprintf(s.out, "limit: %d bytes (rotate at %d)\n", cfg.MaxSizeBytes, cfg.MaxSizeBytes/2)
	return printMirror(s.out, cfg.Mirror)
}

// printMirror 输出 JSON 镜像的当前文件大小与备份数，未配置镜像时不输出
func printMirror(w io.Writer, m xlogsvc.MirrorConfig) error {
	if m.Path == "" {
		return nil
	}
	backups, err := xrotate.MirrorBackups(m.Path)
	if err != nil {
		return fmt.Errorf("list mirror backups: %w", err)
	}
	size := "-"
	if info := xfile.Probe(m.Path); info.Exists {
		size = fmt.Sprintf("%d bytes", info.Size)
	}
	fmt.Fprintf(w, "mirror: %s (%s, %d backups, keep %d / %d days)\n",
		m.Path, size, len(backups), m.MaxBackups, m.MaxAgeDays)
	return nil
}

func writeSummary(w io.Writer, sum fileSummary) {
	if !sum.info.Exists {
		fmt.Fprintf(w, "%s\t%s\t-\t-\t0\t-\t-\t-\t-\t-\t-\t-\n", sum.id, sum.info.Path)
		return
	}
	b := sum.counts
	first, last := "-", "-"
	if sum.records > 0 {
		first = string(xfilelog.AppendTimestamp(nil, sum.first))
		last = string(xfilelog.AppendTimestamp(nil, sum.last))
	}
	fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
		sum.id, sum.info.Path, sum.info.Size,
		sum.info.ModTime.Format(time.DateTime), sum.records,
		b[xfilelog.SeverityVerbose], b[xfilelog.SeverityDebug], b[xfilelog.SeverityInfo],
		b[xfilelog.SeverityWarn], b[xfilelog.SeverityError]+b[xfilelog.SeverityAssert],
		first, last)
}

func cmdCat(cmd *cli.Command, s streams) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, err := parseLevelFlag(cmd)
	if err != nil {
		return err
	}
	minSev := level.Severity()
	tag := cmd.String("tag")

	older, newer, err := rotationOrder(cfg)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(s.out)
	var writeErr error
	for _, info := range []xfile.Info{older, newer} {
		err := scanFile(info, func(e xfilelog.Entry) bool {
			if e.Record.Severity < minSev || (tag != "" && !strings.Contains(e.Record.Tag, tag)) {
				return true
			}
			if _, writeErr = fmt.Fprintln(w, e.Raw); writeErr != nil {
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		if writeErr != nil {
			return writeErr
		}
	}
	return w.Flush()
}

// setupSignalHandler 第一次信号取消 ctx，第二次信号强制退出（130 = 128 + SIGINT）
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}

// isCLIUsageError 识别 urfave/cli 与 flag 解析产生的参数错误
func isCLIUsageError(err error) bool {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return true
	}
	msg := err.Error()
	for _, prefix := range []string{
		"flag provided but not defined",
		"invalid value",
		"flag needs an argument",
		"Required flag",
		"No help topic",
	} {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}
