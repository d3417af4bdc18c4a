// xlogctl 是 xapplog 双文件日志的命令行工具。
//
// 用法:
//
//	xlogctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config   配置文件（YAML/JSON），缺省使用默认配置
//	-d, --dir      覆盖配置中的日志目录
//
// 命令:
//
//	pipe           把标准输入的每一行作为一条记录写入轮转文件
//	export         合并两个轮转文件并输出导出文件路径
//	inspect        查看轮转文件状态与各级别记录数
//	cat            按时间顺序打印记录
//
// 退出码:
//
//	0: 成功（pipe 收到 SIGINT/SIGTERM 或输入结束）
//	1: 执行失败
//	2: 参数错误
//
// 示例:
//
//	tail -F app.out | xlogctl -d /var/log/app pipe --tag stdout
//	xlogctl -c xapplog.yaml export --out /tmp --html
//	xlogctl -d /var/log/app cat --level warn --tag net
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=1.0.0" 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(cancel)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// streams 命令的输入输出
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func createApp(s streams) *cli.Command {
	return &cli.Command{
		Name:      "xlogctl",
		Usage:     "xapplog 双文件日志工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    s.in,
		Writer:    s.out,
		ErrWriter: s.err,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径（YAML/JSON）",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "日志目录，覆盖配置文件",
			},
		},
		Commands: []*cli.Command{
			createPipeCommand(s),
			createExportCommand(s),
			createInspectCommand(s),
			createCatCommand(s),
		},
		// 退出码统一由 run 映射
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			var coder cli.ExitCoder
			if errors.As(err, &coder) {
				fmt.Fprintln(s.err, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := createApp(streams{in: in, out: out, err: errOut})
	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(errOut, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		return 2
	}
	fmt.Fprintf(errOut, "错误: %v\n", err)
	return 1
}
