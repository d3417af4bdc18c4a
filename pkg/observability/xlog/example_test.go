package xlog_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/omeyang/xapplog/pkg/context/xctx"
	"github.com/omeyang/xapplog/pkg/observability/xlog"
)

func ExampleBuilder() {
	logger, cleanup, err := xlog.New().
		SetLevelString("verbose").
		SetAppTag("uploader").
		SetConsole(os.Stdout).
		Build()
	if err != nil {
		return
	}
	defer func() { _ = cleanup() }()

	ctx, _ := xctx.WithThreadName(context.Background(), "worker-2")
	net := logger.WithTag("net")
	net.Info(ctx, "connected", slog.String("host", "example.org"))
	net.Warn(ctx, "retry", xlog.Operation("upload"), xlog.Err(errors.New("timeout")))
	// Output:
	// I/uploader/net: connected host=example.org
	// W/uploader/net: upload retry
	// timeout
}

func ExampleParseLevel() {
	level, _ := xlog.ParseLevel("wtf")
	fmt.Println(level, level.Severity().Letter() == 'E')
	// Output: ASSERT true
}
