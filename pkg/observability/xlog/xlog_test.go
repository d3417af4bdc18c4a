package xlog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omeyang/xapplog/pkg/observability/xfilelog"
	"github.com/omeyang/xapplog/pkg/observability/xlog"
	"github.com/omeyang/xapplog/pkg/observability/xrotate"
)

// testCleanup 在测试结束时执行 cleanup
func testCleanup(t *testing.T, cleanup func() error) {
	t.Helper()
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Errorf("cleanup error: %v", err)
		}
	})
}

// =============================================================================
// 级别
// =============================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want xlog.Level
	}{
		{"verbose", xlog.LevelVerbose},
		{"V", xlog.LevelVerbose},
		{"debug", xlog.LevelDebug},
		{"d", xlog.LevelDebug},
		{" INFO ", xlog.LevelInfo},
		{"i", xlog.LevelInfo},
		{"warn", xlog.LevelWarn},
		{"Warning", xlog.LevelWarn},
		{"w", xlog.LevelWarn},
		{"error", xlog.LevelError},
		{"e", xlog.LevelError},
		{"assert", xlog.LevelAssert},
		{"WTF", xlog.LevelAssert},
		{"a", xlog.LevelAssert},
	}
	for _, tt := range tests {
		got, err := xlog.ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := xlog.ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}

func TestLevel_String(t *testing.T) {
	tests := map[xlog.Level]string{
		xlog.LevelVerbose: "VERBOSE",
		xlog.LevelDebug:   "DEBUG",
		xlog.LevelInfo:    "INFO",
		xlog.LevelWarn:    "WARN",
		xlog.LevelError:   "ERROR",
		xlog.LevelAssert:  "ASSERT",
		xlog.Level(2):     "INFO+2",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", int(level), got, want)
		}
	}
}

func TestLevel_Severity(t *testing.T) {
	tests := []struct {
		level xlog.Level
		want  xfilelog.Severity
	}{
		{xlog.Level(-12), xfilelog.SeverityVerbose},
		{xlog.LevelVerbose, xfilelog.SeverityVerbose},
		{xlog.Level(-5), xfilelog.SeverityVerbose},
		{xlog.LevelDebug, xfilelog.SeverityDebug},
		{xlog.LevelInfo, xfilelog.SeverityInfo},
		{xlog.Level(2), xfilelog.SeverityInfo},
		{xlog.LevelWarn, xfilelog.SeverityWarn},
		{xlog.LevelError, xfilelog.SeverityError},
		{xlog.Level(10), xfilelog.SeverityError},
		{xlog.LevelAssert, xfilelog.SeverityAssert},
		{xlog.Level(20), xfilelog.SeverityAssert},
	}
	for _, tt := range tests {
		if got := tt.level.Severity(); got != tt.want {
			t.Errorf("Level(%d).Severity() = %v, want %v", int(tt.level), got, tt.want)
		}
	}
}

func TestLevel_TextRoundTrip(t *testing.T) {
	for _, level := range []xlog.Level{xlog.LevelVerbose, xlog.LevelInfo, xlog.LevelAssert} {
		text, err := level.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got xlog.Level
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != level {
			t.Errorf("round trip %v = %v", level, got)
		}
	}
	var l xlog.Level
	if err := l.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText(nope) should fail")
	}
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *xlog.Builder
		wantErr error
	}{
		{"nil sink", xlog.New().SetFileSink(nil), xlog.ErrNilSink},
		{"nil console", xlog.New().SetConsole(nil), xlog.ErrNilWriter},
		{"first error wins", xlog.New().SetConsole(nil).SetFileSink(nil), xlog.ErrNilWriter},
		{"bad mirror path", xlog.New().SetMirror("", xrotate.DefaultMirrorPolicy()), xrotate.ErrEmptyFilename},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, cleanup, err := tt.builder.Build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if logger != nil || cleanup != nil {
				t.Error("Build() should return nil logger and cleanup on error")
			}
		})
	}

	if _, _, err := xlog.New().SetLevelString("loud").Build(); err == nil {
		t.Error("SetLevelString(loud) should fail Build")
	}
}

func TestBuilder_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetConsole(&buf).SetLevelString("warn").Build()
	if err != nil {
		t.Fatal(err)
	}
	testCleanup(t, cleanup)

	ctx := context.Background()
	if logger.GetLevel() != xlog.LevelWarn {
		t.Errorf("GetLevel() = %v, want WARN", logger.GetLevel())
	}
	logger.Info(ctx, "hidden")
	if buf.Len() != 0 {
		t.Errorf("Info should be filtered, got %q", buf.String())
	}

	child := logger.WithTag("sub")
	logger.SetLevel(xlog.LevelVerbose)
	if !logger.Enabled(ctx, xlog.LevelVerbose) {
		t.Error("Verbose should be enabled after SetLevel")
	}
	child.Verbose(ctx, "shown")
	if got := buf.String(); got != "V/sub: shown\n" {
		t.Errorf("output = %q", got)
	}
}

func TestBuilder_SharedLevelVar(t *testing.T) {
	lv := new(slog.LevelVar)
	var a, b bytes.Buffer
	la, _, _ := xlog.New().SetConsole(&a).SetLevelVar(lv).Build()
	lb, _, _ := xlog.New().SetConsole(&b).SetLevelVar(lv).Build()

	lv.Set(slog.LevelError)
	la.Warn(context.Background(), "x")
	lb.Warn(context.Background(), "x")
	if a.Len()+b.Len() != 0 {
		t.Error("shared level should filter both loggers")
	}
}

func TestBuilder_Mirror(t *testing.T) {
	dir := t.TempDir()
	mirror := filepath.Join(dir, "mirror.json")
	var console bytes.Buffer

	logger, cleanup, err := xlog.New().
		SetLevel(xlog.LevelVerbose).
		SetAppTag("app").
		SetConsole(&console).
		SetMirror(mirror, xrotate.MirrorPolicy{MaxSizeMB: 1, MaxBackups: 1}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	logger.WithTag("net").Verbose(context.Background(), "mirrored", slog.Int("n", 1))
	logger.Assert(context.Background(), "bad")
	if err := cleanup(); err != nil {
		t.Fatal(err)
	}
	if err := cleanup(); err != nil {
		t.Errorf("second cleanup error = %v", err)
	}

	data, err := os.ReadFile(mirror)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{`"level":"VERBOSE"`, `"msg":"mirrored"`, `"tag":"net"`, `"n":1`, `"level":"ASSERT"`} {
		if !strings.Contains(out, want) {
			t.Errorf("mirror missing %s:\n%s", want, out)
		}
	}
	if !strings.Contains(console.String(), "V/app/net: mirrored n=1") {
		t.Errorf("console = %q", console.String())
	}
}

func TestBuilder_DefaultsToStderr(t *testing.T) {
	logger, cleanup, err := xlog.New().Build()
	if err != nil {
		t.Fatal(err)
	}
	testCleanup(t, cleanup)
	if !logger.Enabled(context.Background(), xlog.LevelInfo) {
		t.Error("default logger should enable Info")
	}
	if logger.Enabled(context.Background(), xlog.LevelDebug) {
		t.Error("default logger should not enable Debug")
	}
}

func TestBuilder_WithRealSink(t *testing.T) {
	dir := t.TempDir()
	sink := xfilelog.New(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"))
	logger, cleanup, err := xlog.New().SetAppTag("app").SetFileSink(sink).Build()
	if err != nil {
		t.Fatal(err)
	}
	testCleanup(t, cleanup)

	logger.Error(context.Background(), "saved", xlog.Operation("persist"), xlog.Err(errors.New("disk full")))
	if err := sink.Close(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("file lines = %q", lines)
	}
	fields := strings.Split(lines[0], "\t")
	if len(fields) != 5 || fields[1] != "E" || fields[2] != "main" || fields[3] != "app" || fields[4] != "persist saved" {
		t.Errorf("record line = %q", lines[0])
	}
	if lines[1] != "disk full" {
		t.Errorf("error line = %q", lines[1])
	}
}

// =============================================================================
// 全局 Logger
// =============================================================================

func TestGlobal(t *testing.T) {
	t.Cleanup(xlog.ResetDefault)

	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetConsole(&buf).SetLevel(xlog.LevelVerbose).SetEnrich(false).Build()
	if err != nil {
		t.Fatal(err)
	}
	testCleanup(t, cleanup)

	xlog.SetDefault(logger)
	xlog.SetDefault(nil)
	if xlog.Default() != logger {
		t.Fatal("SetDefault(nil) should be ignored")
	}

	ctx := context.Background()
	xlog.Verbose(ctx, "v")
	xlog.Debug(ctx, "d")
	xlog.Info(ctx, "i")
	xlog.Warn(ctx, "w")
	xlog.Error(ctx, "e")
	xlog.Assert(ctx, "a")
	xlog.Stack(ctx, "s")

	out := buf.String()
	for _, want := range []string{"V/: v\n", "D/: d\n", "I/: i\n", "W/: w\n", "E/: e\n", "A/: a\n", "E/: s\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("global output missing %q:\n%s", want, out)
		}
	}

	xlog.ResetDefault()
	if xlog.Default() == logger {
		t.Error("ResetDefault should drop the installed logger")
	}
}

// =============================================================================
// 延迟求值与属性
// =============================================================================

func TestLazy_NotEvaluatedWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger, _, _ := xlog.New().SetConsole(&buf).Build()

	called := false
	logger.Debug(context.Background(), "skip", xlog.Lazy("k", func() any { called = true; return 1 }))
	if called {
		t.Error("lazy value evaluated for disabled level")
	}

	logger.Info(context.Background(), "run",
		xlog.Lazy("k", func() any { return 42 }),
		xlog.LazyString("s", func() string { return "ok" }),
		xlog.Lazy("nil", nil),
	)
	if got := buf.String(); got != "I/: run k=42 s=ok nil=<nil>\n" {
		t.Errorf("output = %q", got)
	}
}

func TestAttrs(t *testing.T) {
	if a := xlog.Err(nil); !a.Equal(slog.Attr{}) {
		t.Errorf("Err(nil) = %v, want empty", a)
	}
	if a := xlog.Err(errors.New("x")); a.Key != xlog.KeyError || a.Value.String() != "x" {
		t.Errorf("Err = %v", a)
	}
	if a := xlog.Component("sink"); a.Key != xlog.KeyComponent {
		t.Errorf("Component key = %q", a.Key)
	}
	if a := xlog.Count(3); a.Value.Int64() != 3 {
		t.Errorf("Count = %v", a)
	}
	if a := xlog.Tag("net"); a.Key != xlog.KeyTag {
		t.Errorf("Tag key = %q", a.Key)
	}
}
