package xfilelog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xapplog/pkg/observability/xmetrics"
)

var testHeader = StaticHeader(
	HeaderField{Key: "Version", Value: "1.2.3"},
	HeaderField{Key: "Device", Value: "test-host"},
)

func fixedClock() time.Time { return fixedTime }

func expectedHeader() string {
	return renderHeader(fixedTime, testHeader, false)
}

func writeFileAt(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exportPaths(t *testing.T) (dir, pathA, pathB string) {
	t.Helper()
	dir = t.TempDir()
	return dir, filepath.Join(dir, DefaultFileA), filepath.Join(dir, DefaultFileB)
}

// =============================================================================
// ExportFiles
// =============================================================================

func TestExportFiles_OlderFileFirst(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name         string
		mtimeA       time.Time
		mtimeB       time.Time
		wantSequence string
	}{
		{"A older", now.Add(-time.Minute), now, "AAA\nBBB\n"},
		{"B older", now, now.Add(-time.Minute), "BBB\nAAA\n"},
		{"tie keeps A first", now, now, "AAA\nBBB\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, pathA, pathB := exportPaths(t)
			writeFileAt(t, pathA, "AAA\n", tt.mtimeA)
			writeFileAt(t, pathB, "BBB\n", tt.mtimeB)
			dest := filepath.Join(dir, "out", "export.txt")

			require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, testHeader, WithExportClock(fixedClock)))
			assert.Equal(t, expectedHeader()+tt.wantSequence, readFile(t, dest))
		})
	}
}

func TestExportFiles_OnlyOneFile(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	writeFileAt(t, pathB, "only-b\n", time.Now())
	dest := filepath.Join(dir, "export.txt")

	require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, testHeader, WithExportClock(fixedClock)))
	assert.Equal(t, expectedHeader()+"only-b\n", readFile(t, dest))
}

func TestExportFiles_NoFilesWritesHeaderOnly(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	dest := filepath.Join(dir, "export.txt")

	require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, testHeader, WithExportClock(fixedClock)))
	assert.Equal(t, expectedHeader(), readFile(t, dest))
}

func TestExportFiles_OverwritesDestination(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	writeFileAt(t, pathA, "fresh\n", time.Now())
	dest := filepath.Join(dir, "export.txt")
	require.NoError(t, os.WriteFile(dest, []byte(strings.Repeat("stale\n", 100)), 0600))

	require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, testHeader, WithExportClock(fixedClock)))
	assert.Equal(t, expectedHeader()+"fresh\n", readFile(t, dest))
}

func TestExportFiles_HeaderFormat(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	dest := filepath.Join(dir, "export.txt")

	require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, testHeader, WithExportClock(fixedClock)))
	lines := strings.Split(strings.TrimSuffix(readFile(t, dest), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Repeat("=", 67), lines[0])
	assert.Equal(t, "Logs collected on: 2026-10-19 14:03:07'042", lines[1])
	assert.Equal(t, "Version: 1.2.3", lines[2])
	assert.Equal(t, "Device: test-host", lines[3])
	assert.Equal(t, lines[0], lines[4])
}

func TestExportFiles_HTML(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	writeFileAt(t, pathA, "a < b && c > d\n", time.Now())
	dest := filepath.Join(dir, "export.html")
	header := StaticHeader(HeaderField{Key: "Device", Value: "<lab>"})

	require.NoError(t, ExportFiles(context.Background(), pathA, pathB, dest, header,
		WithExportClock(fixedClock), WithHTML()))

	got := readFile(t, dest)
	assert.True(t, strings.HasPrefix(got, "<html><body><pre>\n"+strings.Repeat("=", 67)+"\n"))
	assert.Contains(t, got, "Device: &lt;lab&gt;\n")
	assert.Contains(t, got, "a &lt; b &amp;&amp; c &gt; d\n")
	assert.True(t, strings.HasSuffix(got, "</pre></body></html>\n"))
}

func TestExportFiles_Errors(t *testing.T) {
	dir, pathA, pathB := exportPaths(t)
	writeFileAt(t, pathA, "a\n", time.Now())
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		dest    string
		wantErr error
	}{
		{"empty destination", context.Background(), "", ErrEmptyDestination},
		{"destination is source", context.Background(), pathA, ErrDestinationIsSource},
		{"parent is a file", context.Background(), filepath.Join(blocker, "out.txt"), nil},
		{"directory path", context.Background(), dir + "/", nil},
		{"canceled context", canceled, filepath.Join(dir, "out.txt"), context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExportFiles(tt.ctx, pathA, pathB, tt.dest, testHeader)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrExportFailed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
	assert.Equal(t, "a\n", readFile(t, pathA))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "log_2610191403.txt", ExportFileName(fixedTime, false))
	assert.Equal(t, "log_2610191403.html", ExportFileName(fixedTime, true))
}

// =============================================================================
// Sink 导出
// =============================================================================

func TestSink_ExportIncludesAllSubmitted(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader))
	for range 50 {
		s.Submit(rec("export"))
	}

	dest := filepath.Join(s.dir, "exports", "all.txt")
	require.NoError(t, s.Export(context.Background(), dest))

	got := readFile(t, dest)
	require.True(t, strings.HasPrefix(got, expectedHeader()))
	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()
	sc := NewScanner(f)
	n := 0
	for sc.Scan() {
		n++
	}
	assert.Equal(t, 50, n)
	assert.Equal(t, 5, sc.Skipped())
}

func TestSink_ExportAcrossRotation(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader), WithMaxSize(1000))
	for i := range 20 {
		s.Submit(rec(string(rune('a'+i)) + "-----"))
	}
	dest := filepath.Join(s.dir, "rotated.txt")
	require.NoError(t, s.Export(context.Background(), dest))
	require.Equal(t, uint64(1), s.Stats().Rotations)

	entries := readEntries(t, dest)
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, string(rune('a'+i))+"-----", e.Record.Message)
	}
}

func TestSink_ExportIdempotent(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader))
	s.Submit(rec("once"))

	first := filepath.Join(s.dir, "first.txt")
	second := filepath.Join(s.dir, "second.txt")
	require.NoError(t, s.Export(context.Background(), first))
	require.NoError(t, s.Export(context.Background(), second))
	assert.Equal(t, readFile(t, first), readFile(t, second))
}

func TestSink_ExportWithoutRecords(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader))
	dest := filepath.Join(s.dir, "empty.txt")
	require.NoError(t, s.Export(context.Background(), dest))
	assert.Equal(t, expectedHeader(), readFile(t, dest))
}

func TestSink_ExportWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	writeFileAt(t, pathA, "left over\n", time.Now())

	// 合计上限非法：写入器打不开，但磁盘上的旧文件仍可导出
	s := New(pathA, filepath.Join(dir, "b.txt"),
		WithInternalLogger(testLogger(&syncBuffer{})),
		WithClock(fixedClock),
		WithHeaderProvider(testHeader),
		WithMaxSize(1),
	)
	require.True(t, s.Disabled())

	dest := filepath.Join(dir, "out.txt")
	require.NoError(t, s.Export(context.Background(), dest))
	assert.Equal(t, expectedHeader()+"left over\n", readFile(t, dest))
}

func TestSink_ExportWhenBothPathsUnopenable(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a-dir")
	pathB := filepath.Join(dir, "b-dir")
	require.NoError(t, os.Mkdir(pathA, 0750))
	require.NoError(t, os.Mkdir(pathB, 0750))

	s := New(pathA, pathB,
		WithInternalLogger(testLogger(&syncBuffer{})),
		WithClock(fixedClock),
		WithHeaderProvider(testHeader),
	)
	require.True(t, s.Disabled())

	dest := filepath.Join(dir, "out.txt")
	require.NoError(t, s.Export(context.Background(), dest))
	assert.Equal(t, expectedHeader(), readFile(t, dest))
}

func TestSink_ExportFailureLogged(t *testing.T) {
	s := newTestSink(t)
	pathA, _ := s.Paths()

	err := s.Export(context.Background(), pathA)
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, ErrDestinationIsSource)
	assert.Contains(t, s.logs.String(), "could not prepare log export")
}

func TestSink_ExportToDir(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader))
	s.Submit(rec("dir"))
	outDir := filepath.Join(s.dir, "share")

	path, err := s.ExportToDir(context.Background(), outDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "log_2610191403.txt"), path)
	assert.FileExists(t, path)

	path, err = s.ExportToDir(context.Background(), outDir, WithHTML())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "log_2610191403.html"), path)
	assert.Contains(t, readFile(t, path), "</pre></body></html>")

	_, err = s.ExportToDir(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyDestination)
}

func TestSink_ExportOnPanic(t *testing.T) {
	s := newTestSink(t, WithClock(fixedClock), WithHeaderProvider(testHeader))
	s.Submit(rec("before crash"))
	outDir := filepath.Join(s.dir, "crash")

	assert.PanicsWithValue(t, "boom", func() {
		defer s.ExportOnPanic(outDir)
		panic("boom")
	})

	entries := readEntries(t, filepath.Join(outDir, "log_2610191403.txt"))
	require.Len(t, entries, 2)
	assert.Equal(t, "before crash", entries[0].Record.Message)
	crash := entries[1].Record
	assert.Equal(t, SeverityError, crash.Severity)
	assert.Equal(t, "panic", crash.Tag)
	assert.Equal(t, "panic: boom", crash.Message)
	require.NotNil(t, crash.Err)
	assert.Contains(t, crash.Err.Text(), "goroutine")
}

func TestSink_ExportOnPanicWithoutPanic(t *testing.T) {
	s := newTestSink(t)
	outDir := filepath.Join(s.dir, "crash")
	assert.NotPanics(t, func() {
		defer s.ExportOnPanic(outDir)
	})
	assert.NoDirExists(t, outDir)
}

func TestSink_ExportSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	obs, err := xmetrics.NewOTelObserver(xmetrics.WithTracerProvider(tp))
	require.NoError(t, err)

	s := newTestSink(t, WithObserver(obs))
	s.Submit(rec("traced"))
	ok := filepath.Join(s.dir, "ok.txt")
	require.NoError(t, s.Export(context.Background(), ok))
	pathA, _ := s.Paths()
	require.Error(t, s.Export(context.Background(), pathA))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "export", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.Int(xmetrics.KeySources, 1))
	assert.Contains(t, spans[0].Attributes, attribute.String(xmetrics.KeyFormat, "text"))
	assert.Contains(t, spans[0].Attributes, attribute.Int64("bytes", int64(len(readFile(t, ok)))))
	assert.Equal(t, codes.Error, spans[1].Status.Code)
}

// =============================================================================
// 头部
// =============================================================================

func TestDefaultHeader(t *testing.T) {
	stateDir := t.TempDir()
	fields := DefaultHeader("2.0.1", stateDir).Header(fixedTime)

	keys := make(map[string]string, len(fields))
	for _, f := range fields {
		keys[f.Key] = f.Value
	}
	assert.Equal(t, "2.0.1", keys["Version"])
	assert.NotEmpty(t, keys["OS"])
	assert.Len(t, keys["Install ID"], 36)

	again := DefaultHeader("2.0.1", stateDir).Header(fixedTime)
	assert.Equal(t, fields, again)

	for _, f := range DefaultHeader("", "").Header(fixedTime) {
		assert.NotEqual(t, "Version", f.Key)
		assert.NotEqual(t, "Install ID", f.Key)
	}
}

func TestRenderHeader_FlattensNewlines(t *testing.T) {
	h := HeaderFunc(func(now time.Time) []HeaderField {
		return []HeaderField{{Key: "Note", Value: "two\nlines"}}
	})
	got := renderHeader(fixedTime, h, false)
	assert.Contains(t, got, "Note: two lines\n")

	got = renderHeader(fixedTime, nil, false)
	assert.Equal(t, 3, strings.Count(got, "\n"))
}
