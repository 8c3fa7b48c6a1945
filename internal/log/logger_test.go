package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spool/internal/trace"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Writer: &buf})
	t.Cleanup(func() { Init(Options{Writer: &bytes.Buffer{}}) })

	l := WithComponent("driver")
	l.Debug("hidden")
	l.Info("loaded file", slog.String("path", "intro.yarn"), slog.Group("size", slog.Int("bytes", 42)), slog.String("note", "two words"))

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record printed at info level: %q", out)
	}
	for _, want := range []string{" INF loaded file", "app=spool", "component=driver", "path=intro.yarn", "size.bytes=42", `note="two words"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestJSONFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spool.log")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: path, Writer: &console})
	t.Cleanup(func() {
		_ = Close()
		Init(Options{Writer: &bytes.Buffer{}})
	})

	WithComponent("cache").Debug("hit", slog.String("key", "abc"))
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var last map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = nil
			if err := json.Unmarshal([]byte(line), &last); err != nil {
				t.Fatalf("bad json line %q: %v", line, err)
			}
		}
	}
	if last == nil {
		t.Fatal("log file is empty")
	}
	if last["msg"] != "hit" || last["component"] != "cache" || last["key"] != "abc" || last["app"] != "spool" {
		t.Errorf("record = %v", last)
	}
	if _, ok := last["ver"].(string); !ok {
		t.Errorf("ver missing: %v", last)
	}
	if !strings.Contains(console.String(), `"msg":"hit"`) {
		t.Errorf("console json missing record: %q", console.String())
	}
}

func TestSpanAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Writer: &buf})
	t.Cleanup(func() { Init(Options{Writer: &bytes.Buffer{}}) })

	ctx := trace.WithSpanContext(context.Background(), trace.SpanContext{SpanID: 7})
	L().InfoContext(ctx, "inside")
	L().Info("outside")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[0], "span=7") {
		t.Errorf("span missing: %q", lines[0])
	}
	if strings.Contains(lines[1], "span=") {
		t.Errorf("unexpected span: %q", lines[1])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SPOOL_LOG_LEVEL", "debug")
	t.Setenv("SPOOL_LOG_FORMAT", "json")
	t.Setenv("SPOOL_LOG_SOURCE", "TRUE")
	t.Setenv("SPOOL_LOG_FILE", "/tmp/x.log")
	got := FromEnv()
	if got.Level != "debug" || got.Format != "json" || !got.AddSource || got.File != "/tmp/x.log" {
		t.Errorf("FromEnv() = %+v", got)
	}
}
