package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
	}{
		{"default", LogInfo, false},
		{"verbose", LogDebug, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("cache miss")
			l.Info("Routed 4 nets")

			if got := strings.Contains(buf.String(), "cache miss"); got != tt.debug {
				t.Errorf("debug line logged = %v, want %v", got, tt.debug)
			}
			if !strings.Contains(buf.String(), "Routed 4 nets") {
				t.Errorf("info line missing from %q", buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Routed 4 nets")

	line := buf.String()
	if !regexp.MustCompile(`^\d\d:\d\d:\d\d\.\d\d `).MatchString(line) {
		t.Errorf("line %q does not start with a %s timestamp", line, timeFormat)
	}
	for _, want := range []string{"INFO", "Routed 4 nets", "elapsed="} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q does not contain %q", line, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("bare context should fall back to log.Default()")
	}
	l := newLogger(io.Discard, LogInfo)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}

// route and render log their progress on the logger the root command puts
// in the context, not on log.Default().
func TestCommandsLogOnRootLogger(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "graph.json")

	run := func(level log.Level, args ...string) string {
		t.Helper()
		var logs bytes.Buffer
		root := New(&logs, level).RootCommand()
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return logs.String()
	}

	logs := run(LogInfo, "route", "--top", scenarioTop, "--bottom", scenarioBottom,
		"-o", graphPath, "--no-save", "--no-plot", "--no-cache")
	if !strings.Contains(logs, "Routed 4 nets in 3 tracks") || !strings.Contains(logs, "elapsed=") {
		t.Errorf("route logs = %q", logs)
	}

	logs = run(LogInfo, "render", graphPath, "-t", "nodelink", "-f", "dot", "--no-cache")
	if !strings.Contains(logs, "Rendered dot") {
		t.Errorf("render logs = %q", logs)
	}
	if _, err := os.Stat(filepath.Join(dir, "graph.dot")); err != nil {
		t.Errorf("render output: %v", err)
	}

	if logs := run(log.WarnLevel, "route", "--example", "simple", "--no-save", "--no-plot", "--no-cache"); logs != "" {
		t.Errorf("route at warn level logged %q", logs)
	}
}
