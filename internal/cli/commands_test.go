package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/graph"
)

var (
	scenarioTop    = "1 0 2 0 3 4"
	scenarioBottom = "1 0 0 2 4 3"
)

// isolate points the config and cache directories at fresh temp dirs and
// returns the config home.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return home
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func recordIDs(t *testing.T, home string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(home, "chanroute", "routes", "*.json"))
	if err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = strings.TrimSuffix(filepath.Base(f), ".json")
	}
	return ids
}

func TestRouteRecordsRun(t *testing.T) {
	home := isolate(t)

	out, err := runCLI(t, "", "route", "--top", scenarioTop, "--bottom", scenarioBottom, "--plain")
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	for _, want := range []string{"1   2   3 4", "4 nets", "width 3", "chanroute render --id"} {
		if !strings.Contains(out, want) {
			t.Errorf("route output missing %q:\n%s", want, out)
		}
	}

	ids := recordIDs(t, home)
	if len(ids) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(ids))
	}
	id := ids[0]

	out, err = runCLI(t, "", "history", "list")
	if err != nil {
		t.Fatalf("history list error: %v", err)
	}
	if !strings.Contains(out, id) {
		t.Errorf("history list missing %s:\n%s", id, out)
	}

	out, err = runCLI(t, "", "history", "show", id, "--plain")
	if err != nil {
		t.Fatalf("history show error: %v", err)
	}
	if !strings.Contains(out, "1   2   3 4") {
		t.Errorf("history show missing plot:\n%s", out)
	}

	out, err = runCLI(t, "", "render", "--id", id, "-f", "txt", "--style", "plain", "-o", "-")
	if err != nil {
		t.Fatalf("render --id error: %v", err)
	}
	if !strings.HasPrefix(out, "1   2   3 4") {
		t.Errorf("render output = %q, want the plot", out)
	}

	if _, err := runCLI(t, "", "history", "delete", id); err != nil {
		t.Fatalf("history delete error: %v", err)
	}
	if _, err := runCLI(t, "", "history", "show", id); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("history show after delete error = %v, want NOT_FOUND", err)
	}
}

func TestRouteNoSave(t *testing.T) {
	home := isolate(t)
	if _, err := runCLI(t, "", "route", "--example", "simple", "--no-save", "--no-plot"); err != nil {
		t.Fatalf("route error: %v", err)
	}
	if ids := recordIDs(t, home); len(ids) != 0 {
		t.Errorf("recorded %d runs with --no-save, want 0", len(ids))
	}
}

func TestRouteFromStdin(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, scenarioTop+"\n"+scenarioBottom+"\n", "route", "-", "--plain", "--no-save")
	if err != nil {
		t.Fatalf("route error: %v", err)
	}
	if !strings.Contains(out, "4 nets") {
		t.Errorf("route output missing stats:\n%s", out)
	}
}

func TestRouteWritesGraphAndRenders(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	pinsPath := filepath.Join(dir, "pins.txt")
	if err := os.WriteFile(pinsPath, []byte(scenarioTop+"\n"+scenarioBottom+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	graphPath := filepath.Join(dir, "graph.json")

	if _, err := runCLI(t, "", "route", pinsPath, "-o", graphPath, "--no-save", "--no-plot"); err != nil {
		t.Fatalf("route error: %v", err)
	}
	g, err := graph.ReadGraphFile(graphPath)
	if err != nil {
		t.Fatalf("ReadGraphFile() error: %v", err)
	}
	if g.Width != 3 || len(g.Nets) != 4 {
		t.Errorf("graph width=%d nets=%d, want 3 and 4", g.Width, len(g.Nets))
	}

	if _, err := runCLI(t, "", "render", graphPath, "-t", "nodelink", "-f", "dot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "graph.dot"))
	if err != nil {
		t.Fatalf("dot output: %v", err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output starts with %q", string(dot[:min(len(dot), 20)]))
	}
}

func TestRouteInputErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"no input", []string{"route"}, errs.ErrCodeInvalidInput},
		{"two inputs", []string{"route", "pins.txt", "--example", "simple"}, errs.ErrCodeInvalidInput},
		{"top only", []string{"route", "--top", "1 0 1"}, errs.ErrCodeInvalidInput},
		{"unknown example", []string{"route", "--example", "nope"}, errs.ErrCodeInvalidInput},
		{"missing file", []string{"route", filepath.Join(t.TempDir(), "nope.txt")}, errs.ErrCodeFileNotFound},
		{"bad config", []string{"route", "--example", "simple", "--min-jog=-1"}, errs.ErrCodeInvalidConfig},
		{"bad nets", []string{"route", "--example", "simple", "--nets", "x"}, errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, "", tt.args...)
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRouteConfigAndFlags(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "chanroute")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[router]\nlength_factor = 1.0\nmax_tries = 3\n\n[store]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	args := []string{"route", "--top", scenarioTop, "--bottom", scenarioBottom, "--no-plot"}
	_, err := runCLI(t, "", args...)
	if !errs.Is(err, errs.ErrCodeRetriesExhausted) {
		t.Fatalf("route with config error = %v, want RETRIES_EXHAUSTED", err)
	}

	if _, err := runCLI(t, "", append(args, "--length-factor", "10")...); err != nil {
		t.Errorf("route with --length-factor override error: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "", "render"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("render without input error = %v, want INVALID_INPUT", err)
	}
	if _, err := runCLI(t, "", "render", "--id", "not-a-uuid"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("render --id bad error = %v, want INVALID_INPUT", err)
	}
	if _, err := runCLI(t, "", "render", "g.json", "-t", "text", "-f", "svg"); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("render text as svg error = %v, want INVALID_CONFIG", err)
	}
}

func TestGenerate(t *testing.T) {
	isolate(t)

	a, err := runCLI(t, "", "generate", "--nets", "3", "--pins", "4", "--seed", "7")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	b, _ := runCLI(t, "", "generate", "--nets", "3", "--pins", "4", "--seed", "7")
	if a != b {
		t.Errorf("same seed gave different rows:\n%s\n%s", a, b)
	}
	if lines := strings.Split(strings.TrimSpace(a), "\n"); len(lines) != 2 {
		t.Errorf("generate printed %d lines, want 2", len(lines))
	}

	out, err := runCLI(t, "", "generate", "--example", "dense", "--format", "json")
	if err != nil {
		t.Fatalf("generate --example error: %v", err)
	}
	var pins channel.Pins
	if err := json.Unmarshal([]byte(out), &pins); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if ex, _ := channel.LookupExample("dense"); pins.Len() != ex.Pins.Len() {
		t.Errorf("pins length = %d, want %d", pins.Len(), ex.Pins.Len())
	}

	out, err = runCLI(t, "", "generate", "--list")
	if err != nil || !strings.Contains(out, "dense") {
		t.Errorf("generate --list = %q, %v", out, err)
	}

	if _, err := runCLI(t, "", "generate", "--example", "nope"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("unknown example error = %v, want NOT_FOUND", err)
	}
}

func TestCacheCommands(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "cache", "clear")
	if err != nil || !strings.Contains(out, "Cache is empty") {
		t.Errorf("cache clear on empty cache = %q, %v", out, err)
	}

	if _, err := runCLI(t, "", "route", "--example", "simple", "--no-save", "--no-plot"); err != nil {
		t.Fatalf("route error: %v", err)
	}

	out, err = runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, err = runCLI(t, "", "cache", "prune")
	if err != nil || !strings.Contains(out, "Pruned 0") {
		t.Errorf("cache prune = %q, %v", out, err)
	}

	out, err = runCLI(t, "", "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("cache clear = %q, %v", out, err)
	}
}

func TestHistoryDisabled(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "chanroute")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[store]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "", "history", "list"); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("history list error = %v, want UNSUPPORTED", err)
	}
}

func TestVersionJSON(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if info["version"] == "" {
		t.Errorf("version info = %v, want a version", info)
	}
}
