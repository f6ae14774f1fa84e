package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(root)
	return root
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd, profiler := newRootCmd()
	defer profiler.stop()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color", "off", "--quiet"}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestAnnotateCommand(t *testing.T) {
	writeTree(t, map[string]string{
		"src/a.ts":      "let x = 1;\n",
		"src/decl.d.ts": "declare var counter: number;\n",
	})
	if _, stderr, err := execute(t, "annotate", "src"); err != nil {
		t.Fatalf("annotate: %v\n%s", err, stderr)
	}
	if got := readFile(t, "src/a.closure.ts"); got != "let /** @type {number} */ x = 1;\n" {
		t.Errorf("annotated output %q", got)
	}
	if _, err := os.Stat("src/decl.closure.d.ts"); !os.IsNotExist(err) {
		t.Errorf("declaration file produced output: %v", err)
	}
	if got := readFile(t, "externs.js"); !strings.Contains(got, "var counter;") {
		t.Errorf("externs:\n%s", got)
	}
}

func TestAnnotateConfigAndStdout(t *testing.T) {
	writeTree(t, map[string]string{
		"tsickle.toml": "[annotate]\nuntyped = true\n",
		"a.ts":         "let x = 1;\n",
	})
	stdout, stderr, err := execute(t, "annotate", "--stdout", "a.ts")
	if err != nil {
		t.Fatalf("annotate: %v\n%s", err, stderr)
	}
	if stdout != "let /** @type {?} */ x = 1;\n" {
		t.Errorf("stdout %q", stdout)
	}
	if _, err := os.Stat("a.closure.ts"); !os.IsNotExist(err) {
		t.Errorf("--stdout wrote a file: %v", err)
	}
}

func TestAnnotateFailsOnErrors(t *testing.T) {
	writeTree(t, map[string]string{"bad.ts": "let = ;\n"})

	_, stderr, err := execute(t, "annotate", "bad.ts")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "bad.ts:1:") || !strings.Contains(stderr, "ERROR SYN") {
		t.Errorf("stderr:\n%s", stderr)
	}

	if _, _, err = execute(t, "annotate", "--fail-on-error=false", "bad.ts"); err != nil {
		t.Errorf("with --fail-on-error=false: %v", err)
	}
}

func TestAnnotateJSONDiagnostics(t *testing.T) {
	writeTree(t, map[string]string{"bad.ts": "let = ;\n"})
	_, stderr, err := execute(t, "--format", "json", "annotate", "--fail-on-error=false", "bad.ts")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stderr), &out); err != nil {
		t.Fatalf("stderr is not JSON: %v\n%s", err, stderr)
	}
	if out.Count == 0 {
		t.Errorf("no diagnostics in %s", stderr)
	}
}

func TestAnnotateShortDiagnostics(t *testing.T) {
	writeTree(t, map[string]string{"bad.ts": "let = ;\n"})
	_, stderr, err := execute(t, "--format", "short", "annotate", "--fail-on-error=false", "bad.ts")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !strings.HasPrefix(stderr, "error SYN") || !strings.Contains(stderr, " bad.ts:1:") {
		t.Errorf("short output %q", stderr)
	}
}

func TestModuleCommand(t *testing.T) {
	writeTree(t, map[string]string{
		"lib/a.js": "var b = require('./b');\nb.run();\n",
		"lib/b.js": "exports.run = function() {};\n",
	})
	stdout, stderr, err := execute(t, "module", "--out-dir", "out", "--list", "lib")
	if err != nil {
		t.Fatalf("module: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "lib.a: lib.b\n") {
		t.Errorf("--list output %q", stdout)
	}
	got := readFile(t, "out/lib/a.js")
	for _, want := range []string{"goog.module('lib.a');", "var b = goog.require('lib.b');"} {
		if !strings.Contains(got, want) {
			t.Errorf("output lacks %q:\n%s", want, got)
		}
	}
	if readFile(t, "lib/a.js") != "var b = require('./b');\nb.run();\n" {
		t.Errorf("source rewritten despite --out-dir")
	}
}

func TestGlobalFlagErrors(t *testing.T) {
	writeTree(t, map[string]string{"a.ts": "let x = 1;\n"})
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"--format", "xml", "annotate", "a.ts"}, "unknown format"},
		{"color", []string{"--color", "maybe", "annotate", "a.ts"}, "unknown color value"},
		{"no sources", []string{"annotate", "."}, ""},
		{"missing input", []string{"module", "nope"}, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.name == "no sources" {
				if err := os.Remove("a.ts"); err != nil && !os.IsNotExist(err) {
					t.Fatal(err)
				}
			}
			_, _, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if payload.Tool != "tsickle" || payload.Version == "" {
		t.Errorf("payload %+v", payload)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"closure next to source", closurePath("src/a.ts", ""), "src/a.closure.ts"},
		{"closure tsx", closurePath("b.tsx", ""), "b.closure.tsx"},
		{"closure under out dir", closurePath("src/a.ts", "gen"), filepath.Join("gen", "src", "a.closure.ts")},
		{"module in place", moduleDest("lib/a.js", ".", ""), "lib/a.js"},
		{"module under out dir", moduleDest("lib/a.js", "lib", "out"), filepath.Join("out", "a.js")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestWatchLoopDebounces(t *testing.T) {
	root := writeTree(t, map[string]string{"a.ts": "let x = 1;\n"})
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := watchTree(w, root); err != nil {
		t.Fatal(err)
	}

	var rebuilds atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, w, 300*time.Millisecond, zap.NewNop(), func() { rebuilds.Add(1) }) }()

	for i := range 3 {
		content := []byte("let x = " + string(rune('1'+i)) + ";\n")
		if err := os.WriteFile(filepath.Join(root, "a.ts"), content, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "a.closure.ts"), []byte("ignored\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for rebuilds.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watchLoop: %v", err)
	}
	if got := rebuilds.Load(); got != 1 {
		t.Fatalf("rebuilds = %d, want 1", got)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	cmd, profiler := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--cpu-profile", cpu, "--mem-profile", mem, "version"})
	err := cmd.Execute()
	profiler.stop()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, p := range []string{cpu, mem} {
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", filepath.Base(p), err)
		}
	}
}
