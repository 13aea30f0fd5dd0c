package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mmdfmt/internal/diag"
	"mmdfmt/internal/parser"
	"mmdfmt/internal/project"
)

const (
	messy = "sequenceDiagram\nparticipant  A\nloop   every 5 s\nA->>B:   hi [ x ]\nend\n\n\n"
	clean = "sequenceDiagram\n    participant A\n\nloop every 5 s\n    A->>B: hi [x]\nend\n"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestFormatPathsStdout(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": messy})
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("want 1 result, got %d", len(report.Results))
	}
	res := report.Results[0]
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if diff := cmp.Diff(clean, string(res.Formatted)); diff != "" {
		t.Fatalf("formatted mismatch (-want +got):\n%s", diff)
	}
	if !res.Changed {
		t.Fatalf("expected Changed")
	}
	if got := readFile(t, filepath.Join(dir, "a.mmd")); got != messy {
		t.Fatalf("stdout mode must not touch the file")
	}
}

func TestFormatPathsWrite(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": messy, "b.mmd": clean})
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Mode: ModeWrite, Jobs: 2})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected errors")
	}
	want := []string{filepath.Join(dir, "a.mmd")}
	if diff := cmp.Diff(want, report.ChangedPaths()); diff != "" {
		t.Fatalf("changed paths (-want +got):\n%s", diff)
	}
	if got := readFile(t, filepath.Join(dir, "a.mmd")); got != clean {
		t.Fatalf("file not rewritten:\n%q", got)
	}
	info, err := os.Stat(filepath.Join(dir, "a.mmd"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode not preserved: %v", info.Mode().Perm())
	}
}

func TestFormatPathsCheck(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": messy})
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Mode: ModeCheck})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	res := report.Results[0]
	if !res.Changed || res.Formatted != nil {
		t.Fatalf("check mode: changed=%v formatted=%q", res.Changed, res.Formatted)
	}
	if !res.Bag.HasWarnings() || res.Bag.Items()[0].Code != diag.FmtNotFormatted {
		t.Fatalf("expected FmtNotFormatted warning, got %+v", res.Bag.Items())
	}
	if got := readFile(t, filepath.Join(dir, "a.mmd")); got != messy {
		t.Fatalf("check mode must not touch the file")
	}
}

func TestFormatPathsCRLFCountsAsChange(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": strings.ReplaceAll(clean, "\n", "\r\n")})
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Mode: ModeCheck})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	if !report.Results[0].Changed {
		t.Fatalf("CRLF input must be reported as changed")
	}
}

func TestFormatPathsFiltersAndExcludes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.mmd":            clean,
		"b.mermaid":        clean,
		"notes.txt":        "not a diagram",
		"vendor/c.mmd":     clean,
		"gen/skip.mmd":     clean,
		"explicit.diagram": clean,
	})
	m := project.Manifest{Root: dir, Config: project.Config{Files: project.FilesConfig{Exclude: []string{"vendor/**", "skip.mmd"}}}}
	report, err := FormatPaths(context.Background(), []string{dir, filepath.Join(dir, "explicit.diagram")}, FormatOptions{Manifest: m})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	var got []string
	for _, res := range report.Results {
		rel, _ := filepath.Rel(dir, res.Path)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"a.mmd", "b.mermaid", "explicit.diagram"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected files (-want +got):\n%s", diff)
	}
}

func TestFormatPathsNoFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{"readme.txt": "x"})
	if _, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{}); err == nil {
		t.Fatalf("expected error for empty file list")
	}
}

func TestFormatPathsParseErrorIsolated(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"bad.mmd":  "sequenceDiagram\nNote left A: x\n",
		"good.mmd": messy,
	})
	report, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Mode: ModeWrite})
	if err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	bad, good := report.Results[0], report.Results[1]
	if !errors.Is(bad.Err, parser.ErrSemanticDecode) {
		t.Fatalf("want semantic decode error, got %v", bad.Err)
	}
	if !bad.Bag.HasErrors() || bad.Bag.Items()[0].Code != diag.SemaBadNotePosition {
		t.Fatalf("error not mirrored into bag: %+v", bad.Bag.Items())
	}
	if good.Err != nil || readFile(t, good.Path) != clean {
		t.Fatalf("good file must still be formatted")
	}
	if readFile(t, bad.Path) != "sequenceDiagram\nNote left A: x\n" {
		t.Fatalf("failed file must be left untouched")
	}
}

func TestFormatPathsCache(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": messy})
	cache, err := OpenCacheDir(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheDir: %v", err)
	}
	opts := FormatOptions{Cache: cache, Verify: true}
	first, err := FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Results[0].Cached {
		t.Fatalf("first run must miss the cache")
	}
	second, err := FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	res := second.Results[0]
	if !res.Cached || string(res.Formatted) != clean {
		t.Fatalf("second run: cached=%v formatted=%q", res.Cached, res.Formatted)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	third, err := FormatPaths(context.Background(), []string{dir}, opts)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.Results[0].Cached {
		t.Fatalf("DropAll must invalidate entries")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	var h [32]byte
	a := CacheKey(h, formatOptions(4, false), false)
	if a == CacheKey(h, formatOptions(2, false), false) {
		t.Fatalf("indent must change the key")
	}
	if a == CacheKey(h, formatOptions(4, true), false) {
		t.Fatalf("tabs must change the key")
	}
	if a != CacheKey(h, formatOptions(4, false), false) {
		t.Fatalf("key must be deterministic")
	}
}

func TestFormatReader(t *testing.T) {
	report, err := FormatReader(context.Background(), "", strings.NewReader(messy), FormatOptions{Mode: ModeWrite})
	if err != nil {
		t.Fatalf("FormatReader: %v", err)
	}
	res := report.Results[0]
	if res.Path != StdinName {
		t.Fatalf("path = %q", res.Path)
	}
	if string(res.Formatted) != clean {
		t.Fatalf("formatted = %q", res.Formatted)
	}
}

func TestProgressEvents(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.mmd": messy, "b.mmd": clean})
	var (
		mu     sync.Mutex
		events []Event
	)
	sink := SinkFunc(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})
	if _, err := FormatPaths(context.Background(), []string{dir}, FormatOptions{Progress: sink}); err != nil {
		t.Fatalf("FormatPaths: %v", err)
	}
	done := map[string]bool{}
	for _, e := range events {
		if e.Status == StatusDone {
			done[filepath.Base(e.File)] = true
		}
	}
	if !done["a.mmd"] || !done["b.mmd"] {
		t.Fatalf("missing done events: %+v", events)
	}
}

func TestFormatPathsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FormatPaths(ctx, []string{"."}, FormatOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestParse(t *testing.T) {
	res, err := Parse(context.Background(), "", strings.NewReader("graph TD\nA-->B\n"), 0)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Diagram.Statements) != 2 {
		t.Fatalf("want 2 statements, got %d", len(res.Diagram.Statements))
	}
	if _, err := Parse(context.Background(), filepath.Join(t.TempDir(), "missing.mmd"), nil, 0); err == nil {
		t.Fatalf("expected read error")
	}
}
