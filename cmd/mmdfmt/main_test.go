package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type runResult struct {
	stdout, stderr string
	err            error
}

func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return runResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeDiagram(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const (
	messyInput = "graph TD\nA-->B\nsubgraph one\nC -->  D[ x ]\nend\n"
	cleanInput = "graph TD\n    A-->B\n\nsubgraph one\n    C --> D[x]\nend\n"
)

func TestFormatStdin(t *testing.T) {
	res := runCLI(t, messyInput)
	if res.err != nil {
		t.Fatalf("run: %v (stderr: %s)", res.err, res.stderr)
	}
	if diff := cmp.Diff(cleanInput, res.stdout); diff != "" {
		t.Fatalf("stdout (-want +got):\n%s", diff)
	}
}

func TestFormatStdinTabs(t *testing.T) {
	res := runCLI(t, "sequenceDiagram\nA->>B: hi\n", "--tabs")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "sequenceDiagram\n\tA->>B: hi\n" {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestFormatFileArgument(t *testing.T) {
	dir := t.TempDir()
	p := writeDiagram(t, dir, "a.mmd", messyInput)

	res := runCLI(t, "", "--ui", "off", p)
	if res.err != nil {
		t.Fatalf("run %s: %v (stderr: %s)", p, res.err, res.stderr)
	}
	if diff := cmp.Diff(cleanInput, res.stdout); diff != "" {
		t.Fatalf("stdout (-want +got):\n%s", diff)
	}
	if got, err := os.ReadFile(p); err != nil || string(got) != messyInput {
		t.Fatalf("stdout mode must not touch the file: %q, %v", got, err)
	}
}

func TestFormatCheckAndWrite(t *testing.T) {
	dir := t.TempDir()
	messy := writeDiagram(t, dir, "messy.mmd", messyInput)
	writeDiagram(t, dir, "clean.mmd", cleanInput)

	res := runCLI(t, "", "--check", "--ui", "off", dir)
	if res.err == nil || !strings.Contains(res.err.Error(), "1 file(s) need formatting") {
		t.Fatalf("check: want failure, got %v", res.err)
	}
	if strings.TrimSpace(res.stdout) != messy {
		t.Fatalf("check listed %q", res.stdout)
	}

	res = runCLI(t, "", "-w", "--ui", "off", dir)
	if res.err != nil {
		t.Fatalf("write: %v", res.err)
	}
	if !strings.Contains(res.stdout, "reformatted "+messy) {
		t.Fatalf("write output %q", res.stdout)
	}
	data, err := os.ReadFile(messy)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != cleanInput {
		t.Fatalf("file content %q", data)
	}

	if res = runCLI(t, "", "--check", "--ui", "off", dir); res.err != nil {
		t.Fatalf("second check: %v", res.err)
	}
}

func TestFormatParseErrorReported(t *testing.T) {
	dir := t.TempDir()
	bad := writeDiagram(t, dir, "bad.mmd", "sequenceDiagram\nNote right A: x\n")

	res := runCLI(t, "", "--color", "off", bad)
	if res.err == nil {
		t.Fatalf("expected failure")
	}
	for _, want := range []string{"SEM3001", `invalid note position "right"`, "^~~~~", `fix: use "right of"`} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, res.stderr)
		}
	}
}

func TestFormatJSONReport(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, "a.mmd", messyInput)

	res := runCLI(t, "", "--format", "json", "--check", dir)
	if res.err == nil {
		t.Fatalf("check must fail for unformatted input")
	}
	var payload formatJSONPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("unmarshal %q: %v", res.stdout, err)
	}
	if payload.Mode != "check" || len(payload.Results) != 1 || !payload.Results[0].Changed {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.Results[0].Diagnostics) != 1 || payload.Results[0].Diagnostics[0].Code != "FMT6001" {
		t.Fatalf("expected FMT6001 warning, got %+v", payload.Results[0].Diagnostics)
	}
}

func TestConfigDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeDiagram(t, dir, ".mmdfmt.toml", "[format]\nindent = 2\n")
	t.Chdir(dir)

	res := runCLI(t, "sequenceDiagram\nA->>B: hi\n")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if res.stdout != "sequenceDiagram\n  A->>B: hi\n" {
		t.Fatalf("config indent not applied: %q", res.stdout)
	}

	res = runCLI(t, "sequenceDiagram\nA->>B: hi\n", "--indent", "3")
	if res.stdout != "sequenceDiagram\n   A->>B: hi\n" {
		t.Fatalf("--indent must override config: %q", res.stdout)
	}
}

func TestFlagValidation(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--write", "--check", "."}, "--write cannot be used with --check"},
		{[]string{"--write"}, "--write needs at least one path"},
		{[]string{"--ui", "sometimes", "."}, "invalid --ui value"},
		{[]string{"--format", "xml"}, "unsupported output format"},
		{[]string{"--indent", "0"}, "--indent must be positive"},
		{[]string{"--color", "rainbow"}, "invalid --color value"},
		{[]string{"--trace-level", "loud"}, "invalid trace level"},
		{[]string{"--path-mode", "weird"}, "invalid --path-mode value"},
	}
	for _, tt := range tests {
		res := runCLI(t, "graph\n", tt.args...)
		if res.err == nil || !strings.Contains(res.err.Error(), tt.want) {
			t.Errorf("%v: got %v, want error containing %q", tt.args, res.err, tt.want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	res := runCLI(t, "stateDiagram-v2\nstate S {\n[*] --> A\n}\n", "parse", "--format", "json")
	if res.err != nil {
		t.Fatalf("parse: %v", res.err)
	}
	var out struct {
		Dialect    string `json:"dialect"`
		Statements []struct {
			Kind string `json:"kind"`
		} `json:"statements"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var kinds []string
	for _, st := range out.Statements {
		kinds = append(kinds, st.Kind)
	}
	want := []string{"DiagramDecl", "BraceBlockStart", "GenericLine", "BraceBlockEnd"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	if out.Dialect != "state" {
		t.Fatalf("dialect = %q", out.Dialect)
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json", "--full")
	if res.err != nil {
		t.Fatalf("version: %v", res.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Tool != "mmdfmt" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	res = runCLI(t, "", "version", "--format", "yaml")
	if res.err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestTimingsAndTrace(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "run.ndjson")
	res := runCLI(t, messyInput, "--timings", "--trace", tracePath, "--trace-level", "debug")
	if res.err != nil {
		t.Fatalf("run: %v", res.err)
	}
	if !strings.Contains(res.stderr, "timings:") {
		t.Fatalf("stderr lacks timings: %q", res.stderr)
	}
	data, err := os.ReadFile(tracePath)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if !bytes.Contains(data, []byte(`"name":"mmdfmt"`)) {
		t.Fatalf("trace lacks root span:\n%s", data)
	}
}
