package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("diagram.mmd", []byte("graph TD\n"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("diagram.mmd", []byte("graph LR\n"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	// Индекс всегда указывает на последнюю версию
	latestID, exists := fs.GetLatest("diagram.mmd")
	if !exists {
		t.Fatal("Expected file to exist after Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "graph TD\n" {
		t.Errorf("Expected first version to survive, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("<stdin>", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.Path != "<stdin>" {
		t.Errorf("Expected virtual path to be kept verbatim, got %q", file.Path)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.mmd", []byte("ab\ncd\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // сам \n принадлежит первой строке
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: want %+v, got %+v", tt.off, tt.want, start)
		}
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()

	// α занимает 2 байта; колонки считаются в байтах
	id := fs.AddVirtual("t.mmd", []byte("α\n"))
	start, end := fs.Resolve(Span{File: id, Start: 0, End: 1})

	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("Expected start 1:1, got %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("Expected end 1:2, got %+v", end)
	}
}

func TestLineSpanAndGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.mmd", []byte("first\n\nthird"))
	file := fs.Get(id)

	if file.LineCount() != 3 {
		t.Fatalf("Expected 3 lines, got %d", file.LineCount())
	}

	want := []string{"first", "", "third"}
	for i, w := range want {
		if got := file.GetLine(uint32(i + 1)); got != w {
			t.Errorf("line %d: want %q, got %q", i+1, w, got)
		}
	}
	if got := file.GetLine(0); got != "" {
		t.Errorf("line 0 should be empty, got %q", got)
	}
	if got := file.GetLine(42); got != "" {
		t.Errorf("line past EOF should be empty, got %q", got)
	}

	sp := file.LineSpan(3)
	if sp.Start != 7 || sp.End != 12 {
		t.Errorf("Expected span 7-12 for third line, got %d-%d", sp.Start, sp.End)
	}
}

func TestEdgeCases(t *testing.T) {
	fs := NewFileSet()

	empty := fs.Get(fs.AddVirtual("empty.mmd", []byte{}))
	if len(empty.LineIdx) != 0 || empty.LineCount() != 0 {
		t.Errorf("Expected no lines for empty file, got idx=%v count=%d", empty.LineIdx, empty.LineCount())
	}

	single := fs.Get(fs.AddVirtual("only_newline.mmd", []byte("\n")))
	if len(single.LineIdx) != 1 || single.LineIdx[0] != 0 {
		t.Errorf("Expected LineIdx [0] for file with only newline, got %v", single.LineIdx)
	}
	if single.LineCount() != 1 {
		t.Errorf("Expected 1 line, got %d", single.LineCount())
	}
}

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.mmd")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		flag    FileFlags
	}{
		{"plain", []byte("a\nb\n"), "a\nb\n", 0},
		{"bom", []byte("\xEF\xBB\xBFa\nb\n"), "a\nb\n", FileHadBOM},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n", FileNormalizedCRLF},
		{"lone cr", []byte("a\rb\n"), "a\rb\n", 0},
		{"utf16le", []byte{0xFF, 0xFE, 'a', 0, '\r', 0, '\n', 0, 'b', 0, '\n', 0}, "a\nb\n", FileDecodedUTF16 | FileNormalizedCRLF},
		{"utf16be", []byte{0xFE, 0xFF, 0, 'x', 0, '\n'}, "x\n", FileDecodedUTF16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			id, err := fs.Load(writeTemp(t, tt.content))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			file := fs.Get(id)
			if string(file.Content) != tt.want {
				t.Errorf("want content %q, got %q", tt.want, string(file.Content))
			}
			if file.Flags != tt.flag {
				t.Errorf("want flags %b, got %b", tt.flag, file.Flags)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.mmd")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadReader(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.LoadReader("<stdin>", strings.NewReader("\xEF\xBB\xBFgraph\r\n"))
	if err != nil {
		t.Fatalf("LoadReader failed: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "graph\n" {
		t.Errorf("unexpected content %q", string(file.Content))
	}
	want := FileVirtual | FileHadBOM | FileNormalizedCRLF
	if file.Flags != want {
		t.Errorf("want flags %b, got %b", want, file.Flags)
	}
}

func TestFormatPathVirtual(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("<stdin>", nil))
	for _, mode := range []string{"absolute", "relative", "basename", "auto"} {
		if got := file.FormatPath(mode, ""); got != "<stdin>" {
			t.Errorf("mode %s: virtual path rewritten to %q", mode, got)
		}
	}
}
