package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/diag"
	"mmdfmt/internal/source"
)

func mustParse(t *testing.T, text string) *ast.Diagram {
	t.Helper()
	d, _, err := ParseString("test.mmd", text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return d
}

// stripSpans drops positions so statements can be compared by content.
func stripSpans(stmts []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, len(stmts))
	for i, st := range stmts {
		switch s := st.(type) {
		case ast.DiagramDecl:
			s.Node = ast.Node{}
			out[i] = s
		case ast.Directive:
			s.Node = ast.Node{}
			out[i] = s
		case ast.Participant:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BlockStart:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BraceBlockStart:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BlockOption:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BlockElse:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BlockEnd:
			out[i] = ast.BlockEnd{}
		case ast.BraceBlockEnd:
			out[i] = ast.BraceBlockEnd{}
		case ast.Note:
			s.Node = ast.Node{}
			out[i] = s
		case ast.Comment:
			s.Node = ast.Node{}
			out[i] = s
		case ast.GenericLine:
			s.Node = ast.Node{}
			out[i] = s
		case ast.BlankLine:
			out[i] = ast.BlankLine{}
		}
	}
	return out
}

func TestParseSequence(t *testing.T) {
	src := "%%{init: {}}%%\n" +
		"sequenceDiagram\n" +
		"    participant A as Alice\n" +
		"    actor Bob\n" +
		"\n" +
		"    critical   Establish connection  \n" +
		"        A->>Bob: connect\n" +
		"    option Timeout\n" +
		"    else\n" +
		"    end\n" +
		"    Note over A,Bob: done\n" +
		"%%   trailing\n"

	want := []ast.Statement{
		ast.Directive{Raw: "%%{init: {}}%%"},
		ast.DiagramDecl{Type: ast.SimpleType{Keyword: "sequenceDiagram"}},
		ast.Participant{Keyword: ast.KwParticipant, Name: "A", Alias: "Alice"},
		ast.Participant{Keyword: ast.KwActor, Name: "Bob"},
		ast.BlankLine{},
		ast.BlockStart{Block: ast.BlockCritical, Label: "Establish connection"},
		ast.GenericLine{Text: "A->>Bob: connect"},
		ast.BlockOption{Label: "Timeout"},
		ast.BlockElse{},
		ast.BlockEnd{},
		ast.Note{Text: "Note over A,Bob: done", Position: ast.PosOver},
		ast.Comment{Text: "   trailing"},
	}

	d := mustParse(t, src)
	if diff := cmp.Diff(want, stripSpans(d.Statements)); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOneStatementPerLine(t *testing.T) {
	tests := []struct {
		src   string
		lines int
	}{
		{"", 0},
		{"graph TD", 1},
		{"graph TD\n", 1},
		{"graph TD\n\n\n\nA-->B", 5},
		{"\n\n", 2},
		{"stateDiagram-v2\r\nstate X {\r\n}\r\n", 3},
	}
	for _, tt := range tests {
		d := mustParse(t, tt.src)
		if len(d.Statements) != tt.lines {
			t.Errorf("%q: %d statements, want %d", tt.src, len(d.Statements), tt.lines)
		}
	}
}

func TestParseSpans(t *testing.T) {
	d, fs, err := ParseString("spans.mmd", "graph TD\n  A --> B\n")
	if err != nil {
		t.Fatal(err)
	}
	sp := d.Statements[1].Span()
	if got := string(fs.Get(sp.File).Content[sp.Start:sp.End]); got != "  A --> B" {
		t.Fatalf("span text = %q", got)
	}
}

func TestDecodeDiagramType(t *testing.T) {
	tests := []struct {
		src  string
		want ast.DiagramType
	}{
		{"flowchart", ast.FlowchartType{}},
		{"flowchart   LR", ast.FlowchartType{Direction: "LR"}},
		{"graph TD", ast.FlowchartType{Graph: true, Direction: "TD"}},
		{"pie", ast.PieType{}},
		{"pie showData", ast.PieType{ShowData: true}},
		{"pie title Key elements", ast.PieType{Title: "Key elements"}},
		{"pie showData title Pets", ast.PieType{ShowData: true, Title: "Pets"}},
		{"gitGraph", ast.SimpleType{Keyword: "gitGraph"}},
		{"myCustomDiagram", ast.FlowchartType{}},
	}
	for _, tt := range tests {
		d := mustParse(t, tt.src)
		decl, ok := d.Statements[0].(ast.DiagramDecl)
		if !ok {
			t.Fatalf("%q: expected DiagramDecl, got %T", tt.src, d.Statements[0])
		}
		if diff := cmp.Diff(tt.want, decl.Type); diff != "" {
			t.Errorf("%q: type mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestUnknownDeclarationRendersAsFlowchart(t *testing.T) {
	d := mustParse(t, "whatIsThis\n    A --> B\n")
	decl := d.Statements[0].(ast.DiagramDecl)
	if decl.Type.Canonical() != "flowchart" {
		t.Fatalf("fallback canonical = %q", decl.Type.Canonical())
	}
}

func TestBlockLabelFallback(t *testing.T) {
	d := mustParse(t, "sequenceDiagram\nloop\nloop   every minute\nsubgraph x\n")
	if got := d.Statements[1].(ast.BlockStart).Label; got != "" {
		t.Errorf("bare loop label = %q, want absent", got)
	}
	if got := d.Statements[2].(ast.BlockStart).Label; got != "every minute" {
		t.Errorf("loop label = %q", got)
	}
	if _, ok := d.Statements[3].(ast.GenericLine); !ok {
		t.Errorf("subgraph in a sequence diagram must stay generic, got %T", d.Statements[3])
	}
	if got := blockLabel(grammarMatch("loop  x"), "loop"); got != "x" {
		t.Errorf("prefix fallback = %q", got)
	}
}

func TestParticipantSplit(t *testing.T) {
	d := mustParse(t, "sequenceDiagram\nparticipant A as  The A\nparticipant B as\nactor C as D as E\n")
	want := []ast.Participant{
		{Keyword: ast.KwParticipant, Name: "A", Alias: "The A"},
		{Keyword: ast.KwParticipant, Name: "B as"},
		{Keyword: ast.KwActor, Name: "C", Alias: "D as E"},
	}
	for i, w := range want {
		got := d.Statements[i+1].(ast.Participant)
		got.Node = ast.Node{}
		if diff := cmp.Diff(w, got); diff != "" {
			t.Errorf("participant %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestGrammarErrorLocation(t *testing.T) {
	bag := diag.NewBag(0)
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.mmd", []byte("graph TD\n  A --> \x00B\n"))

	d, err := ParseFile(fs, id, Options{Reporter: diag.BagReporter{Bag: bag}})
	if d != nil {
		t.Fatal("no diagram may be returned on failure")
	}
	if !errors.Is(err, ErrGrammar) || errors.Is(err, ErrSemanticDecode) {
		t.Fatalf("expected grammar error, got %v", err)
	}
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if perr.Pos.Line != 2 || perr.Pos.Col != 9 || perr.Code != diag.SynControlChar {
		t.Fatalf("unexpected location %d:%d code %s", perr.Pos.Line, perr.Pos.Col, perr.Code.ID())
	}
	if perr.Error() != "bad.mmd:2:9: unexpected control character U+0000" {
		t.Fatalf("unexpected message %q", perr.Error())
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynControlChar {
		t.Fatalf("expected the error to be reported, got %d diagnostics", bag.Len())
	}
}

func TestInvalidUTF8(t *testing.T) {
	_, _, err := ParseString("bad.mmd", "graph TD\n\xfe\n")
	var perr *Error
	if !errors.As(err, &perr) || perr.Code != diag.SynInvalidUTF8 || perr.Pos.Line != 2 {
		t.Fatalf("expected invalid UTF-8 at line 2, got %v", err)
	}
}

func TestNotePositionDecode(t *testing.T) {
	d := mustParse(t, "stateDiagram-v2\nnote right of S1: a\nnote left of S2\nnote \"free\"\n")
	want := []ast.NotePosition{ast.PosRightOf, ast.PosLeftOf, ast.NoPosition}
	for i, w := range want {
		if got := d.Statements[i+1].(ast.Note).Position; got != w {
			t.Errorf("note %d position = %v, want %v", i, got, w)
		}
	}

	bag := diag.NewBag(0)
	fs := source.NewFileSet()
	id := fs.AddVirtual("note.mmd", []byte("sequenceDiagram\n  Note left A: hi\n"))
	_, err := ParseFile(fs, id, Options{Reporter: diag.BagReporter{Bag: bag}})
	if !errors.Is(err, ErrSemanticDecode) {
		t.Fatalf("expected semantic decode error, got %v", err)
	}
	var perr *Error
	errors.As(err, &perr)
	if perr.Code != diag.SemaBadNotePosition || perr.Pos.Col != 8 || perr.Span.Len() != 4 {
		t.Fatalf("unexpected error %+v", perr)
	}
	if len(bag.Items()) != 1 || len(bag.Items()[0].Notes) != 1 {
		t.Fatal("expected diagnostic with the vocabulary note")
	}
	fixes := bag.Items()[0].Fixes
	if len(fixes) != 1 || len(fixes[0].Edits) != 1 || fixes[0].Edits[0].NewText != "left of" {
		t.Fatalf("expected a left-of fix, got %+v", fixes)
	}
	if fixes[0].Edits[0].Span != perr.Span {
		t.Fatalf("fix must replace the position token")
	}
}
