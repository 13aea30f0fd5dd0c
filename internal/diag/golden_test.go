package diag

import (
	"testing"

	"mmdfmt/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	docFile := fs.Add("/workspace/docs/flow.mmd", []byte("graph TD\nNote lft of A: x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     FmtNotFormatted,
			Message:  "file is not formatted",
			Primary:  source.Span{File: docFile, Start: 0, End: 0},
		},
		{
			Severity: SevError,
			Code:     SemaBadNotePosition,
			Message:  "invalid note position\n\"lft\"",
			Primary:  source.Span{File: docFile, Start: 14, End: 17},
			Notes: []Note{
				{Span: source.Span{File: docFile, Start: 9, End: 13}, Msg: "note starts here"},
			},
		},
	}

	expected := "warning FMT6001 docs/flow.mmd:1:1 file is not formatted\n" +
		"note SEM3001 docs/flow.mmd:2:1 note starts here\n" +
		"error SEM3001 docs/flow.mmd:2:6 invalid note position \"lft\""

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil, source.NewFileSet(), false); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	bag := NewBag(3)
	sp := source.Span{File: 0, Start: 5, End: 6}

	bag.Add(Errorf(SynUnmatchedLine, sp, "late"))
	bag.Add(Warningf(FmtNotFormatted, source.Span{}, "early"))
	bag.Add(Errorf(SynUnmatchedLine, sp, "late duplicate"))
	if bag.Add(Errorf(SynInvalidUTF8, sp, "over limit")) {
		t.Fatal("expected bag to refuse diagnostics past its limit")
	}

	bag.Sort()
	if bag.Items()[0].Message != "early" {
		t.Fatalf("expected earliest span first, got %q", bag.Items()[0].Message)
	}

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SynControlChar, source.Span{}, "control character").
		WithNote(source.Span{Start: 1, End: 2}, "here")
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("expected note to be carried over")
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		SynUnmatchedLine:    "SYN2001",
		SemaBadNotePosition: "SEM3001",
		IOLoadFileError:     "IO4001",
		PrjConfigInvalid:    "PRJ5001",
		FmtNotFormatted:     "FMT6001",
		UnknownCode:         "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
}

func TestSeverityNames(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "info"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.upper {
			t.Errorf("%d.String() = %q, want %q", tt.sev, got, tt.upper)
		}
		if got := tt.sev.Label(); got != tt.lower {
			t.Errorf("%d.Label() = %q, want %q", tt.sev, got, tt.lower)
		}
	}
}

func TestWithNoteDoesNotShareNotes(t *testing.T) {
	base := Errorf(SemaBadNotePosition, source.Span{}, "invalid note position %q", "left")
	if base.Message != `invalid note position "left"` || base.Severity != SevError {
		t.Fatalf("unexpected base %+v", base)
	}
	base.Notes = make([]Note, 0, 4)

	a := base.WithNote(source.Span{Start: 1}, "a")
	b := base.WithNote(source.Span{Start: 2}, "b")
	if a.Notes[0].Msg != "a" || b.Notes[0].Msg != "b" {
		t.Fatalf("notes aliased: a=%v b=%v", a.Notes, b.Notes)
	}

	w := Warningf(FmtNotFormatted, source.Span{}, "file is not formatted").
		WithFix("rewrite", FixEdit{NewText: "x"})
	if w.Severity != SevWarning || len(w.Fixes) != 1 || w.Fixes[0].Edits[0].NewText != "x" {
		t.Fatalf("unexpected warning %+v", w)
	}
}
