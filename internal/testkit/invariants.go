package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/format"
	"mmdfmt/internal/source"
)

// CheckLineCoverage runs the structural invariants of a parsed diagram:
// 1) there is exactly one statement per source line
// 2) statement i spans line i+1 (without its newline), in order
// 3) every span lies within the file content
func CheckLineCoverage(d *ast.Diagram, sf *source.File) error {
	if d == nil || sf == nil {
		return fmt.Errorf("nil diagram or file")
	}
	if d.File != sf.ID {
		return fmt.Errorf("diagram points to different file id: got=%d want=%d", d.File, sf.ID)
	}
	if got, want := len(d.Statements), sf.LineCount(); got != want {
		return fmt.Errorf("statement count %d does not match line count %d", got, want)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevEnd uint32
	for i, st := range d.Statements {
		if st == nil {
			return fmt.Errorf("nil statement at index %d", i)
		}
		sp := st.Span()
		if sp.File != sf.ID {
			return fmt.Errorf("statement %d span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End > lenContent || sp.End < sp.Start {
			return fmt.Errorf("statement %d span %v is outside content (%d bytes)", i, sp, lenContent)
		}
		if i > 0 && sp.Start <= prevEnd {
			return fmt.Errorf("statement %d span %v overlaps or precedes the previous line", i, sp)
		}
		lineNum, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			return fmt.Errorf("line number overflow: %w", err)
		}
		if want := sf.LineSpan(lineNum); sp != want {
			return fmt.Errorf("statement %d (%s) spans %v, line %d spans %v", i, st.Kind(), sp, lineNum, want)
		}
		prevEnd = sp.End
	}
	return nil
}

// CheckIdempotent verifies that formatting text keeps the statement shape
// and that formatting the result again is a no-op.
func CheckIdempotent(name, text string, opt format.Options) error {
	rt, err := format.CheckRoundTrip(name, text, opt)
	if err != nil {
		return err
	}
	if !rt.ShapeKept {
		return fmt.Errorf("%s: statement kinds changed after formatting", name)
	}
	if !rt.Idempotent {
		return fmt.Errorf("%s: second format pass differs at line %d", name, rt.FirstDiffLine)
	}
	return nil
}
