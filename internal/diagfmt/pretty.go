package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mmdfmt/internal/diag"
	"mmdfmt/internal/source"
)

type palette struct {
	err, warn, info, note, gutter, caret, added, removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(d.Primary, fs, opts.PathMode),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message)
	snippet(w, d.Primary, fs, opts.Context, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(n.Span, fs, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("fix:"), fix.Title)
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", pal.removed.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", pal.added.Sprint("+ "+line))
				}
			}
		}
	}
}

func validSpan(sp source.Span, fs *source.FileSet) bool {
	return int(sp.File) < fs.Len()
}

func location(sp source.Span, fs *source.FileSet, mode PathMode) string {
	if !validSpan(sp, fs) {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	path := formatPath(f, fs, mode)
	if len(f.Content) == 0 {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// snippet prints the primary line with optional context and a caret
// underline aligned by display width.
func snippet(w io.Writer, sp source.Span, fs *source.FileSet, context int8, pal palette) {
	if !validSpan(sp, fs) {
		return
	}
	f := fs.Get(sp.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	total := toU32(f.LineCount())
	ctx := uint32(max(context, 0))
	first := max(start.Line, ctx+1) - ctx
	last := min(start.Line+ctx, total)

	gw := len(fmt.Sprint(last))
	pad := strings.Repeat(" ", gw)
	fmt.Fprintf(w, "%s %s\n", pad, pal.gutter.Sprint("|"))
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*d", gw, ln), pal.gutter.Sprint("|"), text)
		if ln != start.Line {
			continue
		}
		endCol := end.Col
		if end.Line != start.Line {
			endCol = toU32(len(text)) + 1
		}
		fmt.Fprintf(w, "%s %s %s\n", pad, pal.gutter.Sprint("|"), pal.caret.Sprint(underline(text, start.Col, endCol)))
	}
}

// underline returns padding up to column startCol followed by ^~~ covering
// [startCol, endCol). Columns are 1-based byte offsets; tabs are kept so the
// caret lines up with the terminal's rendering.
func underline(line string, startCol, endCol uint32) string {
	from := min(int(startCol)-1, len(line))
	from = max(from, 0)
	to := min(max(int(endCol)-1, from), len(line))

	var b strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(line[from:to])
	b.WriteByte('^')
	if width > 1 {
		b.WriteString(strings.Repeat("~", width-1))
	}
	return b.String()
}
