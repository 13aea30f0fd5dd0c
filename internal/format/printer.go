package format

import (
	"errors"
	"strings"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/parser"
)

// depthState is the running state of one rendering pass.
type depthState struct {
	seenDiagramDecl bool
	braceDepth      uint
}

// depth returns the indentation level of st. It must be called after the
// brace depth update that precedes st.
func (s *depthState) depth(st ast.Statement) int {
	if !s.seenDiagramDecl {
		return 0
	}
	switch st.Kind() {
	case ast.StmtDiagramDecl, ast.StmtDirective, ast.StmtBlockStart,
		ast.StmtBlockOption, ast.StmtBlockElse, ast.StmtBlockEnd:
		return 0
	case ast.StmtBraceBlockStart, ast.StmtBraceBlockEnd:
		return int(s.braceDepth) // #nosec G115 -- bounded by the line count
	default:
		return 1 + int(s.braceDepth) // #nosec G115
	}
}

func (s *depthState) leave() {
	if s.braceDepth > 0 {
		s.braceDepth--
	}
}

// separatesBlock reports whether a block opening after k gets a blank line.
func separatesBlock(k ast.StmtKind) bool {
	switch k {
	case ast.StmtBlockEnd, ast.StmtBraceBlockEnd, ast.StmtGenericLine,
		ast.StmtParticipant, ast.StmtNote:
		return true
	}
	return false
}

type printer struct {
	writer *Writer
	state  depthState
	// pendingBlank is flushed before the next non-blank line, so runs of
	// blanks collapse and trailing blanks are never written.
	pendingBlank bool
	prevKind     ast.StmtKind
	hasPrev      bool
}

// Format renders d. Rendering cannot fail once a diagram has been built.
func Format(d *ast.Diagram, opt Options) []byte {
	if d == nil {
		return nil
	}
	opt = opt.withDefaults()
	pr := printer{writer: NewWriter(opt, len(d.Statements)*24)}
	for _, st := range d.Statements {
		pr.printStmt(st)
	}
	return pr.writer.Bytes()
}

// FormatString parses and formats text as a virtual file named name.
// On error no output is returned.
func FormatString(name, text string, opt Options) (string, error) {
	if err := opt.Validate(); err != nil {
		return "", err
	}
	d, _, err := parser.ParseString(name, text)
	if err != nil {
		return "", err
	}
	return string(Format(d, opt)), nil
}

func (p *printer) printStmt(st ast.Statement) {
	kind := st.Kind()
	if kind == ast.StmtBlank {
		p.pendingBlank = true
		return
	}

	if (kind == ast.StmtBlockStart || kind == ast.StmtBraceBlockStart) &&
		p.hasPrev && separatesBlock(p.prevKind) && !p.writer.Empty() {
		p.pendingBlank = true
	}
	if p.pendingBlank {
		p.writer.Blank()
		p.pendingBlank = false
	}

	if kind == ast.StmtBraceBlockEnd {
		p.state.leave()
	}
	p.writer.SetIndent(p.state.depth(st))
	p.writer.Line(render(st))

	switch kind {
	case ast.StmtDiagramDecl:
		p.state.seenDiagramDecl = true
	case ast.StmtBraceBlockStart:
		p.state.braceDepth++
	}
	p.prevKind = kind
	p.hasPrev = true
}

func render(st ast.Statement) string {
	switch s := st.(type) {
	case ast.DiagramDecl:
		return s.Type.Canonical()
	case ast.Directive:
		return s.Raw
	case ast.Participant:
		if s.Alias == "" {
			return s.Keyword.String() + " " + s.Name
		}
		return s.Keyword.String() + " " + s.Name + " as " + s.Alias
	case ast.BlockStart:
		return withLabel(s.Block.String(), s.Label)
	case ast.BraceBlockStart:
		return s.Block.String() + " " + s.Name + " {"
	case ast.BlockOption:
		return withLabel("option", s.Label)
	case ast.BlockElse:
		return withLabel("else", s.Label)
	case ast.BlockEnd:
		return "end"
	case ast.BraceBlockEnd:
		return "}"
	case ast.Note:
		return strings.TrimSpace(s.Text)
	case ast.Comment:
		return "%%" + strings.TrimRight(s.Text, " \t")
	case ast.GenericLine:
		return Normalize(strings.TrimSpace(s.Text))
	}
	panic(errors.New("format: unknown statement type"))
}

func withLabel(keyword, label string) string {
	if label == "" {
		return keyword
	}
	return keyword + " " + label
}
