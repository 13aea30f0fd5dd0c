package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/source"
)

// StatementOutput is the JSON shape of one statement.
type StatementOutput struct {
	Kind   string         `json:"kind"`
	Line   uint32         `json:"line"`
	Span   [2]uint32      `json:"span"`
	Fields map[string]any `json:"fields,omitempty"`
}

// DiagramOutput is the JSON shape of a parsed file.
type DiagramOutput struct {
	File       string            `json:"file"`
	Dialect    string            `json:"dialect,omitempty"`
	Statements []StatementOutput `json:"statements"`
}

// BuildDiagramOutput converts d into its JSON shape.
func BuildDiagramOutput(d *ast.Diagram, fs *source.FileSet) DiagramOutput {
	out := DiagramOutput{Statements: make([]StatementOutput, 0, len(d.Statements))}
	if int(d.File) < fs.Len() {
		out.File = fs.Get(d.File).Path
	}
	if decl, ok := d.Decl(); ok {
		out.Dialect = decl.Type.Dialect().String()
	}
	for _, st := range d.Statements {
		sp := st.Span()
		start, _ := fs.Resolve(sp)
		out.Statements = append(out.Statements, StatementOutput{
			Kind:   st.Kind().String(),
			Line:   start.Line,
			Span:   [2]uint32{sp.Start, sp.End},
			Fields: statementFields(st),
		})
	}
	return out
}

// FormatASTJSON writes the statement stream of d as JSON.
func FormatASTJSON(w io.Writer, d *ast.Diagram, fs *source.FileSet) error {
	if d == nil {
		return fmt.Errorf("nil diagram")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagramOutput(d, fs))
}

// FormatASTPretty writes the statement stream of d as a tree.
func FormatASTPretty(w io.Writer, d *ast.Diagram, fs *source.FileSet) error {
	if d == nil {
		return fmt.Errorf("nil diagram")
	}
	out := BuildDiagramOutput(d, fs)
	header := "Diagram " + out.File
	if out.Dialect != "" {
		header += " (" + out.Dialect + ")"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for i, st := range out.Statements {
		branch := "├─"
		if i == len(out.Statements)-1 {
			branch = "└─"
		}
		if _, err := fmt.Fprintf(w, "%s %4d %s%s\n", branch, st.Line, st.Kind, prettyFields(d.Statements[i])); err != nil {
			return err
		}
	}
	return nil
}

func statementFields(st ast.Statement) map[string]any {
	switch s := st.(type) {
	case ast.DiagramDecl:
		return map[string]any{"type": s.Type.Canonical(), "dialect": s.Type.Dialect().String()}
	case ast.Directive:
		return map[string]any{"raw": s.Raw}
	case ast.Participant:
		f := map[string]any{"keyword": s.Keyword.String(), "name": s.Name}
		if s.Alias != "" {
			f["alias"] = s.Alias
		}
		return f
	case ast.BlockStart:
		return withLabelField(map[string]any{"block": s.Block.String()}, s.Label)
	case ast.BraceBlockStart:
		return map[string]any{"block": s.Block.String(), "name": s.Name}
	case ast.BlockOption:
		return withLabelField(nil, s.Label)
	case ast.BlockElse:
		return withLabelField(nil, s.Label)
	case ast.Note:
		f := map[string]any{"text": s.Text}
		if s.Position != ast.NoPosition {
			f["position"] = s.Position.String()
		}
		return f
	case ast.Comment:
		return map[string]any{"text": s.Text}
	case ast.GenericLine:
		return map[string]any{"text": s.Text}
	default:
		return nil
	}
}

func withLabelField(f map[string]any, label string) map[string]any {
	if label == "" {
		return f
	}
	if f == nil {
		f = make(map[string]any, 1)
	}
	f["label"] = label
	return f
}

func prettyFields(st ast.Statement) string {
	switch s := st.(type) {
	case ast.DiagramDecl:
		return " " + s.Type.Canonical()
	case ast.Participant:
		if s.Alias != "" {
			return fmt.Sprintf(" %s %s as %s", s.Keyword, s.Name, s.Alias)
		}
		return fmt.Sprintf(" %s %s", s.Keyword, s.Name)
	case ast.BlockStart:
		return quoteTail(s.Block.String(), s.Label)
	case ast.BraceBlockStart:
		return fmt.Sprintf(" %s %s", s.Block, s.Name)
	case ast.BlockOption:
		return quoteTail("", s.Label)
	case ast.BlockElse:
		return quoteTail("", s.Label)
	case ast.Note:
		if s.Position != ast.NoPosition {
			return fmt.Sprintf(" [%s] %q", s.Position, s.Text)
		}
		return fmt.Sprintf(" %q", s.Text)
	case ast.Directive:
		return fmt.Sprintf(" %q", s.Raw)
	case ast.Comment:
		return fmt.Sprintf(" %q", s.Text)
	case ast.GenericLine:
		return fmt.Sprintf(" %q", s.Text)
	}
	return ""
}

func quoteTail(head, label string) string {
	var parts []string
	if head != "" {
		parts = append(parts, head)
	}
	if label != "" {
		parts = append(parts, fmt.Sprintf("%q", label))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
