package ast

import "mmdfmt/internal/source"

// Statement is one classified source line. The set of implementations is
// closed; switch on the concrete type or on Kind().
type Statement interface {
	Kind() StmtKind
	Span() source.Span
	stmtNode()
}

// Node carries the span of the source line without its newline.
type Node struct {
	Sp source.Span
}

func (n Node) Span() source.Span { return n.Sp }
func (Node) stmtNode()           {}

type DiagramDecl struct {
	Node
	Type DiagramType
}

type Directive struct {
	Node
	Raw string
}

type Participant struct {
	Node
	Keyword ParticipantKeyword
	Name    string
	Alias   string // "" when absent
}

type BlockStart struct {
	Node
	Block BlockKind
	Label string // "" when absent
}

type BraceBlockStart struct {
	Node
	Block BraceKind
	Name  string
}

type BlockOption struct {
	Node
	Label string
}

type BlockElse struct {
	Node
	Label string
}

type BlockEnd struct{ Node }

type BraceBlockEnd struct{ Node }

type Note struct {
	Node
	Text     string
	Position NotePosition
}

// Comment holds the text after the leading %%.
type Comment struct {
	Node
	Text string
}

type GenericLine struct {
	Node
	Text string
}

type BlankLine struct{ Node }

func (DiagramDecl) Kind() StmtKind     { return StmtDiagramDecl }
func (Directive) Kind() StmtKind       { return StmtDirective }
func (Participant) Kind() StmtKind     { return StmtParticipant }
func (BlockStart) Kind() StmtKind      { return StmtBlockStart }
func (BraceBlockStart) Kind() StmtKind { return StmtBraceBlockStart }
func (BlockOption) Kind() StmtKind     { return StmtBlockOption }
func (BlockElse) Kind() StmtKind       { return StmtBlockElse }
func (BlockEnd) Kind() StmtKind        { return StmtBlockEnd }
func (BraceBlockEnd) Kind() StmtKind   { return StmtBraceBlockEnd }
func (Note) Kind() StmtKind            { return StmtNote }
func (Comment) Kind() StmtKind         { return StmtComment }
func (GenericLine) Kind() StmtKind     { return StmtGenericLine }
func (BlankLine) Kind() StmtKind       { return StmtBlank }

// Diagram is the statement stream of one file.
type Diagram struct {
	File       source.FileID
	Statements []Statement
}

// Kinds returns the statement kinds in order, optionally skipping blank lines.
func (d *Diagram) Kinds(skipBlank bool) []StmtKind {
	if d == nil {
		return nil
	}
	out := make([]StmtKind, 0, len(d.Statements))
	for _, st := range d.Statements {
		if skipBlank && st.Kind() == StmtBlank {
			continue
		}
		out = append(out, st.Kind())
	}
	return out
}

// Decl returns the first DiagramDecl, if any.
func (d *Diagram) Decl() (DiagramDecl, bool) {
	if d == nil {
		return DiagramDecl{}, false
	}
	for _, st := range d.Statements {
		if decl, ok := st.(DiagramDecl); ok {
			return decl, true
		}
	}
	return DiagramDecl{}, false
}
