package parser

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/diag"
	"mmdfmt/internal/grammar"
	"mmdfmt/internal/source"
)

type Options struct {
	// Reporter, when set, also receives the fatal error as a diagnostic.
	Reporter diag.Reporter
}

// Parser — состояние разбора одного файла
type Parser struct {
	fs   *source.FileSet
	file *source.File
	cls  *grammar.Classifier
	opts Options
}

// ParseFile builds the diagram of a file already loaded into fs.
// Either the whole diagram or an *Error is returned, never both.
func ParseFile(fs *source.FileSet, id source.FileID, opts Options) (*ast.Diagram, error) {
	p := Parser{
		fs:   fs,
		file: fs.Get(id),
		cls:  grammar.New(),
		opts: opts,
	}
	return p.parse()
}

// ParseString parses text as a virtual file named name.
func ParseString(name, text string) (*ast.Diagram, *source.FileSet, error) {
	fs := source.NewFileSet()
	id, err := fs.LoadReader(name, strings.NewReader(text))
	if err != nil {
		return nil, fs, err
	}
	d, err := ParseFile(fs, id, Options{})
	return d, fs, err
}

func (p *Parser) parse() (*ast.Diagram, error) {
	n := p.file.LineCount()
	d := &ast.Diagram{
		File:       p.file.ID,
		Statements: make([]ast.Statement, 0, n),
	}
	for i := 1; i <= n; i++ {
		sp := p.file.LineSpan(toU32(i))
		line := string(p.file.Content[sp.Start:sp.End])

		m, err := p.cls.Classify(line)
		if err != nil {
			var rej *grammar.Reject
			if !errors.As(err, &rej) {
				return nil, err
			}
			off := toU32(rej.Offset)
			return nil, p.fail(KindGrammar, rej.Code, sp.Sub(off, off+1), rej.Reason, "")
		}

		st, err := p.build(m, line, sp)
		if err != nil {
			return nil, err
		}
		d.Statements = append(d.Statements, st)
	}
	return d, nil
}

// fail builds the error and mirrors it to the reporter.
func (p *Parser) fail(kind ErrorKind, code diag.Code, sp source.Span, msg, note string, fixes ...diag.Fix) *Error {
	pos, _ := p.fs.Resolve(sp)
	err := &Error{
		Kind: kind,
		Code: code,
		Path: p.file.FormatPath("relative", p.fs.BaseDir()),
		Pos:  pos,
		Span: sp,
		Msg:  msg,
	}
	if p.opts.Reporter != nil {
		rb := diag.ReportError(p.opts.Reporter, code, sp, msg)
		if note != "" {
			rb.WithNote(sp, note)
		}
		for _, fix := range fixes {
			rb.WithFix(fix.Title, fix.Edits...)
		}
		rb.Emit()
	}
	return err
}

func (p *Parser) build(m grammar.Match, line string, sp source.Span) (ast.Statement, error) {
	node := ast.Node{Sp: sp}
	switch m.Rule {
	case grammar.RuleBlank:
		return ast.BlankLine{Node: node}, nil
	case grammar.RuleDirective:
		return ast.Directive{Node: node, Raw: m.Text}, nil
	case grammar.RuleComment:
		body, _ := m.Caps.Get(grammar.CapBody)
		return ast.Comment{Node: node, Text: body}, nil
	case grammar.RuleDiagramDecl:
		kw, _ := m.Caps.Get(grammar.CapKeyword)
		rest, _ := m.Caps.Get(grammar.CapBody)
		return ast.DiagramDecl{Node: node, Type: decodeDiagramType(kw, rest)}, nil
	case grammar.RuleParticipant:
		return buildParticipant(node, m), nil
	case grammar.RuleBlockStart:
		kw, _ := m.Caps.Get(grammar.CapKeyword)
		kind, ok := ast.LookupBlockKind(kw)
		if !ok {
			return nil, fmt.Errorf("parser: block keyword %q has no kind", kw)
		}
		return ast.BlockStart{Node: node, Block: kind, Label: blockLabel(m, kw)}, nil
	case grammar.RuleBraceBlockStart:
		kw, _ := m.Caps.Get(grammar.CapKeyword)
		kind, ok := ast.LookupBraceKind(kw)
		if !ok {
			return nil, fmt.Errorf("parser: brace keyword %q has no kind", kw)
		}
		name, _ := m.Caps.Get(grammar.CapName)
		return ast.BraceBlockStart{Node: node, Block: kind, Name: name}, nil
	case grammar.RuleBlockOption:
		return ast.BlockOption{Node: node, Label: blockLabel(m, "option")}, nil
	case grammar.RuleBlockElse:
		return ast.BlockElse{Node: node, Label: blockLabel(m, "else")}, nil
	case grammar.RuleBlockEnd:
		return ast.BlockEnd{Node: node}, nil
	case grammar.RuleBraceBlockEnd:
		return ast.BraceBlockEnd{Node: node}, nil
	case grammar.RuleNote:
		return p.buildNote(node, m, line, sp)
	default:
		return ast.GenericLine{Node: node, Text: m.Text}, nil
	}
}

func buildParticipant(node ast.Node, m grammar.Match) ast.Participant {
	body, _ := m.Caps.Get(grammar.CapBody)
	kw := ast.KwParticipant
	if strings.HasPrefix(m.Text, "actor") {
		kw = ast.KwActor
	}
	name, alias, _ := strings.Cut(body, " as ")
	return ast.Participant{
		Node:    node,
		Keyword: kw,
		Name:    strings.TrimSpace(name),
		Alias:   strings.TrimSpace(alias),
	}
}

// blockLabel prefers the label capture and falls back to the line text
// after the keyword.
func blockLabel(m grammar.Match, keyword string) string {
	if label, ok := m.Caps.Get(grammar.CapLabel); ok {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(strings.TrimPrefix(m.Text, keyword))
}

func (p *Parser) buildNote(node ast.Node, m grammar.Match, line string, sp source.Span) (ast.Statement, error) {
	note := ast.Note{Node: node, Text: m.Text}
	tok, ok := m.Caps.Get(grammar.CapPosition)
	if !ok {
		return note, nil
	}
	pos, ok := ast.LookupNotePosition(tok)
	if !ok {
		body, _ := m.Caps.Get(grammar.CapBody)
		off := toU32(strings.Index(line, body))
		errSpan := sp.Sub(off, off+toU32(len(tok)))
		var fixes []diag.Fix
		if tok == "left" || tok == "right" {
			fixes = append(fixes, diag.Fix{
				Title: fmt.Sprintf("use %q", tok+" of"),
				Edits: []diag.FixEdit{{Span: errSpan, NewText: tok + " of"}},
			})
		}
		return nil, p.fail(KindSemanticDecode, diag.SemaBadNotePosition, errSpan,
			fmt.Sprintf("invalid note position %q", tok),
			"expected one of: left of, right of, over, for", fixes...)
	}
	note.Position = pos
	return note, nil
}

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
