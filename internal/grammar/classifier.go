package grammar

import "mmdfmt/internal/dialect"

// Classifier classifies the lines of one file in order. The zero value is
// ready to use and starts in the Unknown dialect.
type Classifier struct {
	dialect  dialect.Kind
	seenDecl bool
}

func New() *Classifier {
	return &Classifier{}
}

// Dialect returns the dialect fixed by the declaration seen so far.
func (c *Classifier) Dialect() dialect.Kind {
	return c.dialect
}

func (c *Classifier) SeenDecl() bool {
	return c.seenDecl
}

// Classify returns the match of the first admitted production that accepts
// line. The error is a *Reject when line is not well-formed text.
func (c *Classifier) Classify(line string) (Match, error) {
	if rej := scanLine(line); rej != nil {
		return Match{}, rej
	}
	text := trimBlanks(line)
	for i := range Productions {
		p := &Productions[i]
		if p.DeclOnly && c.seenDecl {
			continue
		}
		if p.Gate != 0 && !c.dialect.Allows(p.Gate) {
			continue
		}
		var caps Captures
		if !p.Match(text, &caps) {
			continue
		}
		if p.Rule == RuleDiagramDecl {
			c.enter(caps)
		}
		return Match{Rule: p.Rule, Text: text, Caps: caps}, nil
	}
	// generic_line accepts everything scanLine let through.
	panic("grammar: no production matched")
}

func (c *Classifier) enter(caps Captures) {
	c.seenDecl = true
	c.dialect = dialect.Flowchart
	if kw, ok := caps.Get(CapKeyword); ok {
		if decl, ok := dialect.LookupDecl(kw); ok {
			c.dialect = decl.Kind
		}
	}
}
