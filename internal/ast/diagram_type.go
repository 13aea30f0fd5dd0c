package ast

import (
	"strings"

	"mmdfmt/internal/dialect"
)

// DiagramType is the decoded diagram declaration. Canonical returns the
// declaration line text it renders to.
type DiagramType interface {
	Canonical() string
	Dialect() dialect.Kind
	diagramType()
}

// SimpleType is a declaration keyword that takes no arguments
// (sequenceDiagram, erDiagram, gantt, ...).
type SimpleType struct {
	Keyword string
}

// FlowchartType covers both flowchart and graph; Graph records which keyword
// was used.
type FlowchartType struct {
	Graph     bool
	Direction string // "" when absent
}

type PieType struct {
	ShowData bool
	Title    string
}

func (t SimpleType) Canonical() string { return t.Keyword }

func (t SimpleType) Dialect() dialect.Kind {
	if d, ok := dialect.LookupDecl(t.Keyword); ok {
		return d.Kind
	}
	return dialect.Flowchart
}

func (t FlowchartType) Canonical() string {
	kw := "flowchart"
	if t.Graph {
		kw = "graph"
	}
	if t.Direction == "" {
		return kw
	}
	return kw + " " + t.Direction
}

func (FlowchartType) Dialect() dialect.Kind { return dialect.Flowchart }

func (t PieType) Canonical() string {
	var b strings.Builder
	b.WriteString("pie")
	if t.ShowData {
		b.WriteString(" showData")
	}
	if t.Title != "" {
		b.WriteString(" title ")
		b.WriteString(t.Title)
	}
	return b.String()
}

func (PieType) Dialect() dialect.Kind { return dialect.Pie }

func (SimpleType) diagramType()    {}
func (FlowchartType) diagramType() {}
func (PieType) diagramType()       {}
