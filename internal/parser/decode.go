package parser

import (
	"strings"

	"mmdfmt/internal/ast"
	"mmdfmt/internal/dialect"
)

// decodeDiagramType never fails: an unknown keyword is a flowchart without
// a direction.
func decodeDiagramType(keyword, rest string) ast.DiagramType {
	decl, ok := dialect.LookupDecl(keyword)
	if !ok {
		return ast.FlowchartType{}
	}
	switch decl.Shape {
	case dialect.ShapeDirection:
		return ast.FlowchartType{Graph: keyword == "graph", Direction: rest}
	case dialect.ShapeOptions:
		return decodePie(rest)
	default:
		return ast.SimpleType{Keyword: keyword}
	}
}

func decodePie(rest string) ast.PieType {
	t := ast.PieType{ShowData: strings.Contains(rest, "showData")}
	for i := 0; i+len("title") <= len(rest); i++ {
		if !strings.HasPrefix(rest[i:], "title") {
			continue
		}
		end := i + len("title")
		if i > 0 && !isBlank(rest[i-1]) {
			continue
		}
		if end < len(rest) && !isBlank(rest[end]) {
			continue
		}
		t.Title = strings.TrimSpace(rest[end:])
		break
	}
	return t
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}
