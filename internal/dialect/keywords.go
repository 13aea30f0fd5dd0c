package dialect

// DeclShape describes what may follow a declaration keyword on its line.
type DeclShape uint8

const (
	// ShapeExact: the keyword stands alone.
	ShapeExact DeclShape = iota
	// ShapeDirection: the keyword may be followed by a direction (flowchart TD).
	ShapeDirection
	// ShapeOptions: the keyword may be followed by free options (pie showData).
	ShapeOptions
)

// Decl is one known diagram declaration keyword.
type Decl struct {
	Keyword string
	Kind    Kind
	Shape   DeclShape
}

// Decls lists the declaration keywords in match order. Longer keywords that
// share a prefix with shorter ones come first.
var Decls = []Decl{
	{Keyword: "sequenceDiagram", Kind: Sequence},
	{Keyword: "flowchart", Kind: Flowchart, Shape: ShapeDirection},
	{Keyword: "graph", Kind: Flowchart, Shape: ShapeDirection},
	{Keyword: "classDiagram", Kind: Class},
	{Keyword: "stateDiagram-v2", Kind: State},
	{Keyword: "stateDiagram", Kind: State},
	{Keyword: "erDiagram", Kind: ER},
	{Keyword: "journey", Kind: Journey},
	{Keyword: "gantt", Kind: Gantt},
	{Keyword: "pie", Kind: Pie, Shape: ShapeOptions},
	{Keyword: "quadrantChart", Kind: Quadrant},
	{Keyword: "requirementDiagram", Kind: Requirement},
	{Keyword: "gitGraph", Kind: Git},
	{Keyword: "mindmap", Kind: Mindmap},
	{Keyword: "timeline", Kind: Timeline},
	{Keyword: "sankey-beta", Kind: Sankey},
	{Keyword: "xychart-beta", Kind: XYChart},
	{Keyword: "block-beta", Kind: Block},
}

var declByKeyword = func() map[string]Decl {
	m := make(map[string]Decl, len(Decls))
	for _, d := range Decls {
		m[d.Keyword] = d
	}
	return m
}()

// LookupDecl returns the declaration for an exact keyword.
func LookupDecl(word string) (Decl, bool) {
	d, ok := declByKeyword[word]
	return d, ok
}

// reserved holds words that start structural statements and therefore can
// never be read as an unfamiliar diagram keyword.
var reserved = map[string]struct{}{
	"participant": {},
	"actor":       {},
	"critical":    {},
	"alt":         {},
	"loop":        {},
	"par":         {},
	"opt":         {},
	"break":       {},
	"rect":        {},
	"subgraph":    {},
	"state":       {},
	"class":       {},
	"namespace":   {},
	"option":      {},
	"else":        {},
	"end":         {},
	"note":        {},
	"Note":        {},
}

// IsReserved reports whether word is a statement keyword.
func IsReserved(word string) bool {
	_, ok := reserved[word]
	return ok
}
