package ast

type StmtKind uint8

const (
	StmtDiagramDecl StmtKind = iota
	StmtDirective
	StmtParticipant
	StmtBlockStart
	StmtBraceBlockStart
	StmtBlockOption
	StmtBlockElse
	StmtBlockEnd
	StmtBraceBlockEnd
	StmtNote
	StmtComment
	StmtGenericLine
	StmtBlank
)

var stmtKindNames = [...]string{
	StmtDiagramDecl:     "DiagramDecl",
	StmtDirective:       "Directive",
	StmtParticipant:     "Participant",
	StmtBlockStart:      "BlockStart",
	StmtBraceBlockStart: "BraceBlockStart",
	StmtBlockOption:     "BlockOption",
	StmtBlockElse:       "BlockElse",
	StmtBlockEnd:        "BlockEnd",
	StmtBraceBlockEnd:   "BraceBlockEnd",
	StmtNote:            "Note",
	StmtComment:         "Comment",
	StmtGenericLine:     "GenericLine",
	StmtBlank:           "BlankLine",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Invalid"
}

// ParticipantKeyword is the keyword a participant line was declared with.
type ParticipantKeyword uint8

const (
	KwParticipant ParticipantKeyword = iota
	KwActor
)

func (k ParticipantKeyword) String() string {
	if k == KwActor {
		return "actor"
	}
	return "participant"
}

// BlockKind is the keyword of an end-closed block.
type BlockKind uint8

const (
	BlockCritical BlockKind = iota
	BlockAlt
	BlockLoop
	BlockPar
	BlockOpt
	BlockBreak
	BlockRect
	BlockSubgraph
)

var blockKeywords = [...]string{
	BlockCritical: "critical",
	BlockAlt:      "alt",
	BlockLoop:     "loop",
	BlockPar:      "par",
	BlockOpt:      "opt",
	BlockBreak:    "break",
	BlockRect:     "rect",
	BlockSubgraph: "subgraph",
}

func (k BlockKind) String() string {
	if int(k) < len(blockKeywords) {
		return blockKeywords[k]
	}
	return "invalid"
}

// LookupBlockKind maps a keyword to its block kind.
func LookupBlockKind(word string) (BlockKind, bool) {
	for i, kw := range blockKeywords {
		if kw == word {
			return BlockKind(i), true
		}
	}
	return 0, false
}

// BraceKind is the keyword of a brace-delimited block.
type BraceKind uint8

const (
	BraceState BraceKind = iota
	BraceClass
	BraceNamespace
)

var braceKeywords = [...]string{
	BraceState:     "state",
	BraceClass:     "class",
	BraceNamespace: "namespace",
}

func (k BraceKind) String() string {
	if int(k) < len(braceKeywords) {
		return braceKeywords[k]
	}
	return "invalid"
}

func LookupBraceKind(word string) (BraceKind, bool) {
	for i, kw := range braceKeywords {
		if kw == word {
			return BraceKind(i), true
		}
	}
	return 0, false
}

// NotePosition is the placement of a note; NoPosition for bare notes.
type NotePosition uint8

const (
	NoPosition NotePosition = iota
	PosLeftOf
	PosRightOf
	PosOver
	PosFor
)

var notePositions = [...]string{
	NoPosition: "",
	PosLeftOf:  "left of",
	PosRightOf: "right of",
	PosOver:    "over",
	PosFor:     "for",
}

func (p NotePosition) String() string {
	if int(p) < len(notePositions) {
		return notePositions[p]
	}
	return "invalid"
}

// LookupNotePosition matches token against the closed position vocabulary
// by exact string equality.
func LookupNotePosition(token string) (NotePosition, bool) {
	if token == "" {
		return NoPosition, false
	}
	for i, s := range notePositions {
		if s == token {
			return NotePosition(i), true
		}
	}
	return NoPosition, false
}
