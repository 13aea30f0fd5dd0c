package dialect

import "fmt"

// Kind identifies a diagram family.
type Kind uint8

const (
	Unknown Kind = iota
	Sequence
	Flowchart
	Class
	State
	ER
	Journey
	Gantt
	Pie
	Quadrant
	Requirement
	Git
	Mindmap
	Timeline
	Sankey
	XYChart
	Block

	kindCount
)

var kindNames = [kindCount]string{
	Unknown:     "unknown",
	Sequence:    "sequence",
	Flowchart:   "flowchart",
	Class:       "class",
	State:       "state",
	ER:          "er",
	Journey:     "journey",
	Gantt:       "gantt",
	Pie:         "pie",
	Quadrant:    "quadrant",
	Requirement: "requirement",
	Git:         "git",
	Mindmap:     "mindmap",
	Timeline:    "timeline",
	Sankey:      "sankey",
	XYChart:     "xychart",
	Block:       "block",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Feature is a set of line productions gated by dialect.
type Feature uint8

const (
	// FeatParticipants admits participant/actor declarations.
	FeatParticipants Feature = 1 << iota
	// FeatSequenceBlocks admits critical/alt/loop/par/opt/break/rect.
	FeatSequenceBlocks
	// FeatBlockBranches admits option/else.
	FeatBlockBranches
	// FeatSubgraphs admits subgraph blocks.
	FeatSubgraphs
	// FeatNotes admits note lines.
	FeatNotes
	// FeatBraceBlocks admits state/class/namespace NAME { blocks.
	FeatBraceBlocks

	featAll = FeatParticipants | FeatSequenceBlocks | FeatBlockBranches |
		FeatSubgraphs | FeatNotes | FeatBraceBlocks
)

var kindFeatures = [kindCount]Feature{
	Unknown:   featAll,
	Sequence:  FeatParticipants | FeatSequenceBlocks | FeatBlockBranches | FeatNotes | FeatBraceBlocks,
	Flowchart: FeatSubgraphs | FeatBraceBlocks,
	Class:     FeatNotes | FeatBraceBlocks,
	State:     FeatNotes | FeatBraceBlocks,
}

// Allows reports whether lines of the given feature are recognized in k.
// Families without an explicit entry only get brace blocks.
func (k Kind) Allows(f Feature) bool {
	if k >= kindCount {
		return false
	}
	set := kindFeatures[k]
	if set == 0 {
		set = FeatBraceBlocks
	}
	return set&f == f
}
