package grammar

import (
	"strings"

	"mmdfmt/internal/dialect"
)

// Production is one entry of the grammar table.
type Production struct {
	Rule Rule
	// Gate lists the dialect features the production needs; 0 means always.
	Gate dialect.Feature
	// DeclOnly restricts the production to lines before the first declaration.
	DeclOnly bool
	// Match receives the trimmed line and fills captures on success.
	Match func(text string, caps *Captures) bool
}

var sequenceBlocks = []string{"critical", "alt", "loop", "par", "opt", "break", "rect"}

// Productions is the grammar in priority order.
var Productions = []Production{
	{Rule: RuleBlank, Match: matchBlank},
	{Rule: RuleDirective, Match: matchDirective},
	{Rule: RuleComment, Match: matchComment},
	{Rule: RuleDiagramDecl, DeclOnly: true, Match: matchDiagramDecl},
	{Rule: RuleParticipant, Gate: dialect.FeatParticipants, Match: matchParticipant},
	{Rule: RuleBlockStart, Gate: dialect.FeatSequenceBlocks, Match: matchLabeled(sequenceBlocks...)},
	{Rule: RuleBlockStart, Gate: dialect.FeatSubgraphs, Match: matchLabeled("subgraph")},
	{Rule: RuleBraceBlockStart, Gate: dialect.FeatBraceBlocks, Match: matchBraceBlockStart},
	{Rule: RuleBlockOption, Gate: dialect.FeatBlockBranches, Match: matchLabeled("option")},
	{Rule: RuleBlockElse, Gate: dialect.FeatBlockBranches, Match: matchLabeled("else")},
	{Rule: RuleBlockEnd, Match: matchExact("end")},
	{Rule: RuleBraceBlockEnd, Match: matchExact("}")},
	{Rule: RuleNote, Gate: dialect.FeatNotes, Match: matchNote},
	{Rule: RuleGenericLine, Match: matchAny},
}

func matchBlank(text string, _ *Captures) bool {
	return text == ""
}

func matchDirective(text string, caps *Captures) bool {
	if len(text) < len("%%{}%%") || !strings.HasPrefix(text, "%%{") || !strings.HasSuffix(text, "}%%") {
		return false
	}
	caps.Set(CapBody, text)
	return true
}

func matchComment(text string, caps *Captures) bool {
	body, ok := strings.CutPrefix(text, "%%")
	if !ok {
		return false
	}
	caps.Set(CapBody, body)
	return true
}

func matchDiagramDecl(text string, caps *Captures) bool {
	word, rest := splitWord(text)
	if decl, ok := dialect.LookupDecl(word); ok {
		if decl.Shape == dialect.ShapeExact && rest != "" {
			return false
		}
		caps.Set(CapKeyword, word)
		if rest != "" {
			caps.Set(CapBody, rest)
		}
		return true
	}
	// A lone unfamiliar word is still a declaration; the builder decodes it
	// to the flowchart fallback.
	if rest != "" || !isIdentLike(word) || dialect.IsReserved(word) {
		return false
	}
	caps.Set(CapKeyword, word)
	return true
}

func matchParticipant(text string, caps *Captures) bool {
	word, rest := splitWord(text)
	if (word != "participant" && word != "actor") || rest == "" {
		return false
	}
	caps.Set(CapKeyword, word)
	caps.Set(CapBody, rest)
	return true
}

// matchLabeled accepts one of keywords, alone or followed by blanks and a label.
func matchLabeled(keywords ...string) func(string, *Captures) bool {
	return func(text string, caps *Captures) bool {
		word, rest := splitWord(text)
		for _, kw := range keywords {
			if word != kw {
				continue
			}
			caps.Set(CapKeyword, kw)
			if rest != "" {
				caps.Set(CapLabel, rest)
			}
			return true
		}
		return false
	}
}

func matchBraceBlockStart(text string, caps *Captures) bool {
	word, rest := splitWord(text)
	switch word {
	case "state", "class", "namespace":
	default:
		return false
	}
	head, ok := strings.CutSuffix(rest, "{")
	if !ok {
		return false
	}
	name := trimBlanks(head)
	if name == "" {
		return false
	}
	caps.Set(CapKeyword, word)
	caps.Set(CapName, name)
	return true
}

func matchExact(want string) func(string, *Captures) bool {
	return func(text string, _ *Captures) bool {
		return text == want
	}
}

func matchNote(text string, caps *Captures) bool {
	word, rest := splitWord(text)
	if (word != "note" && word != "Note") || rest == "" {
		return false
	}
	caps.Set(CapKeyword, word)
	caps.Set(CapBody, rest)
	first, tail := splitWord(rest)
	switch first {
	case "over", "for":
		caps.Set(CapPosition, first)
	case "left", "right":
		if next, _ := splitWord(tail); next == "of" {
			caps.Set(CapPosition, first+" of")
		} else {
			caps.Set(CapPosition, first)
		}
	}
	return true
}

func matchAny(string, *Captures) bool {
	return true
}
