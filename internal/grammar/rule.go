package grammar

type Rule uint8

const (
	RuleBlank Rule = iota
	RuleDirective
	RuleComment
	RuleDiagramDecl
	RuleParticipant
	RuleBlockStart
	RuleBraceBlockStart
	RuleBlockOption
	RuleBlockElse
	RuleBlockEnd
	RuleBraceBlockEnd
	RuleNote
	RuleGenericLine
)

var ruleNames = [...]string{
	RuleBlank:           "blank",
	RuleDirective:       "directive",
	RuleComment:         "comment",
	RuleDiagramDecl:     "diagram_decl",
	RuleParticipant:     "participant_decl",
	RuleBlockStart:      "block_start",
	RuleBraceBlockStart: "brace_block_start",
	RuleBlockOption:     "block_option",
	RuleBlockElse:       "block_else",
	RuleBlockEnd:        "block_end",
	RuleBraceBlockEnd:   "brace_block_end",
	RuleNote:            "note",
	RuleGenericLine:     "generic_line",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return "invalid"
}

// Capture names a sub-field extracted by a production.
type Capture uint8

const (
	CapKeyword Capture = iota
	CapName
	CapLabel
	CapPosition
	CapBody

	capCount
)

var captureNames = [capCount]string{
	CapKeyword:  "keyword",
	CapName:     "name",
	CapLabel:    "label",
	CapPosition: "position",
	CapBody:     "body",
}

func (c Capture) String() string {
	if c < capCount {
		return captureNames[c]
	}
	return "invalid"
}

// Captures holds the named sub-fields a production fired.
type Captures struct {
	vals [capCount]string
	set  uint8
}

func (c *Captures) Set(name Capture, v string) {
	c.vals[name] = v
	c.set |= 1 << name
}

// Get returns the capture and whether it fired.
func (c Captures) Get(name Capture) (string, bool) {
	if c.set&(1<<name) == 0 {
		return "", false
	}
	return c.vals[name], true
}

// Match is the classification of one line.
type Match struct {
	Rule Rule
	// Text is the line with surrounding spaces and tabs removed.
	Text string
	Caps Captures
}
