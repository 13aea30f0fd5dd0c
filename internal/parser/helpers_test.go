package parser

import "mmdfmt/internal/grammar"

// grammarMatch builds a block match whose label capture did not fire.
func grammarMatch(text string) grammar.Match {
	return grammar.Match{Rule: grammar.RuleBlockStart, Text: text}
}
