package format

import (
	"fmt"
	"slices"
	"strings"

	"mmdfmt/internal/parser"
)

// RoundTrip is the outcome of formatting a text twice.
type RoundTrip struct {
	Output string
	// ShapeKept: the non-blank statement kinds are the same before and after.
	ShapeKept bool
	// Idempotent: formatting the output again changes nothing.
	Idempotent bool
	// FirstDiffLine is the 1-based line where the second pass first differs,
	// 0 when Idempotent.
	FirstDiffLine int
}

func (r RoundTrip) OK() bool {
	return r.ShapeKept && r.Idempotent
}

// CheckRoundTrip formats text, re-parses the output and formats it again.
// A parse error of the original text is returned as is; a parse error of
// the output is wrapped.
func CheckRoundTrip(name, text string, opt Options) (RoundTrip, error) {
	if err := opt.Validate(); err != nil {
		return RoundTrip{}, err
	}
	first, _, err := parser.ParseString(name, text)
	if err != nil {
		return RoundTrip{}, err
	}
	out := string(Format(first, opt))

	second, _, err := parser.ParseString(name, out)
	if err != nil {
		return RoundTrip{Output: out}, fmt.Errorf("re-parse formatted output: %w", err)
	}
	again := string(Format(second, opt))

	rt := RoundTrip{
		Output:     out,
		ShapeKept:  slices.Equal(first.Kinds(true), second.Kinds(true)),
		Idempotent: again == out,
	}
	if !rt.Idempotent {
		rt.FirstDiffLine = firstDiffLine(out, again)
	}
	return rt, nil
}

func firstDiffLine(a, b string) int {
	la := strings.Split(a, "\n")
	lb := strings.Split(b, "\n")
	for i := 0; i < len(la) && i < len(lb); i++ {
		if la[i] != lb[i] {
			return i + 1
		}
	}
	return min(len(la), len(lb)) + 1
}
