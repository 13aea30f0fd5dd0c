package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"mmdfmt/internal/diag"
)

const blanks = " \t"

func trimBlanks(s string) string {
	return strings.Trim(s, blanks)
}

// splitWord returns the first blank-delimited word of s (already trimmed)
// and the trimmed remainder.
func splitWord(s string) (word, rest string) {
	i := strings.IndexAny(s, blanks)
	if i < 0 {
		return s, ""
	}
	return s[:i], trimBlanks(s[i:])
}

func isIdentLike(word string) bool {
	if word == "" {
		return false
	}
	for i, r := range word {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// Reject reports a line that is not well-formed text.
type Reject struct {
	// Offset is the byte offset of the offending byte within the line.
	Offset int
	Code   diag.Code
	Reason string
}

func (r *Reject) Error() string {
	return r.Reason
}

// scanLine validates that line is UTF-8 without control characters other than TAB.
func scanLine(line string) *Reject {
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && size <= 1 {
			return &Reject{Offset: i, Code: diag.SynInvalidUTF8, Reason: "invalid UTF-8 sequence"}
		}
		if r != '\t' && unicode.IsControl(r) {
			return &Reject{Offset: i, Code: diag.SynControlChar, Reason: fmt.Sprintf("unexpected control character %U", r)}
		}
		i += size
	}
	return nil
}
