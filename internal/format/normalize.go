package format

import "strings"

var bracketPairs = [...][2]byte{{'[', ']'}, {'(', ')'}, {'{', '}'}}

// Normalize cleans up free-form line text. Every step is idempotent and so
// is their composition.
func Normalize(s string) string {
	s = collapseSpaces(s)
	s = collapseAfterColon(s)
	for _, pair := range bracketPairs {
		s = trimBracketInteriors(s, pair[0], pair[1])
	}
	return trimPipeLabels(s)
}

func collapseSpaces(s string) string {
	if !strings.Contains(s, "  ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' && prevSpace {
			continue
		}
		prevSpace = c == ' '
		b.WriteByte(c)
	}
	return b.String()
}

func collapseAfterColon(s string) string {
	for {
		i := strings.Index(s, ":  ")
		if i < 0 {
			return s
		}
		j := i + 2
		for j < len(s) && s[j] == ' ' {
			j++
		}
		s = s[:i+2] + s[j:]
	}
}

// trimBracketInteriors trims the text between an opener that is directly
// followed by a space and its matching closer. An opener not followed by a
// space is left alone, which keeps ER relations such as `||--o{` intact.
func trimBracketInteriors(s string, open, close byte) string {
	for i := 0; i < len(s); i++ {
		if s[i] != open || i+1 >= len(s) || s[i+1] != ' ' {
			continue
		}
		j := matchingCloser(s, i, open, close)
		if j < 0 {
			continue
		}
		inner := strings.Trim(s[i+1:j], " \t")
		s = s[:i+1] + inner + s[j:]
	}
	return s
}

func matchingCloser(s string, at int, open, close byte) int {
	depth := 0
	for j := at + 1; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case close:
			if depth == 0 {
				return j
			}
			depth--
		}
	}
	return -1
}

// trimPipeLabels pairs pipes left to right and trims a label whose opening
// pipe is followed by a space. Text after the closing pipe is untouched.
func trimPipeLabels(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '|' {
			continue
		}
		j := strings.IndexByte(s[i+1:], '|')
		if j < 0 {
			return s
		}
		j += i + 1
		if s[i+1] == ' ' {
			inner := strings.Trim(s[i+1:j], " \t")
			s = s[:i+1] + inner + s[j:]
			j = i + 1 + len(inner)
		}
		i = j
	}
	return s
}
