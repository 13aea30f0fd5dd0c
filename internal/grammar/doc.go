// Package grammar classifies diagram source lines.
//
// The grammar is an ordered table of productions. Each production names the
// Rule it yields, the dialect features it needs and a matcher that extracts
// named captures from the line. The first admitted production that accepts a
// line wins and generic_line accepts every well-formed line, so
// classification is total. Only lines that are not well-formed text (invalid
// UTF-8 or control characters other than TAB) are rejected.
package grammar
