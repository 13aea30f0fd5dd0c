// Package parser builds the statement stream of a diagram from classified
// lines. It owns every decoding and fallback policy: unfamiliar declarations
// and free-form lines are accepted, while a value outside a closed token
// vocabulary is a hard error.
package parser
