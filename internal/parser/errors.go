package parser

import (
	"errors"
	"fmt"

	"mmdfmt/internal/diag"
	"mmdfmt/internal/source"
)

// ErrorKind separates lines the grammar rejects from lines whose closed
// vocabulary fields fail to decode.
type ErrorKind uint8

const (
	KindGrammar ErrorKind = iota
	KindSemanticDecode
)

func (k ErrorKind) String() string {
	if k == KindSemanticDecode {
		return "semantic decode error"
	}
	return "grammar error"
}

var (
	ErrGrammar        = errors.New("grammar error")
	ErrSemanticDecode = errors.New("semantic decode error")
)

// Error is a fatal parse failure with its source location.
type Error struct {
	Kind ErrorKind
	Code diag.Code
	Path string
	Pos  source.LineCol
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Msg)
}

// Is makes errors.Is(err, ErrGrammar) and errors.Is(err, ErrSemanticDecode) work.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrGrammar:
		return e.Kind == KindGrammar
	case ErrSemanticDecode:
		return e.Kind == KindSemanticDecode
	}
	return false
}

// Diagnostic converts the error into a diagnostic for rendering.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.New(diag.SevError, e.Code, e.Span, e.Msg)
}
