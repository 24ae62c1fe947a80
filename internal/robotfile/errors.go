package robotfile

import (
	"errors"
	"fmt"
	"strings"
)

// contextTokens is how many unconsumed tokens a ParseError carries.
const contextTokens = 5

// Parse failure kinds, matched with errors.Is.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrEmptyBlock      = errors.New("empty block")
	ErrEmptyProgram    = errors.New("empty program")
	ErrBadInteger      = errors.New("integer out of range")
)

// ParseError is returned for any syntax error. Parsing stops at the first one.
type ParseError struct {
	Message string
	Context []string // next unconsumed token literals, at most five
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&sb, "line %d, col %d: ", e.Pos.Line, e.Pos.Column)
	}
	sb.WriteString(e.Message)
	sb.WriteString("\n   @ ...")
	for _, tok := range e.Context {
		sb.WriteByte(' ')
		sb.WriteString(tok)
	}
	sb.WriteString("...")
	return sb.String()
}

func (e *ParseError) Unwrap() error { return e.Cause }
