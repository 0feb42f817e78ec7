package parser

import (
	"errors"
	"fmt"

	"github.com/kodexa-ai/selector/token"
)

// ErrSyntax indicates tokens that match no grammar alternative, or tokens
// left over after a complete expression.
var ErrSyntax = errors.New("selector: syntax error")

// Error describes the first token the parser could not accept.
type Error struct {
	Offset   int
	Expected string
	Found    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at offset %d: expected %s, found %s", ErrSyntax, e.Offset, e.Expected, e.Found)
}

func (e *Error) Unwrap() error {
	return ErrSyntax
}

func unexpected(tok token.Token, expected string) error {
	return &Error{Offset: tok.Offset, Expected: expected, Found: tok.Describe()}
}
