package lexer

import (
	"errors"
	"fmt"
)

// ErrLex indicates selector text that matches no token rule.
var ErrLex = errors.New("selector: lexical error")

// Error reports the first offset at which no token rule matched.
type Error struct {
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", ErrLex, e.Offset, e.Reason)
}

func (e *Error) Unwrap() error {
	return ErrLex
}

func lexError(offset int, format string, args ...any) error {
	return &Error{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
