// Package diag renders selector lex and parse errors against their source.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/kodexa-ai/selector/lexer"
	"github.com/kodexa-ai/selector/parser"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	caretMark    = color.New(color.FgRed, color.Bold).SprintFunc()
	locationText = color.New(color.FgCyan).SprintfFunc()
)

// Diagnostic locates an error in selector text. Line and Column are 1-based;
// Column counts runes.
type Diagnostic struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

// FromError extracts the location of a lexer or parser error. It reports
// false for any other error.
func FromError(src string, err error) (Diagnostic, bool) {
	var d Diagnostic

	var lexErr *lexer.Error
	var parseErr *parser.Error
	switch {
	case errors.As(err, &lexErr):
		d.Offset = lexErr.Offset
		d.Message = lexErr.Reason
	case errors.As(err, &parseErr):
		d.Offset = parseErr.Offset
		d.Message = fmt.Sprintf("expected %s, found %s", parseErr.Expected, parseErr.Found)
	default:
		return Diagnostic{}, false
	}

	d.Line, d.Column = Position(src, d.Offset)
	return d, true
}

// Position converts a byte offset into a 1-based line and rune column.
// Offsets past the end of src are clamped to the end.
func Position(src string, offset int) (line, column int) {
	offset = min(max(offset, 0), len(src))

	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	column = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, column
}

// Render writes err as a diagnostic with the offending source line and a
// caret under the error position. Errors without a location are written as
// a single line.
func Render(w io.Writer, src string, err error) error {
	d, ok := FromError(src, err)
	if !ok {
		_, werr := fmt.Fprintf(w, "%s %v\n", errorLabel("error:"), err)
		return werr
	}

	lineText, pad := excerpt(src, d.Offset)
	_, werr := fmt.Fprintf(w, "%s %s %s\n  %s\n  %s%s\n",
		errorLabel("error:"),
		d.Message,
		locationText("(line %d, column %d)", d.Line, d.Column),
		lineText,
		pad,
		caretMark("^"),
	)
	return werr
}

// excerpt returns the source line containing offset and the padding that
// puts a caret under it. Tabs are preserved so the caret stays aligned.
func excerpt(src string, offset int) (string, string) {
	offset = min(max(offset, 0), len(src))

	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	lineEnd := strings.IndexByte(src[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += offset
	}

	var pad strings.Builder
	for _, r := range src[lineStart:offset] {
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return strings.TrimRight(src[lineStart:lineEnd], "\r"), pad.String()
}

var (
	passWord = color.New(color.FgGreen, color.Bold).SprintFunc()
	failWord = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Status returns a coloured PASS or FAIL marker.
func Status(passed bool) string {
	if passed {
		return passWord("PASS")
	}
	return failWord("FAIL")
}
