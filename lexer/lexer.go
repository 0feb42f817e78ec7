// Package lexer converts selector text into tokens.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kodexa-ai/selector/token"
)

// Tokenize scans src left to right with maximal munch and returns its tokens,
// whitespace excluded. The first text that matches no token rule, including
// ill-formed UTF-8, is reported as an *Error.
func Tokenize(src string) ([]token.Token, error) {
	s := scanner{
		src:    src,
		tokens: make([]token.Token, 0, len(src)/2),
	}

	for {
		s.pos = skipSpace(src, s.pos)
		if s.pos >= len(src) {
			return s.tokens, nil
		}

		r, size := utf8.DecodeRuneInString(src[s.pos:])
		if r == utf8.RuneError && size <= 1 {
			return nil, lexError(s.pos, "invalid UTF-8 encoding")
		}

		var err error
		switch {
		case isNameStart(r):
			s.lexName()
		case isDigit(src[s.pos]):
			err = s.lexNumber()
		case r == '"' || r == '\'':
			err = s.lexString()
		default:
			err = s.lexSymbol(r)
		}
		if err != nil {
			return nil, err
		}
	}
}

type scanner struct {
	src    string
	pos    int
	tokens []token.Token
}

func (s *scanner) emit(kind token.Kind, lexeme string, offset int) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: lexeme, Offset: offset})
}

// lexName classifies an identifier by looking past any whitespace that
// follows it: "(" makes it a function or node-type name and "::" an axis.
func (s *scanner) lexName() {
	start := s.pos
	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isNamePart(r) {
			break
		}
		s.pos += size
	}

	ident := s.src[start:s.pos]
	if kind, ok := token.Keyword(ident); ok {
		s.emit(kind, ident, start)
		return
	}

	rest := s.src[skipSpace(s.src, s.pos):]
	switch {
	case strings.HasPrefix(rest, "("):
		if token.IsNodeType(ident) {
			s.emit(token.NODE_TYPE, ident, start)
		} else {
			s.emit(token.FUNCTION_NAME, ident, start)
		}
	case strings.HasPrefix(rest, "::") && token.IsAxisName(ident):
		s.emit(token.AXIS_NAME, ident, start)
	default:
		s.emit(token.NAME, ident, start)
	}
}

func (s *scanner) lexNumber() error {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}

	// A '.' only belongs to the number when digits follow it; "1." is an
	// integer followed by the self step.
	if s.pos+1 < len(s.src) && s.src[s.pos] == '.' && isDigit(s.src[s.pos+1]) {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
		literal := s.src[start:s.pos]
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			return lexError(start, "float literal %q out of range", literal)
		}
		s.emit(token.FLOAT, literal, start)
		return nil
	}

	literal := s.src[start:s.pos]
	if _, err := strconv.ParseInt(literal, 10, 64); err != nil {
		return lexError(start, "integer literal %q out of range", literal)
	}
	s.emit(token.INTEGER, literal, start)
	return nil
}

// lexString reads a quoted literal verbatim. There are no escape sequences:
// a literal cannot contain its own delimiter, and backslashes (common in
// regular expression arguments) are kept as written.
func (s *scanner) lexString() error {
	start := s.pos
	quote := s.src[start]

	end := strings.IndexByte(s.src[start+1:], quote)
	if end < 0 {
		return lexError(start, "unterminated string literal")
	}

	content := s.src[start+1 : start+1+end]
	if bad := invalidUTF8(content); bad >= 0 {
		return lexError(start+1+bad, "invalid UTF-8 encoding")
	}

	s.emit(token.STRING_LITERAL, content, start)
	s.pos = start + end + 2
	return nil
}

func (s *scanner) lexSymbol(r rune) error {
	start := s.pos
	next := byte(0)
	if start+1 < len(s.src) {
		next = s.src[start+1]
	}

	one := func(kind token.Kind) {
		s.emit(kind, s.src[start:start+1], start)
		s.pos++
	}
	two := func(kind token.Kind) {
		s.emit(kind, s.src[start:start+2], start)
		s.pos += 2
	}
	rel := func(op token.RelOp, width int) {
		s.tokens = append(s.tokens, token.Token{
			Kind:   token.REL_OP,
			Lexeme: s.src[start : start+width],
			Offset: start,
			Rel:    op,
		})
		s.pos += width
	}

	switch r {
	case '/':
		if next == '/' {
			two(token.ABBREV_PATH_SEP)
		} else {
			one(token.PATH_SEP)
		}
	case '.':
		if next == '.' {
			two(token.PARENT)
		} else {
			one(token.SELF)
		}
	case ':':
		if next == ':' {
			two(token.AXIS_SEP)
		} else {
			one(token.COLON)
		}
	case '@':
		one(token.ATTR_AXIS)
	case '(':
		one(token.LPAREN)
	case ')':
		one(token.RPAREN)
	case '[':
		one(token.LBRACKET)
	case ']':
		one(token.RBRACKET)
	case '|':
		one(token.UNION)
	case '=':
		one(token.EQUALS)
	case '+':
		one(token.PLUS)
	case '-':
		one(token.MINUS)
	case '*':
		one(token.STAR)
	case ',':
		one(token.COMMA)
	case '$':
		one(token.DOLLAR)
	case '!':
		if next != '=' {
			return lexError(start, "unexpected character '!' (did you mean '!='?)")
		}
		rel(token.NotEqual, 2)
	case '<':
		if next == '=' {
			rel(token.LessEqual, 2)
		} else {
			rel(token.Less, 1)
		}
	case '>':
		if next == '=' {
			rel(token.GreaterEqual, 2)
		} else {
			rel(token.Greater, 1)
		}
	default:
		return lexError(start, "unexpected character %q", r)
	}

	return nil
}

func skipSpace(src string, pos int) int {
	for pos < len(src) {
		switch src[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// invalidUTF8 returns the offset of the first ill-formed byte in s, or -1.
func invalidUTF8(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
