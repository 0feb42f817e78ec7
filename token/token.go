// Package token defines the lexical tokens of the selector language.
package token

import "fmt"

// Kind classifies a token.
type Kind int

const (
	// EOF marks the end of the token stream. The lexer never emits it;
	// the parser synthesizes it once the tokens are exhausted.
	EOF Kind = iota
	OR
	AND
	INTERSECT
	PIPELINE
	PATH_SEP
	ABBREV_PATH_SEP
	SELF
	PARENT
	AXIS_SEP
	ATTR_AXIS
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	UNION
	EQUALS
	REL_OP
	PLUS
	MINUS
	STAR
	COMMA
	COLON
	DOLLAR
	TRUE
	FALSE
	FUNCTION_NAME
	STRING_LITERAL
	FLOAT
	INTEGER
	NODE_TYPE
	NAME
	AXIS_NAME
)

var kindNames = [...]string{
	EOF:             "EOF",
	OR:              "OR",
	AND:             "AND",
	INTERSECT:       "INTERSECT",
	PIPELINE:        "PIPELINE",
	PATH_SEP:        "PATH_SEP",
	ABBREV_PATH_SEP: "ABBREV_PATH_SEP",
	SELF:            "SELF",
	PARENT:          "PARENT",
	AXIS_SEP:        "AXIS_SEP",
	ATTR_AXIS:       "ATTR_AXIS",
	LPAREN:          "LPAREN",
	RPAREN:          "RPAREN",
	LBRACKET:        "LBRACKET",
	RBRACKET:        "RBRACKET",
	UNION:           "UNION",
	EQUALS:          "EQUALS",
	REL_OP:          "REL_OP",
	PLUS:            "PLUS",
	MINUS:           "MINUS",
	STAR:            "STAR",
	COMMA:           "COMMA",
	COLON:           "COLON",
	DOLLAR:          "DOLLAR",
	TRUE:            "TRUE",
	FALSE:           "FALSE",
	FUNCTION_NAME:   "FUNCTION_NAME",
	STRING_LITERAL:  "STRING_LITERAL",
	FLOAT:           "FLOAT",
	INTEGER:         "INTEGER",
	NODE_TYPE:       "NODE_TYPE",
	NAME:            "NAME",
	AXIS_NAME:       "AXIS_NAME",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RelOp is the sub-kind carried by REL_OP tokens.
type RelOp int

const (
	RelNone RelOp = iota
	Less
	LessEqual
	Greater
	GreaterEqual
	NotEqual
)

var relOpSymbols = [...]string{
	RelNone:      "",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	NotEqual:     "!=",
}

// String returns the operator as written in selector text.
func (r RelOp) String() string {
	if r >= 0 && int(r) < len(relOpSymbols) {
		return relOpSymbols[r]
	}
	return fmt.Sprintf("RelOp(%d)", int(r))
}

// Token is a single lexeme of selector text.
type Token struct {
	Kind Kind
	// Lexeme is the source text of the token. For STRING_LITERAL it is the
	// content between the quotes.
	Lexeme string
	// Offset is the byte offset of the token in the source.
	Offset int
	// Rel is set for REL_OP tokens only.
	Rel RelOp
}

// End returns the offset just past the token in the source.
func (t Token) End() int {
	if t.Kind == STRING_LITERAL {
		return t.Offset + len(t.Lexeme) + 2
	}
	return t.Offset + len(t.Lexeme)
}

// Describe renders the token for diagnostics, e.g. `NAME "foo"`.
func (t Token) Describe() string {
	if t.Kind == EOF {
		return "end of input"
	}
	if t.Lexeme == "" && t.Kind != STRING_LITERAL {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}
