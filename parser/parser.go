// Package parser turns selector tokens into an AST.
//
// The grammar is parsed by recursive descent. Primary expressions are chosen
// with at most two tokens of lookahead and never backtracked; binary
// operators are parsed by precedence climbing.
package parser

import (
	"fmt"
	"strconv"

	"github.com/kodexa-ai/selector/ast"
	"github.com/kodexa-ai/selector/lexer"
	"github.com/kodexa-ai/selector/token"
)

// MaxDepth bounds the nesting of groups, predicates, arguments and unary
// minus. Deeper input is rejected with an *Error instead of exhausting the
// stack.
const MaxDepth = 256

// ParseString tokenizes and parses src.
func ParseString(src string) (ast.Expr, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse parses exactly one expression and requires every token to be
// consumed. The first error aborts the parse; no partial tree is returned.
func Parse(tokens []token.Token) (ast.Expr, error) {
	p := parserState{tokens: tokens}

	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Kind != token.EOF {
		return nil, unexpected(tok, "end of input")
	}

	return root, nil
}

type parserState struct {
	tokens []token.Token
	pos    int
	depth  int
}

// Binding strength of the binary operators, loosest first. The ordering
// is part of the language: or binds tighter than and, and both bind tighter
// than comparison and arithmetic.
const (
	precPipeline = iota + 1
	precIntersect
	precUnion
	precSubtract
	precAdd
	precRelational
	precEquals
	precAnd
	precOr
)

func binaryOperator(kind token.Kind) (ast.OpKind, int, bool) {
	switch kind {
	case token.PIPELINE:
		return ast.Pipeline, precPipeline, true
	case token.INTERSECT:
		return ast.Intersect, precIntersect, true
	case token.UNION:
		return ast.Union, precUnion, true
	case token.MINUS:
		return ast.Subtract, precSubtract, true
	case token.PLUS:
		return ast.Add, precAdd, true
	case token.REL_OP:
		return ast.Relational, precRelational, true
	case token.EQUALS:
		return ast.Equals, precEquals, true
	case token.AND:
		return ast.And, precAnd, true
	case token.OR:
		return ast.Or, precOr, true
	}
	return 0, 0, false
}

func (p *parserState) parseExpression() (ast.Expr, error) {
	return p.parseBinary(precPipeline)
}

// parseBinary consumes operators whose precedence is at least floor; the
// right operand is parsed with a higher floor, which makes every operator
// left-associative.
func (p *parserState) parseBinary(floor int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		op, prec, ok := binaryOperator(tok.Kind)
		if !ok || prec < floor {
			return left, nil
		}
		p.advance()

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Rel: tok.Rel, LHS: left, RHS: right}
	}
}

func (p *parserState) parseUnary() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.current().Kind == token.MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryMinus{Operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parserState) parsePrimary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.PATH_SEP:
		p.advance()
		if !token.StartsStep(p.current().Kind) {
			return &ast.AbsolutePath{}, nil
		}
		rest, err := p.parseRelativePath()
		if err != nil {
			return nil, err
		}
		return &ast.AbsolutePath{Rest: rest}, nil
	case token.ABBREV_PATH_SEP:
		p.advance()
		path, err := p.parseRelativePath()
		if err != nil {
			return nil, err
		}
		return &ast.AbbreviatedAbsolutePath{Path: path}, nil
	}

	if token.StartsStep(tok.Kind) {
		return p.parseRelativePath()
	}

	return p.parseFilterExpression()
}

// parseFilterExpression parses a filter primary with optional predicates,
// optionally continued by a separator and further steps.
func (p *parserState) parseFilterExpression() (ast.Expr, error) {
	primary, err := p.parseFilterPrimary()
	if err != nil {
		return nil, err
	}

	predicates, err := p.parsePredicates()
	if err != nil {
		return nil, err
	}

	expr := primary
	if len(predicates) > 0 {
		expr = &ast.Filter{Primary: primary, Predicates: predicates}
	}

	sep, ok := separator(p.current().Kind)
	if !ok {
		return expr, nil
	}
	p.advance()

	path, err := p.parseRelativePath()
	if err != nil {
		return nil, err
	}
	return &ast.FilterWithPath{Filter: expr, Sep: sep, Path: path}, nil
}

func (p *parserState) parseFilterPrimary() (ast.Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case token.STRING_LITERAL:
		p.advance()
		return &ast.Literal{Value: tok.Lexeme}, nil
	case token.INTEGER:
		p.advance()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, unexpected(tok, "integer in range")
		}
		return &ast.Number{Int: value}, nil
	case token.FLOAT:
		p.advance()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, unexpected(tok, "float in range")
		}
		return &ast.Number{Float: value, IsFloat: true}, nil
	case token.TRUE, token.FALSE:
		p.advance()
		if p.current().Kind == token.LPAREN {
			return p.parseBuiltinCall(tok)
		}
		return &ast.Boolean{Value: tok.Kind == token.TRUE}, nil
	case token.DOLLAR:
		p.advance()
		name, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		return &ast.VariableRef{Name: name}, nil
	case token.FUNCTION_NAME:
		return p.parseFunctionCall()
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, unexpected(tok, "expression")
}

// parseBuiltinCall parses the argument list of true() or false(), which
// take no arguments.
func (p *parserState) parseBuiltinCall(name token.Token) (ast.Expr, error) {
	p.advance() // (
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	builtin := ast.BuiltinTrue
	if name.Kind == token.FALSE {
		builtin = ast.BuiltinFalse
	}
	return &ast.FunctionCall{Name: ast.FunctionName{Builtin: builtin}}, nil
}

func (p *parserState) parseFunctionCall() (ast.Expr, error) {
	name := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	call := &ast.FunctionCall{Name: ast.FunctionName{Ident: name.Lexeme}}
	if p.current().Kind == token.RPAREN {
		p.advance()
		return call, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)

		if p.current().Kind != token.COMMA {
			break
		}
		p.advance()
	}

	if _, err := p.expect(token.RPAREN, "',' or ')'"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parserState) parseRelativePath() (*ast.RelativePath, error) {
	step, err := p.parseStep()
	if err != nil {
		return nil, err
	}

	path := &ast.RelativePath{Steps: []ast.PathStep{{Sep: ast.SepNone, Step: step}}}
	for {
		sep, ok := separator(p.current().Kind)
		if !ok {
			return path, nil
		}
		p.advance()

		step, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		path.Steps = append(path.Steps, ast.PathStep{Sep: sep, Step: step})
	}
}

func (p *parserState) parseStep() (*ast.Step, error) {
	tok := p.current()

	var axis *ast.AxisSpecifier
	switch tok.Kind {
	case token.SELF:
		p.advance()
		return &ast.Step{Test: &ast.AbbreviatedTest{Kind: ast.SelfStep}}, nil
	case token.PARENT:
		p.advance()
		return &ast.Step{Test: &ast.AbbreviatedTest{Kind: ast.ParentStep}}, nil
	case token.AXIS_NAME:
		p.advance()
		if _, err := p.expect(token.AXIS_SEP, "'::'"); err != nil {
			return nil, err
		}
		axis = &ast.AxisSpecifier{Name: tok.Lexeme}
	case token.ATTR_AXIS:
		p.advance()
		axis = &ast.AxisSpecifier{Name: "attribute", Abbreviated: true}
	}

	test, err := p.parseNodeTest()
	if err != nil {
		return nil, err
	}

	predicates, err := p.parsePredicates()
	if err != nil {
		return nil, err
	}

	return &ast.Step{Axis: axis, Test: test, Predicates: predicates}, nil
}

func (p *parserState) parseNodeTest() (ast.NodeTest, error) {
	tok := p.current()
	switch tok.Kind {
	case token.STAR:
		p.advance()
		return &ast.NameTest{Kind: ast.AnyName}, nil
	case token.NAME:
		if p.peek(1).Kind == token.COLON && p.peek(2).Kind == token.STAR {
			p.advance()
			p.advance()
			p.advance()
			return &ast.NameTest{Kind: ast.PrefixedAny, Prefix: tok.Lexeme}, nil
		}
		name, err := p.parseQName()
		if err != nil {
			return nil, err
		}
		return &ast.NameTest{Kind: ast.QualifiedName, Name: name}, nil
	case token.NODE_TYPE:
		p.advance()
		if _, err := p.expect(token.LPAREN, "'('"); err != nil {
			return nil, err
		}
		test := &ast.NodeTypeTest{Type: tok.Lexeme}
		if arg := p.current(); arg.Kind == token.STRING_LITERAL {
			p.advance()
			test.Argument = &ast.Literal{Value: arg.Lexeme}
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return test, nil
	}

	return nil, unexpected(tok, "node test")
}

// parseQName parses NAME or NAME ':' NAME.
func (p *parserState) parseQName() (ast.QName, error) {
	first, err := p.expect(token.NAME, "name")
	if err != nil {
		return ast.QName{}, err
	}
	if p.current().Kind != token.COLON {
		return ast.QName{Local: first.Lexeme}, nil
	}
	p.advance()

	local, err := p.expect(token.NAME, "local name after prefix")
	if err != nil {
		return ast.QName{}, err
	}
	return ast.QName{Prefix: first.Lexeme, Local: local.Lexeme}, nil
}

// parsePredicates returns nil when no '[' follows.
func (p *parserState) parsePredicates() ([]ast.Expr, error) {
	var predicates []ast.Expr
	for p.current().Kind == token.LBRACKET {
		p.advance()
		predicate, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
	}
	return predicates, nil
}

func separator(kind token.Kind) (ast.Separator, bool) {
	switch kind {
	case token.PATH_SEP:
		return ast.SepChild, true
	case token.ABBREV_PATH_SEP:
		return ast.SepDescendant, true
	}
	return ast.SepNone, false
}

func (p *parserState) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return unexpected(p.current(), fmt.Sprintf("at most %d levels of nesting", MaxDepth))
	}
	return nil
}

func (p *parserState) leave() {
	p.depth--
}

func (p *parserState) expect(kind token.Kind, expected string) (token.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return token.Token{}, unexpected(tok, expected)
	}
	return p.advance(), nil
}

func (p *parserState) current() token.Token {
	return p.peek(0)
}

// peek returns the token n positions ahead, or an EOF token placed just past
// the last token.
func (p *parserState) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	end := 0
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].End()
	}
	return token.Token{Kind: token.EOF, Offset: end}
}

func (p *parserState) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
