// Package ast declares the types used to represent parsed selectors.
//
// The node set is closed: every node type is declared in this package and
// the Node interface carries an unexported method, so consumers can switch
// over the concrete types exhaustively or drive a Listener or Visitor.
// Nodes are never shared between parents and must not be modified once the
// parser has returned them.
package ast

import "github.com/kodexa-ai/selector/token"

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Expr is a node that can appear where an expression is expected.
type Expr interface {
	Node
	expr()
}

// NodeTest is the criterion a Step applies to candidate nodes.
type NodeTest interface {
	Node
	nodeTest()
}

// QName is a name with an optional prefix.
type QName struct {
	Prefix string
	Local  string
}

func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// Literal is a quoted string.
type Literal struct {
	Value string
}

// Number is an INTEGER or FLOAT literal. Int is set when IsFloat is false,
// Float otherwise.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// Value returns the number as a float64 regardless of its lexical form.
func (n *Number) Value() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// Boolean is the literal true or false (without parentheses).
type Boolean struct {
	Value bool
}

// VariableRef is $name.
type VariableRef struct {
	Name QName
}

// NameTestKind distinguishes the three forms of name test.
type NameTestKind int

const (
	// AnyName is "*".
	AnyName NameTestKind = iota
	// PrefixedAny is "prefix:*".
	PrefixedAny
	// QualifiedName is "name" or "prefix:name".
	QualifiedName
)

// NameTest matches nodes by name. Prefix is set for PrefixedAny, Name for
// QualifiedName.
type NameTest struct {
	Kind   NameTestKind
	Prefix string
	Name   QName
}

// NodeTypeTest is type() or type('literal'), e.g. text() or
// processing-instruction('xml-stylesheet').
type NodeTypeTest struct {
	Type     string
	Argument *Literal
}

// Abbreviation names the two abbreviated steps.
type Abbreviation int

const (
	SelfStep   Abbreviation = iota // .
	ParentStep                     // ..
)

// AbbreviatedTest is the test of an abbreviated step: "." or "..".
type AbbreviatedTest struct {
	Kind Abbreviation
}

// AxisSpecifier names the axis of a step. The "@" abbreviation is recorded
// as the attribute axis with Abbreviated set.
type AxisSpecifier struct {
	Name        string
	Abbreviated bool
}

// Step is one location step. Axis is nil when the step uses the default
// (child) axis. Abbreviated steps never carry an axis or predicates.
type Step struct {
	Axis       *AxisSpecifier
	Test       NodeTest
	Predicates []Expr
}

// Separator records how a step is joined to the step before it.
type Separator int

const (
	// SepNone marks the first step of a relative path.
	SepNone Separator = iota
	// SepChild is "/".
	SepChild
	// SepDescendant is "//", i.e. an implied descendant-or-self::node() step.
	SepDescendant
)

func (s Separator) String() string {
	switch s {
	case SepChild:
		return "/"
	case SepDescendant:
		return "//"
	}
	return ""
}

// PathStep is a step together with the separator that precedes it.
type PathStep struct {
	Sep  Separator
	Step *Step
}

// RelativePath is a chain of one or more steps.
type RelativePath struct {
	Steps []PathStep
}

// AbsolutePath is "/" optionally followed by a relative path. A nil Rest
// selects the root itself.
type AbsolutePath struct {
	Rest *RelativePath
}

// AbbreviatedAbsolutePath is "//" followed by a relative path.
type AbbreviatedAbsolutePath struct {
	Path *RelativePath
}

// Builtin identifies the reserved function names.
type Builtin int

const (
	NotBuiltin Builtin = iota
	BuiltinTrue
	BuiltinFalse
)

// FunctionName is either a flat identifier or one of the built-ins true and
// false.
type FunctionName struct {
	Builtin Builtin
	Ident   string
}

func (f FunctionName) String() string {
	switch f.Builtin {
	case BuiltinTrue:
		return "true"
	case BuiltinFalse:
		return "false"
	}
	return f.Ident
}

// FunctionCall is name(args...).
type FunctionCall struct {
	Name FunctionName
	Args []Expr
}

// UnaryMinus is -operand.
type UnaryMinus struct {
	Operand Expr
}

// OpKind enumerates the binary operators.
type OpKind int

const (
	Or OpKind = iota
	And
	Equals
	Relational
	Add
	Subtract
	Union
	Intersect
	Pipeline
)

var opSymbols = [...]string{
	Or:         "or",
	And:        "and",
	Equals:     "=",
	Relational: "<rel>",
	Add:        "+",
	Subtract:   "-",
	Union:      "|",
	Intersect:  "intersect",
	Pipeline:   "stream",
}

func (k OpKind) String() string {
	if k >= 0 && int(k) < len(opSymbols) {
		return opSymbols[k]
	}
	return "<invalid>"
}

// BinaryOp is lhs op rhs. Rel holds the comparison for Relational and is
// token.RelNone otherwise.
type BinaryOp struct {
	Op  OpKind
	Rel token.RelOp
	LHS Expr
	RHS Expr
}

// Symbol returns the operator as written in selector text.
func (b *BinaryOp) Symbol() string {
	if b.Op == Relational {
		return b.Rel.String()
	}
	return b.Op.String()
}

// Filter is a filter-style primary followed by one or more predicates,
// e.g. (//p)[1].
type Filter struct {
	Primary    Expr
	Predicates []Expr
}

// FilterWithPath uses a filter-style expression as the source of further
// steps, e.g. id('x')/child or (//p)[1]//span.
type FilterWithPath struct {
	Filter Expr
	Sep    Separator
	Path   *RelativePath
}

// RootNameTest is "/" immediately followed by a bare name test. The parser
// folds that form into AbsolutePath; the node exists for producers that
// build selectors programmatically.
type RootNameTest struct {
	Test *NameTest
}

func (*Literal) node()                 {}
func (*Number) node()                  {}
func (*Boolean) node()                 {}
func (*VariableRef) node()             {}
func (*NameTest) node()                {}
func (*NodeTypeTest) node()            {}
func (*AbbreviatedTest) node()         {}
func (*Step) node()                    {}
func (*RelativePath) node()            {}
func (*AbsolutePath) node()            {}
func (*AbbreviatedAbsolutePath) node() {}
func (*FunctionCall) node()            {}
func (*UnaryMinus) node()              {}
func (*BinaryOp) node()                {}
func (*Filter) node()                  {}
func (*FilterWithPath) node()          {}
func (*RootNameTest) node()            {}

func (*Literal) expr()                 {}
func (*Number) expr()                  {}
func (*Boolean) expr()                 {}
func (*VariableRef) expr()             {}
func (*RelativePath) expr()            {}
func (*AbsolutePath) expr()            {}
func (*AbbreviatedAbsolutePath) expr() {}
func (*FunctionCall) expr()            {}
func (*UnaryMinus) expr()              {}
func (*BinaryOp) expr()                {}
func (*Filter) expr()                  {}
func (*FilterWithPath) expr()          {}
func (*RootNameTest) expr()            {}

func (*NameTest) nodeTest()        {}
func (*NodeTypeTest) nodeTest()    {}
func (*AbbreviatedTest) nodeTest() {}
