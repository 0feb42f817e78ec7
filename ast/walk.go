package ast

import "fmt"

// Listener receives Enter and Exit callbacks around every node visited by
// Walk. Embed BaseListener to implement only the callbacks of interest.
type Listener interface {
	EnterLiteral(*Literal)
	ExitLiteral(*Literal)
	EnterNumber(*Number)
	ExitNumber(*Number)
	EnterBoolean(*Boolean)
	ExitBoolean(*Boolean)
	EnterVariableRef(*VariableRef)
	ExitVariableRef(*VariableRef)
	EnterNameTest(*NameTest)
	ExitNameTest(*NameTest)
	EnterNodeTypeTest(*NodeTypeTest)
	ExitNodeTypeTest(*NodeTypeTest)
	EnterAbbreviatedTest(*AbbreviatedTest)
	ExitAbbreviatedTest(*AbbreviatedTest)
	EnterStep(*Step)
	ExitStep(*Step)
	EnterRelativePath(*RelativePath)
	ExitRelativePath(*RelativePath)
	EnterAbsolutePath(*AbsolutePath)
	ExitAbsolutePath(*AbsolutePath)
	EnterAbbreviatedAbsolutePath(*AbbreviatedAbsolutePath)
	ExitAbbreviatedAbsolutePath(*AbbreviatedAbsolutePath)
	EnterFunctionCall(*FunctionCall)
	ExitFunctionCall(*FunctionCall)
	EnterUnaryMinus(*UnaryMinus)
	ExitUnaryMinus(*UnaryMinus)
	EnterBinaryOp(*BinaryOp)
	ExitBinaryOp(*BinaryOp)
	EnterFilter(*Filter)
	ExitFilter(*Filter)
	EnterFilterWithPath(*FilterWithPath)
	ExitFilterWithPath(*FilterWithPath)
	EnterRootNameTest(*RootNameTest)
	ExitRootNameTest(*RootNameTest)
}

// BaseListener implements every Listener callback as a no-op.
type BaseListener struct{}

func (BaseListener) EnterLiteral(*Literal)                                 {}
func (BaseListener) ExitLiteral(*Literal)                                  {}
func (BaseListener) EnterNumber(*Number)                                   {}
func (BaseListener) ExitNumber(*Number)                                    {}
func (BaseListener) EnterBoolean(*Boolean)                                 {}
func (BaseListener) ExitBoolean(*Boolean)                                  {}
func (BaseListener) EnterVariableRef(*VariableRef)                         {}
func (BaseListener) ExitVariableRef(*VariableRef)                          {}
func (BaseListener) EnterNameTest(*NameTest)                               {}
func (BaseListener) ExitNameTest(*NameTest)                                {}
func (BaseListener) EnterNodeTypeTest(*NodeTypeTest)                       {}
func (BaseListener) ExitNodeTypeTest(*NodeTypeTest)                        {}
func (BaseListener) EnterAbbreviatedTest(*AbbreviatedTest)                 {}
func (BaseListener) ExitAbbreviatedTest(*AbbreviatedTest)                  {}
func (BaseListener) EnterStep(*Step)                                       {}
func (BaseListener) ExitStep(*Step)                                        {}
func (BaseListener) EnterRelativePath(*RelativePath)                       {}
func (BaseListener) ExitRelativePath(*RelativePath)                        {}
func (BaseListener) EnterAbsolutePath(*AbsolutePath)                       {}
func (BaseListener) ExitAbsolutePath(*AbsolutePath)                        {}
func (BaseListener) EnterAbbreviatedAbsolutePath(*AbbreviatedAbsolutePath) {}
func (BaseListener) ExitAbbreviatedAbsolutePath(*AbbreviatedAbsolutePath)  {}
func (BaseListener) EnterFunctionCall(*FunctionCall)                       {}
func (BaseListener) ExitFunctionCall(*FunctionCall)                        {}
func (BaseListener) EnterUnaryMinus(*UnaryMinus)                           {}
func (BaseListener) ExitUnaryMinus(*UnaryMinus)                            {}
func (BaseListener) EnterBinaryOp(*BinaryOp)                               {}
func (BaseListener) ExitBinaryOp(*BinaryOp)                                {}
func (BaseListener) EnterFilter(*Filter)                                   {}
func (BaseListener) ExitFilter(*Filter)                                    {}
func (BaseListener) EnterFilterWithPath(*FilterWithPath)                   {}
func (BaseListener) ExitFilterWithPath(*FilterWithPath)                    {}
func (BaseListener) EnterRootNameTest(*RootNameTest)                       {}
func (BaseListener) ExitRootNameTest(*RootNameTest)                        {}

// Walk traverses n depth-first. It calls the Enter callback for a node,
// walks the node's children in source order, then calls the Exit callback.
func Walk(l Listener, n Node) {
	switch n := n.(type) {
	case *Literal:
		l.EnterLiteral(n)
		l.ExitLiteral(n)
	case *Number:
		l.EnterNumber(n)
		l.ExitNumber(n)
	case *Boolean:
		l.EnterBoolean(n)
		l.ExitBoolean(n)
	case *VariableRef:
		l.EnterVariableRef(n)
		l.ExitVariableRef(n)
	case *NameTest:
		l.EnterNameTest(n)
		l.ExitNameTest(n)
	case *NodeTypeTest:
		l.EnterNodeTypeTest(n)
		if n.Argument != nil {
			Walk(l, n.Argument)
		}
		l.ExitNodeTypeTest(n)
	case *AbbreviatedTest:
		l.EnterAbbreviatedTest(n)
		l.ExitAbbreviatedTest(n)
	case *Step:
		l.EnterStep(n)
		Walk(l, n.Test)
		walkList(l, n.Predicates)
		l.ExitStep(n)
	case *RelativePath:
		l.EnterRelativePath(n)
		for _, ps := range n.Steps {
			Walk(l, ps.Step)
		}
		l.ExitRelativePath(n)
	case *AbsolutePath:
		l.EnterAbsolutePath(n)
		if n.Rest != nil {
			Walk(l, n.Rest)
		}
		l.ExitAbsolutePath(n)
	case *AbbreviatedAbsolutePath:
		l.EnterAbbreviatedAbsolutePath(n)
		Walk(l, n.Path)
		l.ExitAbbreviatedAbsolutePath(n)
	case *FunctionCall:
		l.EnterFunctionCall(n)
		walkList(l, n.Args)
		l.ExitFunctionCall(n)
	case *UnaryMinus:
		l.EnterUnaryMinus(n)
		Walk(l, n.Operand)
		l.ExitUnaryMinus(n)
	case *BinaryOp:
		l.EnterBinaryOp(n)
		Walk(l, n.LHS)
		Walk(l, n.RHS)
		l.ExitBinaryOp(n)
	case *Filter:
		l.EnterFilter(n)
		Walk(l, n.Primary)
		walkList(l, n.Predicates)
		l.ExitFilter(n)
	case *FilterWithPath:
		l.EnterFilterWithPath(n)
		Walk(l, n.Filter)
		Walk(l, n.Path)
		l.ExitFilterWithPath(n)
	case *RootNameTest:
		l.EnterRootNameTest(n)
		Walk(l, n.Test)
		l.ExitRootNameTest(n)
	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node %T", n))
	}
}

func walkList(l Listener, exprs []Expr) {
	for _, e := range exprs {
		Walk(l, e)
	}
}
