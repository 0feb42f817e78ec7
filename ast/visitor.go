package ast

import "fmt"

// Visitor folds an AST into values of type T. Visit dispatches a node to the
// matching method; the methods decide whether and how to visit children.
type Visitor[T any] interface {
	VisitLiteral(*Literal) T
	VisitNumber(*Number) T
	VisitBoolean(*Boolean) T
	VisitVariableRef(*VariableRef) T
	VisitNameTest(*NameTest) T
	VisitNodeTypeTest(*NodeTypeTest) T
	VisitAbbreviatedTest(*AbbreviatedTest) T
	VisitStep(*Step) T
	VisitRelativePath(*RelativePath) T
	VisitAbsolutePath(*AbsolutePath) T
	VisitAbbreviatedAbsolutePath(*AbbreviatedAbsolutePath) T
	VisitFunctionCall(*FunctionCall) T
	VisitUnaryMinus(*UnaryMinus) T
	VisitBinaryOp(*BinaryOp) T
	VisitFilter(*Filter) T
	VisitFilterWithPath(*FilterWithPath) T
	VisitRootNameTest(*RootNameTest) T
}

// Visit calls the method of v that matches the concrete type of n.
func Visit[T any](v Visitor[T], n Node) T {
	switch n := n.(type) {
	case *Literal:
		return v.VisitLiteral(n)
	case *Number:
		return v.VisitNumber(n)
	case *Boolean:
		return v.VisitBoolean(n)
	case *VariableRef:
		return v.VisitVariableRef(n)
	case *NameTest:
		return v.VisitNameTest(n)
	case *NodeTypeTest:
		return v.VisitNodeTypeTest(n)
	case *AbbreviatedTest:
		return v.VisitAbbreviatedTest(n)
	case *Step:
		return v.VisitStep(n)
	case *RelativePath:
		return v.VisitRelativePath(n)
	case *AbsolutePath:
		return v.VisitAbsolutePath(n)
	case *AbbreviatedAbsolutePath:
		return v.VisitAbbreviatedAbsolutePath(n)
	case *FunctionCall:
		return v.VisitFunctionCall(n)
	case *UnaryMinus:
		return v.VisitUnaryMinus(n)
	case *BinaryOp:
		return v.VisitBinaryOp(n)
	case *Filter:
		return v.VisitFilter(n)
	case *FilterWithPath:
		return v.VisitFilterWithPath(n)
	case *RootNameTest:
		return v.VisitRootNameTest(n)
	}
	// Node is sealed, so only a nil interface can get here.
	panic(fmt.Sprintf("ast.Visit: unexpected node %T", n))
}
