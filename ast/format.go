package ast

import (
	"strconv"
	"strings"
)

// Format renders n as selector text. Parsing the result yields a tree equal
// to n for any tree produced by the parser; whitespace and redundant
// parentheses are normalized.
func Format(n Node) string {
	return Visit[string](printer{}, n)
}

type printer struct{}

func (p printer) VisitLiteral(n *Literal) string {
	// Literals have no escapes, so pick the delimiter the value lacks.
	if strings.Contains(n.Value, `"`) {
		return "'" + n.Value + "'"
	}
	return `"` + n.Value + `"`
}

func (p printer) VisitNumber(n *Number) string {
	if !n.IsFloat {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Float, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (p printer) VisitBoolean(n *Boolean) string {
	return strconv.FormatBool(n.Value)
}

func (p printer) VisitVariableRef(n *VariableRef) string {
	return "$" + n.Name.String()
}

func (p printer) VisitNameTest(n *NameTest) string {
	switch n.Kind {
	case AnyName:
		return "*"
	case PrefixedAny:
		return n.Prefix + ":*"
	}
	return n.Name.String()
}

func (p printer) VisitNodeTypeTest(n *NodeTypeTest) string {
	if n.Argument == nil {
		return n.Type + "()"
	}
	return n.Type + "(" + p.VisitLiteral(n.Argument) + ")"
}

func (p printer) VisitAbbreviatedTest(n *AbbreviatedTest) string {
	if n.Kind == ParentStep {
		return ".."
	}
	return "."
}

func (p printer) VisitStep(n *Step) string {
	var b strings.Builder
	if n.Axis != nil {
		if n.Axis.Abbreviated {
			b.WriteByte('@')
		} else {
			b.WriteString(n.Axis.Name)
			b.WriteString("::")
		}
	}
	b.WriteString(Visit[string](p, n.Test))
	p.writePredicates(&b, n.Predicates)
	return b.String()
}

func (p printer) VisitRelativePath(n *RelativePath) string {
	var b strings.Builder
	for _, ps := range n.Steps {
		b.WriteString(ps.Sep.String())
		b.WriteString(p.VisitStep(ps.Step))
	}
	return b.String()
}

func (p printer) VisitAbsolutePath(n *AbsolutePath) string {
	if n.Rest == nil {
		return "/"
	}
	return "/" + p.VisitRelativePath(n.Rest)
}

func (p printer) VisitAbbreviatedAbsolutePath(n *AbbreviatedAbsolutePath) string {
	return "//" + p.VisitRelativePath(n.Path)
}

func (p printer) VisitFunctionCall(n *FunctionCall) string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = Visit[string](p, arg)
	}
	return n.Name.String() + "(" + strings.Join(args, ", ") + ")"
}

func (p printer) VisitUnaryMinus(n *UnaryMinus) string {
	return "-" + p.operand(n.Operand)
}

func (p printer) VisitBinaryOp(n *BinaryOp) string {
	return p.operand(n.LHS) + " " + n.Symbol() + " " + p.operand(n.RHS)
}

func (p printer) VisitFilter(n *Filter) string {
	var b strings.Builder
	// (f()[1])[2] differs from f()[1][2], so a nested filter keeps its group.
	if inner, nested := n.Primary.(*Filter); nested {
		b.WriteString("(" + p.VisitFilter(inner) + ")")
	} else {
		b.WriteString(p.primary(n.Primary))
	}
	p.writePredicates(&b, n.Predicates)
	return b.String()
}

func (p printer) VisitFilterWithPath(n *FilterWithPath) string {
	return p.primary(n.Filter) + n.Sep.String() + p.VisitRelativePath(n.Path)
}

func (p printer) VisitRootNameTest(n *RootNameTest) string {
	return "/" + p.VisitNameTest(n.Test)
}

func (p printer) writePredicates(b *strings.Builder, preds []Expr) {
	for _, pred := range preds {
		b.WriteByte('[')
		b.WriteString(Visit[string](p, pred))
		b.WriteByte(']')
	}
}

// operand parenthesizes binary subexpressions; grouping is not recorded in
// the tree, so the parentheses always restore the original shape.
func (p printer) operand(e Expr) string {
	if _, ok := e.(*BinaryOp); ok {
		return "(" + Visit[string](p, e) + ")"
	}
	return Visit[string](p, e)
}

// primary renders the source of a filter. Anything that is not
// self-delimiting is grouped so trailing predicates or steps bind to it.
func (p printer) primary(e Expr) string {
	switch e.(type) {
	case *Literal, *Number, *Boolean, *VariableRef, *FunctionCall, *Filter:
		return Visit[string](p, e)
	}
	return "(" + Visit[string](p, e) + ")"
}
