// Package dump converts selector ASTs into plain maps and slices so they can
// be rendered as YAML or JSON and queried with JSONPath.
//
// Every node becomes a map with a "kind" key. Numbers are kept as their
// selector text plus a "float" flag, so a dump contains only strings, bools,
// maps and slices.
package dump

import (
	"github.com/kodexa-ai/selector/ast"
	"github.com/kodexa-ai/selector/internal/stack"
)

// Node kinds as they appear under the "kind" key.
const (
	KindLiteral                 = "literal"
	KindNumber                  = "number"
	KindBoolean                 = "boolean"
	KindVariable                = "variable"
	KindNameTest                = "name_test"
	KindNodeTypeTest            = "node_type_test"
	KindAbbreviatedStep         = "abbreviated_step"
	KindStep                    = "step"
	KindRelativePath            = "relative_path"
	KindAbsolutePath            = "absolute_path"
	KindAbbreviatedAbsolutePath = "abbreviated_absolute_path"
	KindFunctionCall            = "function_call"
	KindUnaryMinus              = "unary_minus"
	KindBinary                  = "binary"
	KindFilter                  = "filter"
	KindFilterWithPath          = "filter_with_path"
	KindRootNameTest            = "root_name_test"
)

// Tree converts n into nested map[string]any / []any values.
func Tree(n ast.Node) map[string]any {
	b := &builder{frames: stack.New[[]map[string]any]()}
	ast.Walk(b, n)
	return b.root
}

// builder assembles the tree bottom-up: nodes with children open a frame on
// Enter, and every node is emitted into the enclosing frame on Exit.
type builder struct {
	ast.BaseListener
	frames *stack.Stack[[]map[string]any]
	root   map[string]any
}

func (b *builder) open() {
	b.frames.Push(nil)
}

func (b *builder) close() []map[string]any {
	children, _ := b.frames.Pop()
	return children
}

func (b *builder) emit(m map[string]any) {
	top := b.frames.PeekRef()
	if top == nil {
		b.root = m
		return
	}
	*top = append(*top, m)
}

func (b *builder) ExitLiteral(n *ast.Literal) {
	b.emit(map[string]any{"kind": KindLiteral, "value": n.Value})
}

func (b *builder) ExitNumber(n *ast.Number) {
	b.emit(map[string]any{"kind": KindNumber, "value": ast.Format(n), "float": n.IsFloat})
}

func (b *builder) ExitBoolean(n *ast.Boolean) {
	b.emit(map[string]any{"kind": KindBoolean, "value": n.Value})
}

func (b *builder) ExitVariableRef(n *ast.VariableRef) {
	b.emit(map[string]any{"kind": KindVariable, "name": n.Name.String()})
}

func (b *builder) ExitNameTest(n *ast.NameTest) {
	m := map[string]any{"kind": KindNameTest}
	switch n.Kind {
	case ast.AnyName:
		m["match"] = "any"
	case ast.PrefixedAny:
		m["match"] = "prefixed_any"
		m["prefix"] = n.Prefix
	case ast.QualifiedName:
		m["match"] = "qualified"
		m["name"] = n.Name.Local
		if n.Name.Prefix != "" {
			m["prefix"] = n.Name.Prefix
		}
	}
	b.emit(m)
}

func (b *builder) EnterNodeTypeTest(*ast.NodeTypeTest) { b.open() }

func (b *builder) ExitNodeTypeTest(n *ast.NodeTypeTest) {
	b.close()
	m := map[string]any{"kind": KindNodeTypeTest, "type": n.Type}
	if n.Argument != nil {
		m["argument"] = n.Argument.Value
	}
	b.emit(m)
}

func (b *builder) ExitAbbreviatedTest(n *ast.AbbreviatedTest) {
	b.emit(map[string]any{"kind": KindAbbreviatedStep, "step": ast.Format(n)})
}

func (b *builder) EnterStep(*ast.Step) { b.open() }

func (b *builder) ExitStep(n *ast.Step) {
	children := b.close()
	m := map[string]any{"kind": KindStep, "test": children[0]}
	if n.Axis != nil {
		m["axis"] = n.Axis.Name
		if n.Axis.Abbreviated {
			m["abbreviated_axis"] = true
		}
	}
	if len(children) > 1 {
		m["predicates"] = list(children[1:])
	}
	b.emit(m)
}

func (b *builder) EnterRelativePath(*ast.RelativePath) { b.open() }

func (b *builder) ExitRelativePath(n *ast.RelativePath) {
	children := b.close()
	steps := make([]any, len(children))
	for i, step := range children {
		if sep := n.Steps[i].Sep; sep != ast.SepNone {
			step["separator"] = sep.String()
		}
		steps[i] = step
	}
	b.emit(map[string]any{"kind": KindRelativePath, "steps": steps})
}

func (b *builder) EnterAbsolutePath(*ast.AbsolutePath) { b.open() }

func (b *builder) ExitAbsolutePath(*ast.AbsolutePath) {
	children := b.close()
	m := map[string]any{"kind": KindAbsolutePath}
	if len(children) > 0 {
		m["path"] = children[0]
	}
	b.emit(m)
}

func (b *builder) EnterAbbreviatedAbsolutePath(*ast.AbbreviatedAbsolutePath) { b.open() }

func (b *builder) ExitAbbreviatedAbsolutePath(*ast.AbbreviatedAbsolutePath) {
	children := b.close()
	b.emit(map[string]any{"kind": KindAbbreviatedAbsolutePath, "path": children[0]})
}

func (b *builder) EnterFunctionCall(*ast.FunctionCall) { b.open() }

func (b *builder) ExitFunctionCall(n *ast.FunctionCall) {
	children := b.close()
	m := map[string]any{"kind": KindFunctionCall, "name": n.Name.String()}
	if n.Name.Builtin != ast.NotBuiltin {
		m["builtin"] = true
	}
	if len(children) > 0 {
		m["args"] = list(children)
	}
	b.emit(m)
}

func (b *builder) EnterUnaryMinus(*ast.UnaryMinus) { b.open() }

func (b *builder) ExitUnaryMinus(*ast.UnaryMinus) {
	children := b.close()
	b.emit(map[string]any{"kind": KindUnaryMinus, "operand": children[0]})
}

func (b *builder) EnterBinaryOp(*ast.BinaryOp) { b.open() }

func (b *builder) ExitBinaryOp(n *ast.BinaryOp) {
	children := b.close()
	b.emit(map[string]any{
		"kind": KindBinary,
		"op":   n.Symbol(),
		"lhs":  children[0],
		"rhs":  children[1],
	})
}

func (b *builder) EnterFilter(*ast.Filter) { b.open() }

func (b *builder) ExitFilter(*ast.Filter) {
	children := b.close()
	b.emit(map[string]any{
		"kind":       KindFilter,
		"primary":    children[0],
		"predicates": list(children[1:]),
	})
}

func (b *builder) EnterFilterWithPath(*ast.FilterWithPath) { b.open() }

func (b *builder) ExitFilterWithPath(n *ast.FilterWithPath) {
	children := b.close()
	b.emit(map[string]any{
		"kind":      KindFilterWithPath,
		"filter":    children[0],
		"separator": n.Sep.String(),
		"path":      children[1],
	})
}

func (b *builder) EnterRootNameTest(*ast.RootNameTest) { b.open() }

func (b *builder) ExitRootNameTest(*ast.RootNameTest) {
	children := b.close()
	b.emit(map[string]any{"kind": KindRootNameTest, "test": children[0]})
}

func list(maps []map[string]any) []any {
	out := make([]any, len(maps))
	for i, m := range maps {
		out[i] = m
	}
	return out
}
