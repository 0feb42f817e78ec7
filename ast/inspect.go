package ast

// Inspect traverses n in depth-first order, calling f for each node before
// its children. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, child := range children(n) {
		Inspect(child, f)
	}
}

func children(n Node) []Node {
	switch n := n.(type) {
	case *NodeTypeTest:
		if n.Argument != nil {
			return []Node{n.Argument}
		}
	case *Step:
		out := make([]Node, 0, 1+len(n.Predicates))
		out = append(out, n.Test)
		return appendExprs(out, n.Predicates)
	case *RelativePath:
		out := make([]Node, 0, len(n.Steps))
		for _, ps := range n.Steps {
			out = append(out, ps.Step)
		}
		return out
	case *AbsolutePath:
		if n.Rest != nil {
			return []Node{n.Rest}
		}
	case *AbbreviatedAbsolutePath:
		return []Node{n.Path}
	case *FunctionCall:
		return appendExprs(nil, n.Args)
	case *UnaryMinus:
		return []Node{n.Operand}
	case *BinaryOp:
		return []Node{n.LHS, n.RHS}
	case *Filter:
		return appendExprs([]Node{n.Primary}, n.Predicates)
	case *FilterWithPath:
		return []Node{n.Filter, n.Path}
	case *RootNameTest:
		return []Node{n.Test}
	}
	return nil
}

func appendExprs(out []Node, exprs []Expr) []Node {
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}

// Variables returns the names of the variables referenced by n, in order of
// first appearance and without duplicates.
func Variables(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		if v, ok := n.(*VariableRef); ok {
			name := v.Name.String()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return true
	})
	return names
}

// Functions returns the names of the functions called by n, in order of
// first appearance and without duplicates.
func Functions(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		if call, ok := n.(*FunctionCall); ok {
			name := call.Name.String()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return true
	})
	return names
}
