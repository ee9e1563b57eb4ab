package ir

// Inspect traverses the tree rooted at n in depth-first pre-order, calling
// fn for each node. If fn returns false the node's children are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *IdentExpr, *LiteralExpr:
	case *MemberExpr:
		Inspect(n.X, fn)
	case *NullSafeExpr:
		Inspect(n.X, fn)
	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *UnaryExpr:
		Inspect(n.Operand, fn)
	case *IsTypeExpr:
		Inspect(n.X, fn)
	case *IsPatternExpr:
		Inspect(n.X, fn)
		Inspect(n.Pat, fn)
	case *CallExpr:
		for _, arg := range n.Args {
			Inspect(arg, fn)
		}
	case *VarPattern, *DeclarationPattern, *ConstantPattern, *RelationalPattern, *TypePattern:
	case *RecursivePattern:
		for _, sub := range n.Positional {
			Inspect(sub, fn)
		}
		for _, f := range n.Fields {
			Inspect(f.Pat, fn)
		}
	case *NegatedPattern:
		Inspect(n.Pat, fn)
	case *AndPattern:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	case *Arm:
		Inspect(n.Pattern, fn)
		if n.Guard != nil {
			Inspect(n.Guard, fn)
		}
	default:
		panic("unreachable node shape")
	}
}

// Idents returns the name of every identifier referenced by the expression,
// including opaque call targets, in discovery order.
func Idents(e Expr) []string {
	var names []string
	Inspect(e, func(n Node) bool {
		switch n := n.(type) {
		case *IdentExpr:
			names = append(names, n.Name)
		case *CallExpr:
			names = append(names, n.Func)
		}
		return true
	})
	return names
}
