package ir

// AreStructurallyEqual reports whether two nodes have the same shape and
// contents. Spans are ignored; two nodes parsed from different positions
// but spelling the same tree are equal.
func AreStructurallyEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *IdentExpr:
		o, ok := b.(*IdentExpr)
		return ok && a.Name == o.Name
	case *MemberExpr:
		o, ok := b.(*MemberExpr)
		return ok && a.Name == o.Name && AreStructurallyEqual(a.X, o.X)
	case *NullSafeExpr:
		o, ok := b.(*NullSafeExpr)
		return ok && a.Name == o.Name && AreStructurallyEqual(a.X, o.X)
	case *BinaryExpr:
		o, ok := b.(*BinaryExpr)
		return ok && a.Op == o.Op &&
			AreStructurallyEqual(a.Left, o.Left) &&
			AreStructurallyEqual(a.Right, o.Right)
	case *UnaryExpr:
		o, ok := b.(*UnaryExpr)
		return ok && a.Op == o.Op && AreStructurallyEqual(a.Operand, o.Operand)
	case *LiteralExpr:
		o, ok := b.(*LiteralExpr)
		return ok && a.Val.Equal(o.Val)
	case *IsTypeExpr:
		o, ok := b.(*IsTypeExpr)
		return ok && a.Type == o.Type && AreStructurallyEqual(a.X, o.X)
	case *IsPatternExpr:
		o, ok := b.(*IsPatternExpr)
		return ok && AreStructurallyEqual(a.X, o.X) && AreStructurallyEqual(a.Pat, o.Pat)
	case *CallExpr:
		o, ok := b.(*CallExpr)
		if !ok || a.Func != o.Func || len(a.Args) != len(o.Args) {
			return false
		}
		for i := range a.Args {
			if !AreStructurallyEqual(a.Args[i], o.Args[i]) {
				return false
			}
		}
		return true
	case *VarPattern:
		o, ok := b.(*VarPattern)
		return ok && a.Name == o.Name
	case *DeclarationPattern:
		o, ok := b.(*DeclarationPattern)
		return ok && a.Type == o.Type && a.Binding == o.Binding
	case *RecursivePattern:
		o, ok := b.(*RecursivePattern)
		if !ok || a.Type != o.Type || a.Binding != o.Binding {
			return false
		}
		if len(a.Positional) != len(o.Positional) || len(a.Fields) != len(o.Fields) {
			return false
		}
		for i := range a.Positional {
			if !AreStructurallyEqual(a.Positional[i], o.Positional[i]) {
				return false
			}
		}
		for i := range a.Fields {
			if a.Fields[i].Name != o.Fields[i].Name ||
				!AreStructurallyEqual(a.Fields[i].Pat, o.Fields[i].Pat) {
				return false
			}
		}
		return true
	case *ConstantPattern:
		o, ok := b.(*ConstantPattern)
		return ok && a.Val.Equal(o.Val)
	case *RelationalPattern:
		o, ok := b.(*RelationalPattern)
		return ok && a.Op == o.Op && a.Val.Equal(o.Val)
	case *TypePattern:
		o, ok := b.(*TypePattern)
		return ok && a.Type == o.Type
	case *NegatedPattern:
		o, ok := b.(*NegatedPattern)
		return ok && AreStructurallyEqual(a.Pat, o.Pat)
	case *AndPattern:
		o, ok := b.(*AndPattern)
		return ok && AreStructurallyEqual(a.Left, o.Left) && AreStructurallyEqual(a.Right, o.Right)
	case *Arm:
		o, ok := b.(*Arm)
		return ok && AreStructurallyEqual(a.Pattern, o.Pattern) && equalGuard(a.Guard, o.Guard)
	default:
		panic("unreachable node shape")
	}
}

func equalGuard(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return AreStructurallyEqual(a, b)
}
