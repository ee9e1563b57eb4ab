package ir

// ReplaceExpr returns a tree identical to root except that the subtree old,
// matched by identity, is replaced with repl. Untouched subtrees are shared
// with the input, never copied. If old does not occur under root, root is
// returned unchanged.
func ReplaceExpr(root, old, repl Expr) Expr {
	out, _ := replaceExpr(root, old, repl)
	return out
}

// ReplacePattern is ReplaceExpr over patterns: it returns root with the
// identity-matched subpattern old replaced by repl, sharing untouched
// subtrees, or root unchanged when old does not occur.
func ReplacePattern(root, old, repl Pattern) Pattern {
	out, _ := replacePattern(root, old, repl)
	return out
}

func replacePattern(root, old, repl Pattern) (Pattern, bool) {
	if root == old {
		return repl, true
	}
	switch p := root.(type) {
	case *VarPattern, *DeclarationPattern, *ConstantPattern, *RelationalPattern, *TypePattern:
		return root, false
	case *RecursivePattern:
		for i, sub := range p.Positional {
			if repSub, ok := replacePattern(sub, old, repl); ok {
				positional := make([]Pattern, len(p.Positional))
				copy(positional, p.Positional)
				positional[i] = repSub
				return &RecursivePattern{Type: p.Type, Positional: positional, Fields: p.Fields, Binding: p.Binding, Loc: p.Loc}, true
			}
		}
		for i, f := range p.Fields {
			if repSub, ok := replacePattern(f.Pat, old, repl); ok {
				fields := make([]Field, len(p.Fields))
				copy(fields, p.Fields)
				fields[i] = Field{Name: f.Name, Pat: repSub}
				return &RecursivePattern{Type: p.Type, Positional: p.Positional, Fields: fields, Binding: p.Binding, Loc: p.Loc}, true
			}
		}
	case *NegatedPattern:
		if sub, ok := replacePattern(p.Pat, old, repl); ok {
			return &NegatedPattern{Pat: sub, Loc: p.Loc}, true
		}
	case *AndPattern:
		if left, ok := replacePattern(p.Left, old, repl); ok {
			return &AndPattern{Left: left, Right: p.Right, Loc: p.Loc}, true
		}
		if right, ok := replacePattern(p.Right, old, repl); ok {
			return &AndPattern{Left: p.Left, Right: right, Loc: p.Loc}, true
		}
	default:
		panic("unreachable pattern shape")
	}
	return root, false
}

func replaceExpr(root, old, repl Expr) (Expr, bool) {
	if root == old {
		return repl, true
	}
	switch e := root.(type) {
	case *IdentExpr, *LiteralExpr:
		return root, false
	case *MemberExpr:
		if x, ok := replaceExpr(e.X, old, repl); ok {
			return &MemberExpr{X: x, Name: e.Name, Loc: e.Loc}, true
		}
	case *NullSafeExpr:
		if x, ok := replaceExpr(e.X, old, repl); ok {
			return &NullSafeExpr{X: x, Name: e.Name, Loc: e.Loc}, true
		}
	case *BinaryExpr:
		if left, ok := replaceExpr(e.Left, old, repl); ok {
			return &BinaryExpr{Op: e.Op, Left: left, Right: e.Right, Loc: e.Loc}, true
		}
		if right, ok := replaceExpr(e.Right, old, repl); ok {
			return &BinaryExpr{Op: e.Op, Left: e.Left, Right: right, Loc: e.Loc}, true
		}
	case *UnaryExpr:
		if operand, ok := replaceExpr(e.Operand, old, repl); ok {
			return &UnaryExpr{Op: e.Op, Operand: operand, Loc: e.Loc}, true
		}
	case *IsTypeExpr:
		if x, ok := replaceExpr(e.X, old, repl); ok {
			return &IsTypeExpr{X: x, Type: e.Type, Loc: e.Loc}, true
		}
	case *IsPatternExpr:
		if x, ok := replaceExpr(e.X, old, repl); ok {
			return &IsPatternExpr{X: x, Pat: e.Pat, Loc: e.Loc}, true
		}
	case *CallExpr:
		for i, arg := range e.Args {
			if repArg, ok := replaceExpr(arg, old, repl); ok {
				args := make([]Expr, len(e.Args))
				copy(args, e.Args)
				args[i] = repArg
				return &CallExpr{Func: e.Func, Args: args, Loc: e.Loc}, true
			}
		}
	default:
		panic("unreachable expression shape")
	}
	return root, false
}
