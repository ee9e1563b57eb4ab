package formatter

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/gnolang/repat/internal/ir"
)

// Simplify removes the redundancy a rewrite can leave behind: designations
// in a case arm's pattern that the surviving guard no longer references.
// Matching semantics are preserved exactly, so a var pattern keeps its
// designation even when dead (the name is its only content, and replacing
// it with an empty recursive pattern would start excluding null).
// Expression fragments come back unchanged.
func Simplify(n ir.Node) ir.Node {
	arm, ok := n.(*ir.Arm)
	if !ok {
		return n
	}
	live := set.New[string](0)
	if arm.Guard != nil {
		for _, name := range ir.Idents(arm.Guard) {
			live.Insert(name)
		}
	}
	pat := dropDeadDesignations(arm.Pattern, live)
	if pat == arm.Pattern {
		return arm
	}
	return &ir.Arm{Pattern: pat, Guard: arm.Guard, Loc: arm.Loc}
}

func dropDeadDesignations(p ir.Pattern, live *set.Set[string]) ir.Pattern {
	switch p := p.(type) {
	case *ir.DeclarationPattern:
		if live.Contains(p.Binding) {
			return p
		}
		return &ir.TypePattern{Type: p.Type, Loc: p.Loc}
	case *ir.RecursivePattern:
		binding := p.Binding
		if binding != "" && !live.Contains(binding) {
			binding = ""
		}
		positional, pchanged := dropDeadSubs(p.Positional, live)
		fields, fchanged := dropDeadFields(p.Fields, live)
		if binding == p.Binding && !pchanged && !fchanged {
			return p
		}
		return &ir.RecursivePattern{Type: p.Type, Positional: positional, Fields: fields, Binding: binding, Loc: p.Loc}
	case *ir.NegatedPattern:
		if inner := dropDeadDesignations(p.Pat, live); inner != p.Pat {
			return &ir.NegatedPattern{Pat: inner, Loc: p.Loc}
		}
		return p
	case *ir.AndPattern:
		left := dropDeadDesignations(p.Left, live)
		right := dropDeadDesignations(p.Right, live)
		if left != p.Left || right != p.Right {
			return &ir.AndPattern{Left: left, Right: right, Loc: p.Loc}
		}
		return p
	default:
		return p
	}
}

func dropDeadSubs(subs []ir.Pattern, live *set.Set[string]) ([]ir.Pattern, bool) {
	var out []ir.Pattern
	for i, sub := range subs {
		next := dropDeadDesignations(sub, live)
		if next == sub {
			continue
		}
		if out == nil {
			out = make([]ir.Pattern, len(subs))
			copy(out, subs)
		}
		out[i] = next
	}
	if out == nil {
		return subs, false
	}
	return out, true
}

func dropDeadFields(fields []ir.Field, live *set.Set[string]) ([]ir.Field, bool) {
	var out []ir.Field
	for i, f := range fields {
		next := dropDeadDesignations(f.Pat, live)
		if next == f.Pat {
			continue
		}
		if out == nil {
			out = make([]ir.Field, len(fields))
			copy(out, fields)
		}
		out[i] = ir.F(f.Name, next)
	}
	if out == nil {
		return fields, false
	}
	return out, true
}
