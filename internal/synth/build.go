package synth

import "github.com/gnolang/repat/internal/ir"

// basePattern maps a classified term to the pattern its target denotes.
// A not-equals constant becomes a negated constant pattern; a flipped
// relational comparison inverts its operator so the receiver reads on
// the left again.
func basePattern(t Term) ir.Pattern {
	switch target := t.Target.(type) {
	case ConstantTarget:
		p := constantPattern(target.Val)
		if target.Negated {
			return &ir.NegatedPattern{Pat: p}
		}
		return p
	case RelationalTarget:
		op := target.Op
		if t.Flipped {
			op = op.Flipped()
		}
		return &ir.RelationalPattern{Op: op, Val: target.Val}
	case TypeTarget:
		return &ir.TypePattern{Type: target.Type}
	case PatternTarget:
		return target.Pat
	}
	panic("unreachable target shape")
}

func constantPattern(v ir.Value) ir.Pattern {
	if b, ok := v.(ir.BoolValue); ok {
		if b.Val {
			return ir.TruePattern
		}
		return ir.FalsePattern
	}
	return &ir.ConstantPattern{Val: v}
}

// wrapNames nests base under single-entry recursive patterns, innermost
// name first: wrapping ["a","b"] around p yields { a: { b: p } }.
func wrapNames(names []string, base ir.Pattern) ir.Pattern {
	for i := len(names) - 1; i >= 0; i-- {
		base = &ir.RecursivePattern{Fields: []ir.Field{{Name: names[i], Pat: base}}}
	}
	return base
}
