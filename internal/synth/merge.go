package synth

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/gnolang/repat/internal/ir"
)

// findBinding returns the pattern node introducing name under root. Only
// recursive patterns are searched through: a binding nested inside a
// negation or a conjunction is not a merge site.
func findBinding(root ir.Pattern, name string) (ir.Pattern, bool) {
	switch p := root.(type) {
	case *ir.VarPattern:
		if p.Name == name {
			return p, true
		}
	case *ir.DeclarationPattern:
		if p.Binding == name {
			return p, true
		}
	case *ir.RecursivePattern:
		if p.Binding == name {
			return p, true
		}
		for _, sub := range p.Positional {
			if found, ok := findBinding(sub, name); ok {
				return found, true
			}
		}
		for _, f := range p.Fields {
			if found, ok := findBinding(f.Pat, name); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// mergeShapes combines a binding site with a freshly built pattern for
// the same value. Four shape pairs merge structurally; everything else
// conjoins.
func mergeShapes(containing, fragment ir.Pattern) ir.Pattern {
	switch c := containing.(type) {
	case *ir.VarPattern:
		switch f := fragment.(type) {
		case *ir.RecursivePattern:
			if !f.HasBinding() {
				return &ir.RecursivePattern{Type: f.Type, Positional: f.Positional, Fields: f.Fields, Binding: c.Name}
			}
		case *ir.TypePattern:
			return &ir.DeclarationPattern{Type: f.Type, Binding: c.Name}
		}
	case *ir.DeclarationPattern:
		if f, ok := fragment.(*ir.RecursivePattern); ok && !f.HasType() && !f.HasBinding() {
			return &ir.RecursivePattern{Type: c.Type, Positional: f.Positional, Fields: f.Fields, Binding: c.Binding}
		}
	case *ir.RecursivePattern:
		if f, ok := fragment.(*ir.TypePattern); ok && !c.HasType() {
			return &ir.RecursivePattern{Type: f.Type, Positional: c.Positional, Fields: c.Fields, Binding: c.Binding}
		}
	}
	return &ir.AndPattern{Left: containing, Right: fragment}
}

// mergeBinding folds base, reached through the member names in path,
// into the binding called name inside containing. An empty path merges
// base with the binding site itself; a non-empty path adds a named entry
// under it. The rebuilt pattern keeps every binding of the input;
// dropping one is a bug, not an outcome.
func mergeBinding(containing ir.Pattern, name string, base ir.Pattern, path []string) (ir.Pattern, bool) {
	binder, ok := findBinding(containing, name)
	if !ok {
		return nil, false
	}

	var merged ir.Pattern
	if len(path) == 0 {
		merged = mergeShapes(binder, base)
	} else {
		entry := ir.F(path[0], wrapNames(path[1:], base))
		switch b := binder.(type) {
		case *ir.VarPattern:
			merged = &ir.RecursivePattern{Fields: []ir.Field{entry}, Binding: b.Name}
		case *ir.DeclarationPattern:
			merged = &ir.RecursivePattern{Type: b.Type, Fields: []ir.Field{entry}, Binding: b.Binding}
		case *ir.RecursivePattern:
			if _, dup := b.Field(entry.Name); dup {
				return nil, false
			}
			fields := make([]ir.Field, len(b.Fields), len(b.Fields)+1)
			copy(fields, b.Fields)
			merged = &ir.RecursivePattern{Type: b.Type, Positional: b.Positional, Fields: append(fields, entry), Binding: b.Binding}
		default:
			panic("unreachable binder shape")
		}
	}

	out := ir.ReplacePattern(containing, binder, merged)
	assertBindingsKept(containing, out)
	return out, true
}

func assertBindingsKept(before, after ir.Pattern) {
	kept := set.New[string](0)
	for _, name := range ir.Bindings(after) {
		kept.Insert(name)
	}
	for _, name := range ir.Bindings(before) {
		if !kept.Contains(name) {
			panic("pattern merge dropped binding " + name)
		}
	}
}
