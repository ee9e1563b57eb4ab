package synth

import (
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/sem"
)

// segment is one convertible name peeled off a member chain, together
// with the access node that owns it. Owners let the resolver push a
// shared receiver down the chain without re-walking it.
type segment struct {
	name  string
	owner ir.Expr
}

// decompose peels convertible member names off a chain, walking from the
// outermost access toward the root. Segments come back in discovery
// order, which is the reverse of source order. The returned receiver is
// the first node that refuses to convert; it is nil when the whole chain
// collapsed into an implicit self reference.
func decompose(e ir.Expr, oracle sem.Oracle) (ir.Expr, []segment) {
	var segs []segment
	for {
		switch cur := e.(type) {
		case *ir.IdentExpr:
			// A bare identifier converts only when affirmatively declared;
			// AllowsUnknown never applies to the chain root.
			if s, ok := oracle.ClassifyName(cur.Name); ok && s.Convertible() {
				return nil, append(segs, segment{name: cur.Name, owner: cur})
			}
			return e, segs
		case *ir.MemberExpr:
			if !nameConverts(cur.Name, oracle) {
				return e, segs
			}
			segs = append(segs, segment{name: cur.Name, owner: cur})
			e = cur.X
		case *ir.NullSafeExpr:
			if !nameConverts(cur.Name, oracle) {
				return e, segs
			}
			segs = append(segs, segment{name: cur.Name, owner: cur})
			e = cur.X
		default:
			return e, segs
		}
	}
}

func nameConverts(name string, oracle sem.Oracle) bool {
	s, ok := oracle.ClassifyName(name)
	if !ok {
		return oracle.AllowsUnknown()
	}
	return s.Convertible()
}

// sourceNames flattens segments into source order.
func sourceNames(segs []segment) []string {
	names := make([]string, len(segs))
	for i, s := range segs {
		names[len(segs)-1-i] = s.name
	}
	return names
}
