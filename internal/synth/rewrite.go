package synth

import (
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/sem"
)

// Hint flags downstream formatting work a rewrite calls for.
type Hint uint8

const (
	// HintReindent marks the replacement as needing re-indentation where
	// it lands.
	HintReindent Hint = 1 << iota
	// HintSimplify marks the replacement as a candidate for redundancy
	// cleanup, such as dropping designations nothing references anymore.
	HintSimplify
)

// Rewrite is a synthesized replacement for one fragment.
type Rewrite struct {
	// Fragment is the node consumed: the and-expression or the case arm
	// the replacement stands in for.
	Fragment ir.Node
	// Result is the replacement fragment. For a case arm it carries the
	// reworked pattern and the surviving guard as one edit.
	Result ir.Node
	Hints  Hint
}

// Apply maps a whole tree to the rewritten tree. Trees that do not
// contain the fragment come back unchanged.
func (r *Rewrite) Apply(root ir.Node) ir.Node {
	if root == r.Fragment {
		return r.Result
	}
	rootExpr, ok1 := root.(ir.Expr)
	fragExpr, ok2 := r.Fragment.(ir.Expr)
	replExpr, ok3 := r.Result.(ir.Expr)
	if ok1 && ok2 && ok3 {
		return ir.ReplaceExpr(rootExpr, fragExpr, replExpr)
	}
	return root
}

// Synthesizer builds structural-pattern rewrites for guard fragments.
type Synthesizer struct {
	oracle sem.Oracle
}

// New returns a synthesizer answering semantic queries from oracle.
func New(oracle sem.Oracle) *Synthesizer {
	return &Synthesizer{oracle: oracle}
}

// TryBuildRewrite locates the rewritable fragment covering pos under
// root and synthesizes its replacement. It reports false when the
// position holds no fragment or the fragment admits no rewrite.
func (s *Synthesizer) TryBuildRewrite(root ir.Node, pos int) (*Rewrite, bool) {
	switch frag := locate(root, pos).(type) {
	case *ir.Arm:
		return s.rewriteArm(frag)
	case *ir.BinaryExpr:
		return s.rewriteAnd(frag)
	default:
		return nil, false
	}
}

// Anchor returns the canonical probe position for a parsed fragment: the
// start of the outermost conjunction's right operand, or the fragment
// start. Probing there reaches the widest rewritable fragment.
func Anchor(n ir.Node) int {
	if and, ok := n.(*ir.BinaryExpr); ok && and.Op == ir.OpAnd {
		return and.Right.Span().Start
	}
	return n.Span().Start
}

// locate finds the fragment at pos: the whole case arm, or the innermost
// and-expression whose span covers the position.
func locate(root ir.Node, pos int) ir.Node {
	if arm, ok := root.(*ir.Arm); ok {
		if arm.Span().Covers(pos) {
			return arm
		}
		return nil
	}
	var innermost ir.Node
	ir.Inspect(root, func(n ir.Node) bool {
		// Pre-order traversal, so later hits are deeper.
		if and, ok := n.(*ir.BinaryExpr); ok && and.Op == ir.OpAnd && and.Span().Covers(pos) {
			innermost = and
		}
		return true
	})
	return innermost
}

func (s *Synthesizer) rewriteAnd(and *ir.BinaryExpr) (*Rewrite, bool) {
	right, ok := classify(and.Right, false, s.oracle)
	if !ok {
		return nil, false
	}

	// A right side whose receiver bottoms out at a binding introduced on
	// the left merges into the pattern that declared it.
	recv, segs := decompose(right.Receiver, s.oracle)
	if leaf, ok := recv.(*ir.IdentExpr); ok {
		if test, ok := findPatternTest(and.Left, leaf.Name); ok {
			return s.mergeRewrite(and, test, leaf.Name, right, sourceNames(segs))
		}
	}

	left, ok := classify(and.Left, false, s.oracle)
	if !ok {
		return nil, false
	}
	return s.combineRewrite(and, left, right)
}

// findPatternTest scans an and-chain for the is-pattern test whose
// pattern introduces name, preferring the nearest one.
func findPatternTest(e ir.Expr, name string) (*ir.IsPatternExpr, bool) {
	switch e := e.(type) {
	case *ir.IsPatternExpr:
		if _, ok := findBinding(e.Pat, name); ok {
			return e, true
		}
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			if test, ok := findPatternTest(e.Right, name); ok {
				return test, true
			}
			return findPatternTest(e.Left, name)
		}
	}
	return nil, false
}

// mergeRewrite folds the consumed right-hand comparison into the left
// is-pattern that declared its receiver, keeping every other term of the
// chain in place.
func (s *Synthesizer) mergeRewrite(and *ir.BinaryExpr, test *ir.IsPatternExpr, name string, right Term, path []string) (*Rewrite, bool) {
	merged, ok := mergeBinding(test.Pat, name, basePattern(right), path)
	if !ok {
		return nil, false
	}
	rewritten := ir.Is(test.X, merged)

	result := ir.ReplaceExpr(and.Left, test, rewritten)
	if rest := removeOperand(and.Right, right.Consumed); rest != nil {
		result = ir.And(result, rest)
	}
	return &Rewrite{Fragment: and, Result: result, Hints: HintReindent | HintSimplify}, true
}

// combineRewrite folds the two consumed comparisons into one recursive
// pattern on their shared receiver.
func (s *Synthesizer) combineRewrite(and *ir.BinaryExpr, left, right Term) (*Rewrite, bool) {
	res, ok := commonReceiver(left.Receiver, right.Receiver, s.oracle)
	if !ok {
		return nil, false
	}
	combined, ok := combineSides(res, left, right)
	if !ok {
		return nil, false
	}

	recv := res.receiver
	if recv == nil {
		recv = ir.Ident("this")
	}
	rewritten := ir.Is(recv, combined)

	result := ir.ReplaceExpr(and.Left, left.Consumed, rewritten)
	if rest := removeOperand(and.Right, right.Consumed); rest != nil {
		result = ir.And(result, rest)
	}
	return &Rewrite{Fragment: and, Result: result, Hints: HintReindent | HintSimplify}, true
}

// combineSides builds one recursive pattern from the two aligned terms.
// A side with a member path contributes a named entry; a side without
// one constrains the receiver itself through the shape table.
func combineSides(res resolved, left, right Term) (ir.Pattern, bool) {
	combined := &ir.RecursivePattern{}
	var atReceiver []ir.Pattern

	for _, side := range []struct {
		names []string
		term  Term
	}{
		{res.leftNames, left},
		{res.rightNames, right},
	} {
		base := basePattern(side.term)
		if len(side.names) == 0 {
			atReceiver = append(atReceiver, base)
			continue
		}
		if _, dup := combined.Field(side.names[0]); dup {
			return nil, false
		}
		combined.Fields = append(combined.Fields, ir.F(side.names[0], wrapNames(side.names[1:], base)))
	}

	var out ir.Pattern = combined
	for _, base := range atReceiver {
		out = mergeShapes(out, base)
	}
	return out, true
}

// rewriteArm folds the near guard term into the arm's own pattern at the
// binding the term's receiver names.
func (s *Synthesizer) rewriteArm(arm *ir.Arm) (*Rewrite, bool) {
	if arm.Guard == nil {
		return nil, false
	}
	term, ok := classify(arm.Guard, true, s.oracle)
	if !ok {
		return nil, false
	}
	recv, segs := decompose(term.Receiver, s.oracle)
	leaf, ok := recv.(*ir.IdentExpr)
	if !ok {
		return nil, false
	}
	merged, ok := mergeBinding(arm.Pattern, leaf.Name, basePattern(term), sourceNames(segs))
	if !ok {
		return nil, false
	}

	result := &ir.Arm{Pattern: merged, Guard: removeOperand(arm.Guard, term.Consumed)}
	return &Rewrite{Fragment: arm, Result: result, Hints: HintReindent | HintSimplify}, true
}

// removeOperand rebuilds an and-chain without the consumed term. It
// returns nil when the chain was exactly that term.
func removeOperand(e, consumed ir.Expr) ir.Expr {
	if e == consumed {
		return nil
	}
	and, ok := e.(*ir.BinaryExpr)
	if !ok || and.Op != ir.OpAnd {
		return e
	}
	left := removeOperand(and.Left, consumed)
	right := removeOperand(and.Right, consumed)
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	case left == and.Left && right == and.Right:
		return e
	}
	return ir.And(left, right)
}
