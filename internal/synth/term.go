// Package synth rewrites boolean guard chains into structural pattern
// matches. The entry point is Synthesizer.TryBuildRewrite; everything in
// this package is pure and total over its preconditions, yielding absence
// instead of errors when a fragment does not admit a rewrite.
package synth

import (
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/sem"
)

// Target is what a classified term tests its receiver against.
type Target interface {
	isTarget()
}

// ConstantTarget is an equality test against a known constant. Negated
// marks a not-equals test.
type ConstantTarget struct {
	Val     ir.Value
	Negated bool
}

// RelationalTarget is an ordered comparison against a known constant. Op
// is the operator as written; Term.Flipped records whether its direction
// must invert.
type RelationalTarget struct {
	Op  ir.BinaryOp
	Val ir.Value
}

// TypeTarget is a plain type test.
type TypeTarget struct {
	Type string
}

// PatternTarget is an already-existing pattern from an is-pattern test.
type PatternTarget struct {
	Pat ir.Pattern
}

func (ConstantTarget) isTarget()   {}
func (RelationalTarget) isTarget() {}
func (TypeTarget) isTarget()       {}
func (PatternTarget) isTarget()    {}

// Term is one classified side of a boolean test.
type Term struct {
	Receiver ir.Expr
	Target   Target
	// Flipped records that a relational constant was found on the left
	// operand, so the operator direction must invert before embedding.
	Flipped bool
	// Consumed is the subexpression classification actually consumed;
	// it differs from the classified expression when classification
	// descended through an and-chain.
	Consumed ir.Expr
}

// classify analyzes one boolean-valued expression into a term. In guard
// mode the left operand of an and-chain is the near side (guards are read
// left to right); otherwise the right operand is.
func classify(e ir.Expr, guard bool, oracle sem.Oracle) (Term, bool) {
	switch e := e.(type) {
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			if guard {
				return classify(e.Left, guard, oracle)
			}
			return classify(e.Right, guard, oracle)
		}
		if e.Op.IsComparison() {
			return classifyComparison(e, oracle)
		}
		panic("unreachable binary operator")

	case *ir.IsTypeExpr:
		return Term{Receiver: e.X, Target: TypeTarget{Type: e.Type}, Consumed: e}, true

	case *ir.IsPatternExpr:
		return Term{Receiver: e.X, Target: PatternTarget{Pat: e.Pat}, Consumed: e}, true

	case *ir.UnaryExpr:
		if e.Op == ir.OpNot {
			return Term{Receiver: e.Operand, Target: ConstantTarget{Val: ir.False}, Consumed: e}, true
		}
	}
	// Anything else is an implicit truthiness test.
	return Term{Receiver: e, Target: ConstantTarget{Val: ir.True}, Consumed: e}, true
}

func classifyComparison(e *ir.BinaryExpr, oracle sem.Oracle) (Term, bool) {
	leftVal, leftConst := oracle.ConstantValue(e.Left)
	rightVal, rightConst := oracle.ConstantValue(e.Right)

	var (
		receiver ir.Expr
		val      ir.Value
		flipped  bool
	)
	switch {
	case rightConst:
		// Covers the both-constant case too: the left operand stays the
		// receiver so a pathological constant-to-constant comparison still
		// classifies deterministically.
		receiver, val = e.Left, rightVal
	case leftConst:
		receiver, val, flipped = e.Right, leftVal, true
	default:
		return Term{}, false
	}

	var target Target
	switch e.Op {
	case ir.OpEq:
		target = ConstantTarget{Val: val}
	case ir.OpNeq:
		target = ConstantTarget{Val: val, Negated: true}
	default:
		target = RelationalTarget{Op: e.Op, Val: val}
	}
	return Term{Receiver: receiver, Target: target, Flipped: flipped, Consumed: e}, true
}
