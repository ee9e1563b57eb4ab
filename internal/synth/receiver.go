package synth

import (
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/sem"
)

// resolved is the outcome of aligning two decomposed chains under one
// receiver.
type resolved struct {
	receiver   ir.Expr // nil for an implicit self reference
	leftNames  []string
	rightNames []string
}

// commonReceiver decomposes both receiver expressions and aligns them.
// The chains must bottom out at tree-equivalent roots (or both at an
// implicit self); any member path both chains share is folded into the
// returned receiver so the remaining names are non-redundant. Resolution
// fails when the roots diverge or when folding leaves nothing structural
// on either side.
func commonReceiver(left, right ir.Expr, oracle sem.Oracle) (resolved, bool) {
	leftRecv, leftSegs := decompose(left, oracle)
	rightRecv, rightSegs := decompose(right, oracle)

	switch {
	case leftRecv == nil && rightRecv == nil:
	case leftRecv == nil || rightRecv == nil:
		return resolved{}, false
	case !ir.AreStructurallyEqual(leftRecv, rightRecv):
		return resolved{}, false
	}

	// Discovery order keeps root-most names at the tail, so a shared tail
	// is a shared source prefix. Scan inward while the chains agree.
	shared := 0
	for shared < len(leftSegs) && shared < len(rightSegs) {
		if leftSegs[len(leftSegs)-1-shared].name != rightSegs[len(rightSegs)-1-shared].name {
			break
		}
		shared++
	}

	recv := leftRecv
	if shared > 0 {
		// Push the receiver down to the deepest access node both chains
		// agree on. The left chain donates the node, so null-safe accesses
		// on the shared path survive as written.
		recv = leftSegs[len(leftSegs)-shared].owner
	}

	leftNames := sourceNames(leftSegs[:len(leftSegs)-shared])
	rightNames := sourceNames(rightSegs[:len(rightSegs)-shared])
	if len(leftNames) == 0 && len(rightNames) == 0 {
		return resolved{}, false
	}
	return resolved{receiver: recv, leftNames: leftNames, rightNames: rightNames}, true
}
