package verify

import (
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/synth"
)

// Result classifies one rewrite check.
type Result int

const (
	// Equivalent means every conclusive sample agreed.
	Equivalent Result = iota
	// NotEquivalent means a sample separated the fragments.
	NotEquivalent
	// Unknown means no sample was conclusive.
	Unknown
)

func (r Result) String() string {
	switch r {
	case Equivalent:
		return "equivalent"
	case NotEquivalent:
		return "not-equivalent"
	case Unknown:
		return "unknown"
	}
	return "invalid"
}

// Report is the verdict for one rewrite.
type Report struct {
	Result Result
	// Reason summarizes a non-positive verdict.
	Reason string
	// Detail renders the separating world when one exists.
	Detail string
}

// Verifier compares rewritten fragments with their originals over
// sampled environments.
type Verifier struct{}

func New() *Verifier {
	return &Verifier{}
}

// Check compares a rewrite's fragment and replacement.
func (v *Verifier) Check(rw *synth.Rewrite) Report {
	if orig, ok := rw.Fragment.(*ir.Arm); ok {
		repl, ok := rw.Result.(*ir.Arm)
		if !ok {
			return Report{Result: Unknown, Reason: "fragment kinds diverge"}
		}
		return v.CheckArms(orig, repl)
	}
	orig, ok1 := rw.Fragment.(ir.Expr)
	repl, ok2 := rw.Result.(ir.Expr)
	if !ok1 || !ok2 {
		return Report{Result: Unknown, Reason: "fragment kinds diverge"}
	}
	return v.CheckExprs(orig, repl)
}

// CheckExprs compares two boolean expressions over sampled worlds.
func (v *Verifier) CheckExprs(original, rewritten ir.Expr) Report {
	return run(exprWorlds(original, rewritten), func(w world, orig bool) outcome {
		e := rewritten
		if orig {
			e = original
		}
		return newEvaluator(w).test(e)
	})
}

// CheckArms compares two case arms over sampled scrutinees. An arm's
// outcome is whether it selects the scrutinee: the pattern must match
// and the guard, when present, must pass under the pattern's bindings.
func (v *Verifier) CheckArms(original, rewritten *ir.Arm) Report {
	return run(armWorlds(original, rewritten), func(w world, orig bool) outcome {
		arm := rewritten
		if orig {
			arm = original
		}
		return evalArm(arm, w)
	})
}

func evalArm(arm *ir.Arm, w world) outcome {
	out, bindings := match(arm.Pattern, w.scrutinee)
	if out != outTrue {
		return out
	}
	if arm.Guard == nil {
		return outTrue
	}
	ev := newEvaluator(w)
	for name, v := range bindings {
		ev.env[name] = v
	}
	return ev.test(arm.Guard)
}

// run compares the two fragments world by world. Worlds where the
// original already faults or leaves the domain are inconclusive; a
// replacement that faults where the original did not is rejected
// outright.
func run(worlds []world, eval func(w world, orig bool) outcome) Report {
	conclusive := false
	for _, w := range worlds {
		want := eval(w, true)
		if want == outUnknown || want == outFault {
			continue
		}
		got := eval(w, false)
		if got == outUnknown {
			continue
		}
		if got == outFault {
			return Report{
				Result: NotEquivalent,
				Reason: "replacement introduces a failing member access",
				Detail: w.String(),
			}
		}
		conclusive = true
		if got != want {
			return Report{
				Result: NotEquivalent,
				Reason: "behavior diverges: " + want.String() + " became " + got.String(),
				Detail: w.String(),
			}
		}
	}
	if !conclusive {
		return Report{Result: Unknown, Reason: "no conclusive samples"}
	}
	return Report{Result: Equivalent}
}
