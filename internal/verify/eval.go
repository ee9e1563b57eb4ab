package verify

import "github.com/gnolang/repat/internal/ir"

// outcome is the result of evaluating a boolean fragment in one world.
type outcome int8

const (
	outFalse outcome = iota
	outTrue
	// outUnknown marks evaluation that left the modeled domain, such as
	// an opaque call; the world is inconclusive.
	outUnknown
	// outFault marks a member access on a null value.
	outFault
)

func (o outcome) String() string {
	switch o {
	case outFalse:
		return "false"
	case outTrue:
		return "true"
	case outUnknown:
		return "unknown"
	case outFault:
		return "fault"
	}
	return "invalid"
}

// status qualifies a value-level evaluation.
type status int8

const (
	evalOK status = iota
	// evalShort marks a null produced by a null-conditional access; the
	// remainder of the postfix chain propagates it instead of faulting.
	evalShort
	evalUnknown
	evalFault
)

// evaluator runs one fragment against one world. Bindings introduced by
// successful is-pattern tests extend env for the conjuncts that follow,
// mirroring definite-assignment scoping.
type evaluator struct {
	env map[string]value
}

func newEvaluator(w world) *evaluator {
	env := make(map[string]value, len(w.env))
	for name, v := range w.env {
		env[name] = v
	}
	return &evaluator{env: env}
}

// test evaluates a boolean-valued expression.
func (ev *evaluator) test(e ir.Expr) outcome {
	switch e := e.(type) {
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			switch left := ev.test(e.Left); left {
			case outTrue:
				return ev.test(e.Right)
			default:
				return left
			}
		}
		return ev.compare(e)

	case *ir.UnaryExpr:
		if e.Op == ir.OpNot {
			switch inner := ev.test(e.Operand); inner {
			case outTrue:
				return outFalse
			case outFalse:
				return outTrue
			default:
				return inner
			}
		}
		return outUnknown

	case *ir.IsTypeExpr:
		v, st := ev.value(e.X)
		if bad := badStatus(st); bad != outTrue {
			return bad
		}
		return matchType(v, e.Type)

	case *ir.IsPatternExpr:
		v, st := ev.value(e.X)
		if bad := badStatus(st); bad != outTrue {
			return bad
		}
		out, bindings := match(e.Pat, v)
		if out == outTrue {
			for name, bound := range bindings {
				ev.env[name] = bound
			}
		}
		return out

	default:
		// An implicit truthiness test: any other expression holds its own
		// boolean value.
		v, st := ev.value(e)
		if bad := badStatus(st); bad != outTrue {
			return bad
		}
		if b, ok := v.(boolVal); ok {
			if b.v {
				return outTrue
			}
			return outFalse
		}
		return outUnknown
	}
}

func (ev *evaluator) compare(e *ir.BinaryExpr) outcome {
	left, st := ev.value(e.Left)
	if bad := badStatus(st); bad != outTrue {
		return bad
	}
	right, st := ev.value(e.Right)
	if bad := badStatus(st); bad != outTrue {
		return bad
	}

	switch e.Op {
	case ir.OpEq:
		return boolOutcome(eqValues(left, right))
	case ir.OpNeq:
		return boolOutcome(!eqValues(left, right))
	}

	// Ordered comparisons lift over null to false and are modeled for
	// integers only.
	if isNull(left) || isNull(right) {
		return outFalse
	}
	li, lok := left.(intVal)
	ri, rok := right.(intVal)
	if !lok || !rok {
		return outUnknown
	}
	switch e.Op {
	case ir.OpLt:
		return boolOutcome(li.v < ri.v)
	case ir.OpLte:
		return boolOutcome(li.v <= ri.v)
	case ir.OpGt:
		return boolOutcome(li.v > ri.v)
	case ir.OpGte:
		return boolOutcome(li.v >= ri.v)
	}
	panic("unreachable comparison operator")
}

// value evaluates an expression to a value.
func (ev *evaluator) value(e ir.Expr) (value, status) {
	switch e := e.(type) {
	case *ir.LiteralExpr:
		return fromIR(e.Val), evalOK

	case *ir.IdentExpr:
		if v, ok := ev.env[e.Name]; ok {
			return v, evalOK
		}
		return nil, evalUnknown

	case *ir.MemberExpr:
		x, st := ev.value(e.X)
		switch st {
		case evalShort:
			return nullVal{}, evalShort
		case evalOK:
		default:
			return nil, st
		}
		if isNull(x) {
			return nil, evalFault
		}
		return fieldOf(x, e.Name)

	case *ir.NullSafeExpr:
		x, st := ev.value(e.X)
		switch st {
		case evalShort:
			return nullVal{}, evalShort
		case evalOK:
		default:
			return nil, st
		}
		if isNull(x) {
			return nullVal{}, evalShort
		}
		return fieldOf(x, e.Name)

	case *ir.UnaryExpr:
		if e.Op == ir.OpNeg {
			x, st := ev.value(e.Operand)
			if st != evalOK && st != evalShort {
				return nil, st
			}
			if i, ok := x.(intVal); ok {
				return intVal{v: -i.v}, evalOK
			}
		}
		return nil, evalUnknown

	default:
		return nil, evalUnknown
	}
}

func fieldOf(x value, name string) (value, status) {
	obj, ok := x.(*objVal)
	if !ok {
		return nil, evalUnknown
	}
	v, ok := obj.fields[name]
	if !ok {
		return nil, evalUnknown
	}
	return v, evalOK
}

// match evaluates a pattern against a value, returning the outcome and
// the bindings a successful match introduces.
func match(p ir.Pattern, v value) (outcome, map[string]value) {
	switch p := p.(type) {
	case *ir.VarPattern:
		return outTrue, map[string]value{p.Name: v}

	case *ir.ConstantPattern:
		return boolOutcome(eqValues(v, fromIR(p.Val))), nil

	case *ir.RelationalPattern:
		if isNull(v) {
			return outFalse, nil
		}
		i, ok := v.(intVal)
		c, cok := fromIR(p.Val).(intVal)
		if !ok || !cok {
			return outUnknown, nil
		}
		switch p.Op {
		case ir.OpLt:
			return boolOutcome(i.v < c.v), nil
		case ir.OpLte:
			return boolOutcome(i.v <= c.v), nil
		case ir.OpGt:
			return boolOutcome(i.v > c.v), nil
		case ir.OpGte:
			return boolOutcome(i.v >= c.v), nil
		}
		return outUnknown, nil

	case *ir.TypePattern:
		return matchType(v, p.Type), nil

	case *ir.DeclarationPattern:
		out := matchType(v, p.Type)
		if out == outTrue {
			return outTrue, map[string]value{p.Binding: v}
		}
		return out, nil

	case *ir.RecursivePattern:
		return matchRecursive(p, v)

	case *ir.NegatedPattern:
		// Bindings under a negation never escape.
		switch out, _ := match(p.Pat, v); out {
		case outTrue:
			return outFalse, nil
		case outFalse:
			return outTrue, nil
		default:
			return out, nil
		}

	case *ir.AndPattern:
		out, bindings := match(p.Left, v)
		if out != outTrue {
			return out, nil
		}
		rightOut, rightBindings := match(p.Right, v)
		if rightOut != outTrue {
			return rightOut, nil
		}
		for name, bound := range rightBindings {
			if bindings == nil {
				bindings = map[string]value{}
			}
			bindings[name] = bound
		}
		return outTrue, bindings
	}
	panic("unreachable pattern shape")
}

func matchRecursive(p *ir.RecursivePattern, v value) (outcome, map[string]value) {
	if isNull(v) {
		return outFalse, nil
	}
	if p.HasType() {
		if out := matchType(v, p.Type); out != outTrue {
			return out, nil
		}
	}
	if p.Positional != nil {
		// Positional extraction is outside the modeled domain.
		return outUnknown, nil
	}

	bindings := map[string]value{}
	for _, f := range p.Fields {
		fv, st := fieldOf(v, f.Name)
		if st != evalOK {
			return outUnknown, nil
		}
		out, sub := match(f.Pat, fv)
		if out != outTrue {
			return out, nil
		}
		for name, bound := range sub {
			bindings[name] = bound
		}
	}
	if p.HasBinding() {
		bindings[p.Binding] = v
	}
	return outTrue, bindings
}

// matchType is the null-excluding nominal type test.
func matchType(v value, typeName string) outcome {
	switch v := v.(type) {
	case nullVal:
		return outFalse
	case *objVal:
		return boolOutcome(v.typeName == typeName)
	default:
		return outFalse
	}
}

func isNull(v value) bool {
	_, ok := v.(nullVal)
	return ok
}

func boolOutcome(b bool) outcome {
	if b {
		return outTrue
	}
	return outFalse
}

// badStatus maps a value-level status to the outcome it forces, or
// outTrue when evaluation may proceed.
func badStatus(st status) outcome {
	switch st {
	case evalOK, evalShort:
		return outTrue
	case evalUnknown:
		return outUnknown
	default:
		return outFault
	}
}
