// Package verify checks a synthesized rewrite against its original
// fragment by evaluating both over generated sample environments. The
// check is a falsifier, not a proof: divergence on any sample disqualifies
// the rewrite, agreement on every conclusive sample endorses it.
package verify

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gnolang/repat/internal/ir"
)

// value is a runtime value in the sampled evaluation domain.
type value interface {
	isValue()
	String() string
}

type intVal struct{ v int64 }

type boolVal struct{ v bool }

type strVal struct{ v string }

type nullVal struct{}

// objVal is a structured value with a nominal type and named fields.
type objVal struct {
	typeName string
	fields   map[string]value
}

func (intVal) isValue()  {}
func (boolVal) isValue() {}
func (strVal) isValue()  {}
func (nullVal) isValue() {}
func (*objVal) isValue() {}

func (v intVal) String() string  { return strconv.FormatInt(v.v, 10) }
func (v boolVal) String() string { return strconv.FormatBool(v.v) }
func (v strVal) String() string  { return strconv.Quote(v.v) }
func (nullVal) String() string   { return "null" }

func (v *objVal) String() string {
	names := make([]string, 0, len(v.fields))
	for name := range v.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(v.typeName)
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(v.fields[name].String())
	}
	b.WriteString("}")
	return b.String()
}

// fromIR maps a constant from the fragment tree into the evaluation
// domain.
func fromIR(v ir.Value) value {
	switch v := v.(type) {
	case ir.IntValue:
		return intVal{v: v.Val}
	case ir.BoolValue:
		return boolVal{v: v.Val}
	case ir.StringValue:
		return strVal{v: v.Val}
	case ir.NullValue:
		return nullVal{}
	}
	panic("unreachable constant shape")
}

// eqValues implements equality the way a lifted comparison behaves:
// null equals only null, values of different shapes never equal.
func eqValues(a, b value) bool {
	switch a := a.(type) {
	case intVal:
		if b, ok := b.(intVal); ok {
			return a.v == b.v
		}
	case boolVal:
		if b, ok := b.(boolVal); ok {
			return a.v == b.v
		}
	case strVal:
		if b, ok := b.(strVal); ok {
			return a.v == b.v
		}
	case nullVal:
		_, ok := b.(nullVal)
		return ok
	case *objVal:
		return a == b
	}
	return false
}

// world is one sampled environment: a scrutinee for case-arm fragments
// and a value for every free identifier.
type world struct {
	scrutinee value // nil for expression fragments
	env       map[string]value
}

func (w world) String() string {
	var parts []string
	if w.scrutinee != nil {
		parts = append(parts, "it = "+w.scrutinee.String())
	}
	names := make([]string, 0, len(w.env))
	for name := range w.env {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+" = "+w.env[name].String())
	}
	return strings.Join(parts, ", ")
}
