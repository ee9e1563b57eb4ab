package ir

// Pattern represents a structural pattern tree.
type Pattern interface {
	Node
	isPattern()
}

// VarPattern introduces a binding with no structural constraint: var x.
type VarPattern struct {
	Name string
	Loc  Span
}

func (*VarPattern) isPattern()   {}
func (p *VarPattern) Span() Span { return p.Loc }
func (p *VarPattern) String() string {
	return "var " + p.Name
}

// DeclarationPattern tests a type and introduces a binding: C c.
type DeclarationPattern struct {
	Type    string
	Binding string
	Loc     Span
}

func (*DeclarationPattern) isPattern()   {}
func (p *DeclarationPattern) Span() Span { return p.Loc }
func (p *DeclarationPattern) String() string {
	return p.Type + " " + p.Binding
}

// Field is one named entry of a recursive pattern.
type Field struct {
	Name string
	Pat  Pattern
}

// RecursivePattern tests an optional type, an optional positional part, and
// a set of named sub-patterns, optionally binding the matched value.
// Field names within one pattern are unique.
type RecursivePattern struct {
	Type       string    // "" when absent
	Positional []Pattern // nil when absent
	Fields     []Field
	Binding    string // "" when absent
	Loc        Span
}

func (*RecursivePattern) isPattern()   {}
func (p *RecursivePattern) Span() Span { return p.Loc }

// HasType reports whether the pattern carries an explicit type test.
func (p *RecursivePattern) HasType() bool { return p.Type != "" }

// HasBinding reports whether the pattern carries a designation.
func (p *RecursivePattern) HasBinding() bool { return p.Binding != "" }

// Field returns the sub-pattern stored under name.
func (p *RecursivePattern) Field(name string) (Pattern, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Pat, true
		}
	}
	return nil, false
}

func (p *RecursivePattern) String() string {
	s := ""
	if p.Type != "" {
		s = p.Type + " "
	}
	if p.Positional != nil {
		s += "("
		for i, sub := range p.Positional {
			if i > 0 {
				s += ", "
			}
			s += sub.String()
		}
		s += ") "
	}
	s += "{"
	for i, f := range p.Fields {
		if i > 0 {
			s += ","
		}
		s += " " + f.Name + ": " + f.Pat.String()
	}
	s += " }"
	if p.Binding != "" {
		s += " " + p.Binding
	}
	return s
}

// ConstantPattern matches a constant value.
type ConstantPattern struct {
	Val Value
	Loc Span
}

func (*ConstantPattern) isPattern()   {}
func (p *ConstantPattern) Span() Span { return p.Loc }
func (p *ConstantPattern) String() string {
	return p.Val.String()
}

// RelationalPattern matches values ordered relative to a constant: > 5.
type RelationalPattern struct {
	Op  BinaryOp // one of <, <=, >, >=
	Val Value
	Loc Span
}

func (*RelationalPattern) isPattern()   {}
func (p *RelationalPattern) Span() Span { return p.Loc }
func (p *RelationalPattern) String() string {
	return p.Op.String() + " " + p.Val.String()
}

// TypePattern matches values of a type without binding: C.
type TypePattern struct {
	Type string
	Loc  Span
}

func (*TypePattern) isPattern()   {}
func (p *TypePattern) Span() Span { return p.Loc }
func (p *TypePattern) String() string {
	return p.Type
}

// NegatedPattern matches values its inner pattern does not match: not P.
type NegatedPattern struct {
	Pat Pattern
	Loc Span
}

func (*NegatedPattern) isPattern()   {}
func (p *NegatedPattern) Span() Span { return p.Loc }
func (p *NegatedPattern) String() string {
	return "not " + p.Pat.String()
}

// AndPattern requires both sub-patterns to match. It is produced only as
// the fallback combinator when no shape-specific merge applies.
type AndPattern struct {
	Left  Pattern
	Right Pattern
	Loc   Span
}

func (*AndPattern) isPattern()   {}
func (p *AndPattern) Span() Span { return p.Loc }
func (p *AndPattern) String() string {
	return "(" + p.Left.String() + ") and (" + p.Right.String() + ")"
}

// TruePattern and FalsePattern are the shared constant patterns for the
// boolean constants. They are read-only process-wide values.
var (
	TruePattern  Pattern = &ConstantPattern{Val: True}
	FalsePattern Pattern = &ConstantPattern{Val: False}
)

// F creates one named field of a recursive pattern.
func F(name string, pat Pattern) Field {
	return Field{Name: name, Pat: pat}
}

// Rec creates a recursive pattern holding the given named fields.
func Rec(fields ...Field) *RecursivePattern {
	return &RecursivePattern{Fields: fields}
}

// PatConst creates a constant pattern.
func PatConst(v Value) Pattern {
	return &ConstantPattern{Val: v}
}

// PatInt creates an integer constant pattern.
func PatInt(v int64) Pattern {
	return &ConstantPattern{Val: IntValue{Val: v}}
}

// PatNull creates a null constant pattern.
func PatNull() Pattern {
	return &ConstantPattern{Val: NullValue{}}
}

// PatVar creates a var pattern.
func PatVar(name string) Pattern {
	return &VarPattern{Name: name}
}

// PatType creates a type pattern.
func PatType(typ string) Pattern {
	return &TypePattern{Type: typ}
}

// PatDecl creates a declaration pattern.
func PatDecl(typ, binding string) Pattern {
	return &DeclarationPattern{Type: typ, Binding: binding}
}

// PatRel creates a relational pattern.
func PatRel(op BinaryOp, v Value) Pattern {
	return &RelationalPattern{Op: op, Val: v}
}

// PatNot creates a negated pattern.
func PatNot(inner Pattern) Pattern {
	return &NegatedPattern{Pat: inner}
}

// PatAnd creates a conjunction of two patterns.
func PatAnd(left, right Pattern) Pattern {
	return &AndPattern{Left: left, Right: right}
}

// Bindings returns every designation name introduced by the pattern, in
// discovery order.
func Bindings(p Pattern) []string {
	var names []string
	collectBindings(p, &names)
	return names
}

func collectBindings(p Pattern, names *[]string) {
	switch p := p.(type) {
	case *VarPattern:
		*names = append(*names, p.Name)
	case *DeclarationPattern:
		*names = append(*names, p.Binding)
	case *RecursivePattern:
		if p.Binding != "" {
			*names = append(*names, p.Binding)
		}
		for _, sub := range p.Positional {
			collectBindings(sub, names)
		}
		for _, f := range p.Fields {
			collectBindings(f.Pat, names)
		}
	case *NegatedPattern:
		collectBindings(p.Pat, names)
	case *AndPattern:
		collectBindings(p.Left, names)
		collectBindings(p.Right, names)
	case *ConstantPattern, *RelationalPattern, *TypePattern:
	default:
		panic("unreachable pattern shape")
	}
}
