package ir

// Expr represents a boolean-valued expression tree.
type Expr interface {
	Node
	isExpr()
}

// IdentExpr represents a bare identifier reference.
type IdentExpr struct {
	Name string
	Loc  Span
}

func (*IdentExpr) isExpr()          {}
func (e *IdentExpr) Span() Span     { return e.Loc }
func (e *IdentExpr) String() string { return e.Name }

// MemberExpr represents a member access: X.Name.
type MemberExpr struct {
	X    Expr
	Name string
	Loc  Span
}

func (*MemberExpr) isExpr()      {}
func (e *MemberExpr) Span() Span { return e.Loc }
func (e *MemberExpr) String() string {
	return e.X.String() + "." + e.Name
}

// NullSafeExpr represents a null-conditional access: X?.Name.
// It evaluates to null without reading Name when X is null.
type NullSafeExpr struct {
	X    Expr
	Name string
	Loc  Span
}

func (*NullSafeExpr) isExpr()      {}
func (e *NullSafeExpr) Span() Span { return e.Loc }
func (e *NullSafeExpr) String() string {
	return e.X.String() + "?." + e.Name
}

// BinaryOp represents binary operators.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
)

func (op BinaryOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpAnd:
		return "&&"
	default:
		return "?"
	}
}

// IsComparison reports whether op is one of ==, !=, <, <=, >, >=.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGte
}

// IsRelational reports whether op is one of <, <=, >, >=.
func (op BinaryOp) IsRelational() bool {
	return op >= OpLt && op <= OpGte
}

// Flipped returns the operator with its comparison direction inverted
// (< and > swap, <= and >= swap). Equality operators are unaffected.
func (op BinaryOp) Flipped() BinaryOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLte:
		return OpGte
	case OpGt:
		return OpLt
	case OpGte:
		return OpLte
	default:
		return op
	}
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Loc   Span
}

func (*BinaryExpr) isExpr()      {}
func (e *BinaryExpr) Span() Span { return e.Loc }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// UnaryOp represents unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	default:
		return "?"
	}
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	Loc     Span
}

func (*UnaryExpr) isExpr()      {}
func (e *UnaryExpr) Span() Span { return e.Loc }
func (e *UnaryExpr) String() string {
	return e.Op.String() + e.Operand.String()
}

// LiteralExpr represents a literal constant (int, bool, string, null).
type LiteralExpr struct {
	Val Value
	Loc Span
}

func (*LiteralExpr) isExpr()      {}
func (e *LiteralExpr) Span() Span { return e.Loc }
func (e *LiteralExpr) String() string {
	return e.Val.String()
}

// IsTypeExpr represents a type test: X is Type.
type IsTypeExpr struct {
	X    Expr
	Type string
	Loc  Span
}

func (*IsTypeExpr) isExpr()      {}
func (e *IsTypeExpr) Span() Span { return e.Loc }
func (e *IsTypeExpr) String() string {
	return e.X.String() + " is " + e.Type
}

// IsPatternExpr represents a pattern test: X is Pattern.
type IsPatternExpr struct {
	X   Expr
	Pat Pattern
	Loc Span
}

func (*IsPatternExpr) isExpr()      {}
func (e *IsPatternExpr) Span() Span { return e.Loc }
func (e *IsPatternExpr) String() string {
	return e.X.String() + " is " + e.Pat.String()
}

// CallExpr represents a call: Func(Args...). Calls are opaque to the
// rewrite pipeline and classify as implicit truthiness tests.
type CallExpr struct {
	Func string
	Args []Expr
	Loc  Span
}

func (*CallExpr) isExpr()      {}
func (e *CallExpr) Span() Span { return e.Loc }
func (e *CallExpr) String() string {
	s := e.Func + "("
	for i, arg := range e.Args {
		if i > 0 {
			s += ", "
		}
		s += arg.String()
	}
	return s + ")"
}

// Helper functions to construct expression nodes. Constructed nodes carry
// the zero span; the parser assigns real spans directly.

// Ident creates an identifier reference.
func Ident(name string) Expr {
	return &IdentExpr{Name: name}
}

// Member creates a member access x.name.
func Member(x Expr, name string) Expr {
	return &MemberExpr{X: x, Name: name}
}

// NullSafe creates a null-conditional access x?.name.
func NullSafe(x Expr, name string) Expr {
	return &NullSafeExpr{X: x, Name: name}
}

// Binary creates a binary expression.
func Binary(op BinaryOp, left, right Expr) Expr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// And creates a logical-and expression.
func And(left, right Expr) Expr {
	return &BinaryExpr{Op: OpAnd, Left: left, Right: right}
}

// Eq creates an equality comparison.
func Eq(left, right Expr) Expr {
	return &BinaryExpr{Op: OpEq, Left: left, Right: right}
}

// Neq creates a not-equal comparison.
func Neq(left, right Expr) Expr {
	return &BinaryExpr{Op: OpNeq, Left: left, Right: right}
}

// Not creates a logical negation.
func Not(operand Expr) Expr {
	return &UnaryExpr{Op: OpNot, Operand: operand}
}

// Lit creates a literal expression from a value.
func Lit(v Value) Expr {
	return &LiteralExpr{Val: v}
}

// IntLit creates an integer literal.
func IntLit(v int64) Expr {
	return &LiteralExpr{Val: IntValue{Val: v}}
}

// BoolLit creates a boolean literal.
func BoolLit(v bool) Expr {
	return &LiteralExpr{Val: BoolValue{Val: v}}
}

// StrLit creates a string literal.
func StrLit(v string) Expr {
	return &LiteralExpr{Val: StringValue{Val: v}}
}

// NullLit creates a null literal.
func NullLit() Expr {
	return &LiteralExpr{Val: NullValue{}}
}

// IsType creates a type test x is typ.
func IsType(x Expr, typ string) Expr {
	return &IsTypeExpr{X: x, Type: typ}
}

// Is creates a pattern test x is pat.
func Is(x Expr, pat Pattern) Expr {
	return &IsPatternExpr{X: x, Pat: pat}
}

// Call creates an opaque call expression.
func Call(fn string, args ...Expr) Expr {
	return &CallExpr{Func: fn, Args: args}
}
