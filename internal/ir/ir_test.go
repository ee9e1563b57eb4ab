package ir

import "testing"

func TestExprString(t *testing.T) {
	// a?.b == 1 && c is C { P: 1 } c
	left := Eq(NullSafe(Ident("a"), "b"), IntLit(1))
	right := Is(Ident("c"), &RecursivePattern{Type: "C", Fields: []Field{F("P", PatInt(1))}, Binding: "c"})
	e := And(left, right)

	want := "((a?.b == 1) && c is C { P: 1 } c)"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPatternString(t *testing.T) {
	cases := []struct {
		pat  Pattern
		want string
	}{
		{PatVar("v"), "var v"},
		{PatDecl("C", "c"), "C c"},
		{PatType("C"), "C"},
		{PatInt(42), "42"},
		{PatRel(OpGt, IntValue{Val: 5}), "> 5"},
		{PatNot(PatNull()), "not null"},
		{PatAnd(PatType("C"), PatInt(1)), "(C) and (1)"},
		{Rec(), "{ }"},
		{Rec(F("a", PatInt(1)), F("b", PatInt(2))), "{ a: 1, b: 2 }"},
		{&RecursivePattern{Type: "C", Fields: []Field{F("P", PatInt(1))}, Binding: "c"}, "C { P: 1 } c"},
		{&RecursivePattern{Positional: []Pattern{PatInt(1), PatVar("x")}}, "(1, var x) { }"},
	}
	for _, c := range cases {
		if got := c.pat.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestArmString(t *testing.T) {
	arm := &Arm{
		Pattern: Rec(F("P", PatVar("v"))),
		Guard:   Eq(Member(Ident("v"), "Q"), IntLit(1)),
	}
	want := "case { P: var v } when (v.Q == 1)"
	if got := arm.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStructuralEquality(t *testing.T) {
	a := Eq(Member(Ident("a"), "b"), IntLit(1))
	b := Eq(Member(Ident("a"), "b"), IntLit(1))
	c := Eq(Member(Ident("a"), "c"), IntLit(1))

	if !AreStructurallyEqual(a, b) {
		t.Errorf("identical trees reported unequal")
	}
	if AreStructurallyEqual(a, c) {
		t.Errorf("distinct trees reported equal")
	}
}

func TestStructuralEqualityIgnoresSpans(t *testing.T) {
	a := &IdentExpr{Name: "x", Loc: Span{Start: 0, End: 1}}
	b := &IdentExpr{Name: "x", Loc: Span{Start: 10, End: 11}}
	if !AreStructurallyEqual(a, b) {
		t.Errorf("span difference affected equality")
	}
}

func TestStructuralEqualityPatterns(t *testing.T) {
	a := &RecursivePattern{Type: "C", Fields: []Field{F("P", PatInt(1))}, Binding: "c"}
	b := &RecursivePattern{Type: "C", Fields: []Field{F("P", PatInt(1))}, Binding: "c"}
	c := &RecursivePattern{Type: "C", Fields: []Field{F("P", PatInt(2))}, Binding: "c"}

	if !AreStructurallyEqual(a, b) {
		t.Errorf("identical patterns reported unequal")
	}
	if AreStructurallyEqual(a, c) {
		t.Errorf("distinct patterns reported equal")
	}
}

func TestReplaceExpr(t *testing.T) {
	// replace c.P == 1 inside (x && c.P == 1) with c is { P: 1 }
	cmp := Eq(Member(Ident("c"), "P"), IntLit(1))
	root := And(Ident("x"), cmp)
	repl := Is(Ident("c"), Rec(F("P", PatInt(1))))

	out := ReplaceExpr(root, cmp, repl)
	want := "(x && c is { P: 1 })"
	if got := out.String(); got != want {
		t.Errorf("ReplaceExpr = %q, want %q", got, want)
	}
	if root.String() != "(x && (c.P == 1))" {
		t.Errorf("input tree was mutated: %s", root)
	}
}

func TestReplaceExprSharesUntouchedSubtrees(t *testing.T) {
	left := Member(Ident("a"), "b")
	right := Member(Ident("a"), "c")
	root := And(Eq(left, IntLit(1)), Eq(right, IntLit(2))).(*BinaryExpr)

	out := ReplaceExpr(root, right, Ident("r")).(*BinaryExpr)
	if out.Left != root.Left {
		t.Errorf("untouched left operand was copied instead of shared")
	}
}

func TestReplaceExprMatchesByIdentity(t *testing.T) {
	// two structurally identical leaves; only the named one is replaced
	first := IntLit(1)
	second := IntLit(1)
	root := And(Eq(Ident("a"), first), Eq(Ident("b"), second))

	out := ReplaceExpr(root, second, IntLit(2))
	want := "((a == 1) && (b == 2))"
	if got := out.String(); got != want {
		t.Errorf("ReplaceExpr = %q, want %q", got, want)
	}
}

func TestReplaceExprAbsentTarget(t *testing.T) {
	root := Eq(Ident("a"), IntLit(1))
	out := ReplaceExpr(root, Ident("zzz"), IntLit(9))
	if out != root {
		t.Errorf("absent target should return root unchanged")
	}
}

func TestBindings(t *testing.T) {
	pat := &RecursivePattern{
		Type: "C",
		Fields: []Field{
			F("P", PatVar("v")),
			F("Q", PatDecl("D", "d")),
		},
		Binding: "c",
	}
	got := Bindings(pat)
	want := []string{"c", "v", "d"}
	if len(got) != len(want) {
		t.Fatalf("Bindings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Bindings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIdents(t *testing.T) {
	e := And(Eq(Member(Ident("a"), "b"), IntLit(1)), Call("f", Ident("v")))
	got := Idents(e)
	want := []string{"a", "f", "v"}
	if len(got) != len(want) {
		t.Fatalf("Idents = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Idents[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSpanCovers(t *testing.T) {
	s := Span{Start: 3, End: 7}
	if !s.Covers(3) || !s.Covers(6) {
		t.Errorf("span should cover its interior")
	}
	if s.Covers(7) || s.Covers(2) {
		t.Errorf("span should exclude its end and anything before start")
	}
}

func TestFlippedOperators(t *testing.T) {
	cases := []struct {
		op   BinaryOp
		want BinaryOp
	}{
		{OpLt, OpGt},
		{OpLte, OpGte},
		{OpGt, OpLt},
		{OpGte, OpLte},
		{OpEq, OpEq},
		{OpNeq, OpNeq},
	}
	for _, c := range cases {
		if got := c.op.Flipped(); got != c.want {
			t.Errorf("%s.Flipped() = %s, want %s", c.op, got, c.want)
		}
	}
}
