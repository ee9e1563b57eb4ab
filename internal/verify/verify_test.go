package verify

import (
	"strings"
	"testing"

	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/parse"
)

func parseExpr(t *testing.T, src string) ir.Expr {
	t.Helper()
	node, err := parse.ParseFragment(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	e, ok := node.(ir.Expr)
	if !ok {
		t.Fatalf("fragment %q is not an expression", src)
	}
	return e
}

func parseArm(t *testing.T, src string) *ir.Arm {
	t.Helper()
	node, err := parse.ParseFragment(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	arm, ok := node.(*ir.Arm)
	if !ok {
		t.Fatalf("fragment %q is not a case arm", src)
	}
	return arm
}

func TestCheckExprsEquivalent(t *testing.T) {
	pairs := [][2]string{
		{"a.b == 1 && a.c == 2", "a is { b: 1, c: 2 }"},
		{"a?.b == 1 && a?.c == 2", "a is { b: 1, c: 2 }"},
		{"e is C c && c.P == 1", "e is C { P: 1 } c"},
		{"a.x.b == 1 && a.x.c == 2", "a.x is { b: 1, c: 2 }"},
		{"a is C && a.b == 1", "a is C { b: 1 }"},
		{"a.b >= 3 && a.c == 2", "a is { b: >= 3, c: 2 }"},
		// The negated constant still matches a null field, and a null
		// receiver short-circuits both sides to false.
		{"a?.b != 1 && a?.c == 2", "a is { b: not 1, c: 2 }"},
	}
	v := New()
	for _, pair := range pairs {
		report := v.CheckExprs(parseExpr(t, pair[0]), parseExpr(t, pair[1]))
		if report.Result != Equivalent {
			t.Errorf("%q vs %q: got %s (%s; %s), want equivalent",
				pair[0], pair[1], report.Result, report.Reason, report.Detail)
		}
	}
}

func TestCheckExprsNullConditionalDivergence(t *testing.T) {
	// A null receiver makes the lone inequality true but no pattern
	// matches null.
	report := New().CheckExprs(
		parseExpr(t, "a?.b != 1"),
		parseExpr(t, "a is { b: not 1 }"),
	)
	if report.Result != NotEquivalent {
		t.Fatalf("got %s, want not-equivalent", report.Result)
	}
	if !strings.Contains(report.Detail, "a = null") {
		t.Errorf("counterexample %q does not pin the null receiver", report.Detail)
	}
}

func TestCheckExprsNullComparisonDivergence(t *testing.T) {
	report := New().CheckExprs(
		parseExpr(t, "a?.b == null"),
		parseExpr(t, "a is { b: null }"),
	)
	if report.Result != NotEquivalent {
		t.Fatalf("got %s, want not-equivalent", report.Result)
	}
}

func TestCheckExprsFaultIntroduction(t *testing.T) {
	// Dropping the null guard turns a short-circuited false into a fault.
	report := New().CheckExprs(
		parseExpr(t, "a != null && a.b == 1"),
		parseExpr(t, "a.b == 1"),
	)
	if report.Result != NotEquivalent {
		t.Fatalf("got %s, want not-equivalent", report.Result)
	}
	if !strings.Contains(report.Reason, "failing member access") {
		t.Errorf("reason %q does not name the introduced fault", report.Reason)
	}
}

func TestCheckExprsUnknown(t *testing.T) {
	report := New().CheckExprs(parseExpr(t, "f(x)"), parseExpr(t, "g(x)"))
	if report.Result != Unknown {
		t.Fatalf("got %s, want unknown", report.Result)
	}
}

func TestCheckArms(t *testing.T) {
	v := New()

	t.Run("guard fold is equivalent", func(t *testing.T) {
		report := v.CheckArms(
			parseArm(t, "case C c when c.P == 1"),
			parseArm(t, "case C { P: 1 } c"),
		)
		if report.Result != Equivalent {
			t.Fatalf("got %s (%s; %s), want equivalent", report.Result, report.Reason, report.Detail)
		}
	})

	t.Run("opaque guard remainder stays conclusive", func(t *testing.T) {
		report := v.CheckArms(
			parseArm(t, "case { P: var v } when v.Q == 1 && ready(v)"),
			parseArm(t, "case { P: { Q: 1 } v } when ready(v)"),
		)
		if report.Result != Equivalent {
			t.Fatalf("got %s (%s; %s), want equivalent", report.Result, report.Reason, report.Detail)
		}
	})

	t.Run("inverted guard is rejected", func(t *testing.T) {
		report := v.CheckArms(
			parseArm(t, "case C c when c.P != 1"),
			parseArm(t, "case C { P: 1 } c"),
		)
		if report.Result != NotEquivalent {
			t.Fatalf("got %s, want not-equivalent", report.Result)
		}
	})
}

func TestEvaluatorShortCircuit(t *testing.T) {
	nullWorld := world{env: map[string]value{"a": nullVal{}}}

	if got := newEvaluator(nullWorld).test(parseExpr(t, "a != null && a.b == 1")); got != outFalse {
		t.Errorf("guarded access on null: got %s, want false", got)
	}
	if got := newEvaluator(nullWorld).test(parseExpr(t, "a == null && a.b == 1")); got != outFault {
		t.Errorf("unguarded access on null: got %s, want fault", got)
	}
	if got := newEvaluator(nullWorld).test(parseExpr(t, "a?.b == 1")); got != outFalse {
		t.Errorf("null-conditional comparison: got %s, want false", got)
	}
	if got := newEvaluator(nullWorld).test(parseExpr(t, "a?.b != 1")); got != outTrue {
		t.Errorf("null-conditional inequality: got %s, want true", got)
	}
	if got := newEvaluator(nullWorld).test(parseExpr(t, "a?.b.c == 1")); got != outFalse {
		t.Errorf("propagation through the chain: got %s, want false", got)
	}
}

func TestEvaluatorBindingsFlow(t *testing.T) {
	obj := func(typeName string, p int64) value {
		return &objVal{typeName: typeName, fields: map[string]value{"P": intVal{v: p}}}
	}
	e := parseExpr(t, "e is C c && c.P == 1")

	cases := []struct {
		name string
		val  value
		want outcome
	}{
		{"matching object", obj("C", 1), outTrue},
		{"field mismatch", obj("C", 2), outFalse},
		{"type mismatch", obj("D", 1), outFalse},
		{"null scrutinee", nullVal{}, outFalse},
	}
	for _, tc := range cases {
		w := world{env: map[string]value{"e": tc.val}}
		if got := newEvaluator(w).test(e); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestMatchSemantics(t *testing.T) {
	t.Run("var pattern matches null and binds it", func(t *testing.T) {
		out, bindings := match(ir.PatVar("v"), nullVal{})
		if out != outTrue {
			t.Fatalf("got %s, want true", out)
		}
		if !isNull(bindings["v"]) {
			t.Errorf("binding v = %v, want null", bindings["v"])
		}
	})

	t.Run("empty recursive pattern is a null test", func(t *testing.T) {
		if out, _ := match(ir.Rec(), intVal{v: 7}); out != outTrue {
			t.Errorf("non-null value: got %s, want true", out)
		}
		if out, _ := match(ir.Rec(), nullVal{}); out != outFalse {
			t.Errorf("null value: got %s, want false", out)
		}
	})

	t.Run("relational pattern excludes null", func(t *testing.T) {
		if out, _ := match(ir.PatRel(ir.OpGt, ir.IntValue{Val: 5}), nullVal{}); out != outFalse {
			t.Errorf("null value: got %s, want false", out)
		}
		if out, _ := match(ir.PatRel(ir.OpGt, ir.IntValue{Val: 5}), intVal{v: 6}); out != outTrue {
			t.Errorf("ordered value: got %s, want true", out)
		}
	})

	t.Run("negation discards bindings", func(t *testing.T) {
		out, bindings := match(ir.PatNot(ir.PatDecl("C", "c")), nullVal{})
		if out != outTrue {
			t.Fatalf("got %s, want true", out)
		}
		if len(bindings) != 0 {
			t.Errorf("bindings = %v, want none", bindings)
		}
	})
}

func TestSampleWorldsCoverHazards(t *testing.T) {
	worlds := exprWorlds(
		parseExpr(t, "a.b == 1 && a.c == 2"),
		parseExpr(t, "a is { b: 1, c: 2 }"),
	)

	var sawNullRoot, sawBoundary bool
	for _, w := range worlds {
		if isNull(w.env["a"]) {
			sawNullRoot = true
		}
		if obj, ok := w.env["a"].(*objVal); ok {
			if b, ok := obj.fields["b"].(intVal); ok && b.v == 2 {
				sawBoundary = true
			}
		}
	}
	if !sawNullRoot {
		t.Error("no sampled world nulls the receiver")
	}
	if !sawBoundary {
		t.Error("no sampled world probes the off-by-one boundary")
	}
}
