package formatter

import (
	"strings"

	"github.com/gnolang/repat/internal/ir"
)

// Operator tiers of the fragment grammar, loosest binding first.
const (
	precAnd = iota + 1
	precCmp
	precUnary
	precPrimary
)

// Render renders a tree in its user-facing source form. Unlike the ir
// String methods, which parenthesize every binary node, Render emits only
// the parentheses the grammar needs to reproduce the tree.
func Render(n ir.Node) string {
	switch n := n.(type) {
	case *ir.Arm:
		s := "case " + n.Pattern.String()
		if n.Guard != nil {
			s += " when " + renderExpr(n.Guard, precAnd)
		}
		return s
	case ir.Expr:
		return renderExpr(n, precAnd)
	default:
		return n.String()
	}
}

func renderExpr(e ir.Expr, ctx int) string {
	var s string
	switch e := e.(type) {
	case *ir.IdentExpr:
		s = e.Name
	case *ir.LiteralExpr:
		s = e.Val.String()
	case *ir.MemberExpr:
		s = renderExpr(e.X, precPrimary) + "." + e.Name
	case *ir.NullSafeExpr:
		s = renderExpr(e.X, precPrimary) + "?." + e.Name
	case *ir.CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = renderExpr(arg, precAnd)
		}
		s = e.Func + "(" + strings.Join(args, ", ") + ")"
	case *ir.UnaryExpr:
		s = e.Op.String() + renderExpr(e.Operand, precUnary)
	case *ir.IsTypeExpr:
		s = renderExpr(e.X, precUnary) + " is " + e.Type
	case *ir.IsPatternExpr:
		s = renderExpr(e.X, precUnary) + " is " + e.Pat.String()
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			// Left-associative: only a right operand that is itself a
			// conjunction needs parentheses.
			s = renderExpr(e.Left, precAnd) + " && " + renderExpr(e.Right, precCmp)
		} else {
			s = renderExpr(e.Left, precUnary) + " " + e.Op.String() + " " + renderExpr(e.Right, precUnary)
		}
	default:
		s = e.String()
	}
	if prec(e) < ctx {
		return "(" + s + ")"
	}
	return s
}

func prec(e ir.Expr) int {
	switch e := e.(type) {
	case *ir.BinaryExpr:
		if e.Op == ir.OpAnd {
			return precAnd
		}
		return precCmp
	case *ir.IsTypeExpr, *ir.IsPatternExpr:
		return precCmp
	case *ir.UnaryExpr:
		return precUnary
	default:
		return precPrimary
	}
}
