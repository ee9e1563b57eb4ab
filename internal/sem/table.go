package sem

import (
	"fmt"

	"github.com/gnolang/repat/internal/ir"
)

// Table is an Oracle backed by declared facts. Literals always fold;
// identifiers and dotted paths fold when declared as constants; names
// classify according to their declarations.
type Table struct {
	symbols      map[string]Symbol
	consts       map[string]ir.Value
	allowUnknown bool
}

// NewTable builds a Table from declared symbol and constant facts.
// A name declared both as a symbol and as a constant is contradictory and
// rejected, as is a duplicate declaration of either kind.
func NewTable(symbols map[string]Symbol, consts map[string]ir.Value, allowUnknown bool) (*Table, error) {
	t := &Table{
		symbols:      make(map[string]Symbol, len(symbols)),
		consts:       make(map[string]ir.Value, len(consts)),
		allowUnknown: allowUnknown,
	}
	for name, sym := range symbols {
		t.symbols[name] = sym
	}
	for name, val := range consts {
		if _, dup := t.symbols[name]; dup {
			return nil, fmt.Errorf("name %q declared as both symbol and constant", name)
		}
		t.consts[name] = val
	}
	return t, nil
}

// Permissive returns the default oracle used when no configuration is
// supplied: every member name is a plain non-static property, no bare
// identifier converts, and only literals fold.
func Permissive() *Table {
	return &Table{
		symbols:      map[string]Symbol{},
		consts:       map[string]ir.Value{},
		allowUnknown: true,
	}
}

// ConstantValue implements ConstEvaluator. It folds literals, negated
// integer literals, and declared constant paths.
func (t *Table) ConstantValue(e ir.Expr) (ir.Value, bool) {
	switch e := e.(type) {
	case *ir.LiteralExpr:
		return e.Val, true
	case *ir.UnaryExpr:
		if e.Op != ir.OpNeg {
			return nil, false
		}
		inner, ok := t.ConstantValue(e.Operand)
		if !ok {
			return nil, false
		}
		iv, ok := inner.(ir.IntValue)
		if !ok {
			return nil, false
		}
		return ir.IntValue{Val: -iv.Val}, true
	case *ir.IdentExpr, *ir.MemberExpr:
		path, ok := constPath(e)
		if !ok {
			return nil, false
		}
		val, ok := t.consts[path]
		return val, ok
	default:
		return nil, false
	}
}

// ClassifyName implements SymbolClassifier.
func (t *Table) ClassifyName(name string) (Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// AllowsUnknown implements SymbolClassifier.
func (t *Table) AllowsUnknown() bool {
	return t.allowUnknown
}

// constPath renders a pure identifier/member chain as a dotted name.
func constPath(e ir.Expr) (string, bool) {
	switch e := e.(type) {
	case *ir.IdentExpr:
		return e.Name, true
	case *ir.MemberExpr:
		base, ok := constPath(e.X)
		if !ok {
			return "", false
		}
		return base + "." + e.Name, true
	default:
		return "", false
	}
}
