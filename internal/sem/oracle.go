// Package sem supplies the semantic facts the rewrite pipeline consults:
// compile-time constant values and symbol classification. The pipeline only
// depends on the Oracle interface; answers must be stable for the duration
// of one synthesis call and safe to read concurrently.
package sem

import "github.com/gnolang/repat/internal/ir"

// SymbolKind categorizes a classified name.
type SymbolKind int

const (
	Field SymbolKind = iota
	Property
)

func (k SymbolKind) String() string {
	switch k {
	case Field:
		return "field"
	case Property:
		return "property"
	default:
		return "unknown"
	}
}

// Symbol describes a classified member name.
type Symbol struct {
	Kind            SymbolKind
	Static          bool
	NullableWrapper bool // declaring type wraps a nullable value
}

// Convertible reports whether the symbol may become a subpattern name:
// a non-static field or property whose declaring type is not a nullable
// wrapper.
func (s Symbol) Convertible() bool {
	return !s.Static && !s.NullableWrapper
}

// ConstEvaluator answers compile-time constant queries.
type ConstEvaluator interface {
	// ConstantValue returns the known constant value of the expression,
	// if it has one.
	ConstantValue(e ir.Expr) (ir.Value, bool)
}

// SymbolClassifier answers name classification queries.
type SymbolClassifier interface {
	// ClassifyName returns the classification of the identifier, if known.
	ClassifyName(name string) (Symbol, bool)

	// AllowsUnknown reports whether member names the classifier has no
	// record of should be treated as plain non-static properties. Bare
	// identifiers are never assumed; they convert only when affirmatively
	// classified.
	AllowsUnknown() bool
}

// Oracle combines constant evaluation and symbol classification.
type Oracle interface {
	ConstEvaluator
	SymbolClassifier
}
