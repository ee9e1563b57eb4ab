// Package ir defines the immutable expression and pattern trees the rewrite
// pipeline operates on. Nodes are never mutated after construction; every
// rewrite allocates new nodes and shares the untouched subtrees.
package ir

// Span locates a node in its source fragment as a half-open byte range.
// Synthesized nodes carry the zero span.
type Span struct {
	Start int
	End   int
}

// Covers reports whether pos falls inside the span.
func (s Span) Covers(pos int) bool { return pos >= s.Start && pos < s.End }

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool { return s.Start == 0 && s.End == 0 }

// Node is implemented by every tree node.
type Node interface {
	Span() Span
	String() string
}

// Arm is a case-label fragment: a pattern with an optional boolean guard.
type Arm struct {
	Pattern Pattern
	Guard   Expr // nil when the arm has no guard clause
	Loc     Span
}

func (a *Arm) Span() Span { return a.Loc }

func (a *Arm) String() string {
	s := "case " + a.Pattern.String()
	if a.Guard != nil {
		s += " when " + a.Guard.String()
	}
	return s
}
