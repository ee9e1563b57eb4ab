package engine

import (
	"github.com/gnolang/repat/formatter"
	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/parse"
	"github.com/gnolang/repat/internal/synth"
	tt "github.com/gnolang/repat/internal/types"
	"github.com/gnolang/repat/internal/verify"
)

// Rule names as they appear in configuration.
const (
	UseRecursivePattern = "use-recursive-pattern"
	MergeGuardPattern   = "merge-guard-pattern"
)

const (
	messageUseRecursive = "comparison chain can fold into one structural pattern"
	messageMergeGuard   = "guard term can merge into the arm pattern"
)

// Confidence carried by a suggestion, by verification outcome. The fixer's
// default gate sits between the verified and unverified values.
const (
	confidenceVerified   = 0.95
	confidenceUnverified = 0.8
	confidenceUnknown    = 0.6
)

// RewriteRule defines the interface for all rewrite rules.
type RewriteRule interface {
	// Check runs the rule on a parsed document and returns its suggestions.
	Check(filename string, doc *parse.Document) ([]tt.Suggestion, error)

	// Name returns the rule's configuration name.
	Name() string
}

// UseRecursivePatternRule rewrites &&-joined comparison chains into
// structural pattern tests.
type UseRecursivePatternRule struct {
	synth    *synth.Synthesizer
	verifier *verify.Verifier
}

func NewUseRecursivePatternRule(s *synth.Synthesizer, v *verify.Verifier) RewriteRule {
	return &UseRecursivePatternRule{synth: s, verifier: v}
}

func (r *UseRecursivePatternRule) Name() string { return UseRecursivePattern }

func (r *UseRecursivePatternRule) Check(filename string, doc *parse.Document) ([]tt.Suggestion, error) {
	var suggestions []tt.Suggestion
	for _, frag := range doc.Fragments {
		if _, ok := frag.Node.(ir.Expr); !ok {
			continue
		}
		sugg, ok := suggestFragment(r.synth, r.verifier, r.Name(), messageUseRecursive, filename, frag, synth.Anchor(frag.Node))
		if !ok {
			continue
		}
		suggestions = append(suggestions, sugg)
	}
	return suggestions, nil
}

// MergeGuardPatternRule folds guard clauses of case fragments into the
// arm's own pattern.
type MergeGuardPatternRule struct {
	synth    *synth.Synthesizer
	verifier *verify.Verifier
}

func NewMergeGuardPatternRule(s *synth.Synthesizer, v *verify.Verifier) RewriteRule {
	return &MergeGuardPatternRule{synth: s, verifier: v}
}

func (r *MergeGuardPatternRule) Name() string { return MergeGuardPattern }

func (r *MergeGuardPatternRule) Check(filename string, doc *parse.Document) ([]tt.Suggestion, error) {
	var suggestions []tt.Suggestion
	for _, frag := range doc.Fragments {
		if _, ok := frag.Node.(*ir.Arm); !ok {
			continue
		}
		sugg, ok := suggestFragment(r.synth, r.verifier, r.Name(), messageMergeGuard, filename, frag, synth.Anchor(frag.Node))
		if !ok {
			continue
		}
		suggestions = append(suggestions, sugg)
	}
	return suggestions, nil
}

// suggestFragment probes one fragment at pos and assembles the suggestion
// for it, running the equivalence check when a verifier is configured.
func suggestFragment(s *synth.Synthesizer, v *verify.Verifier, rule, message, filename string, frag parse.Fragment, pos int) (tt.Suggestion, bool) {
	rw, ok := s.TryBuildRewrite(frag.Node, pos)
	if !ok {
		return tt.Suggestion{}, false
	}

	sugg := tt.Suggestion{
		Rule:       rule,
		Category:   "pattern-matching",
		Filename:   filename,
		Message:    message,
		Original:   fragmentText(frag, rw.Fragment),
		Confidence: confidenceUnverified,
		Start:      tt.Position{Line: frag.Line, Column: rw.Fragment.Span().Start + 1},
		End:        tt.Position{Line: frag.Line, Column: rw.Fragment.Span().End + 1},
	}

	result := rw.Result
	if rw.Hints&synth.HintSimplify != 0 {
		result = formatter.Simplify(result)
	}
	sugg.Suggested = formatter.Render(result)

	if v != nil {
		report := v.Check(rw)
		switch report.Result {
		case verify.Equivalent:
			sugg.Verified = true
			sugg.Confidence = confidenceVerified
			sugg.Note = "verified equivalent across sampled receiver shapes"
		case verify.NotEquivalent:
			// The rewrite would change behavior; never suggest it.
			return tt.Suggestion{}, false
		default:
			sugg.Confidence = confidenceUnknown
			sugg.Note = "not verified: " + report.Reason
		}
	}
	return sugg, true
}

// fragmentText slices the replaced span out of the fragment line.
func fragmentText(frag parse.Fragment, n ir.Node) string {
	span := n.Span()
	if span.Start < 0 || span.End > len(frag.Source) || span.Start >= span.End {
		return frag.Source
	}
	return frag.Source[span.Start:span.End]
}
