// Package engine runs the rewrite rules over parsed fragment files and
// collects positioned suggestions.
package engine

import (
	"sort"
	"sync"

	"github.com/gnolang/repat/internal/ir"
	"github.com/gnolang/repat/internal/parse"
	"github.com/gnolang/repat/internal/sem"
	"github.com/gnolang/repat/internal/synth"
	tt "github.com/gnolang/repat/internal/types"
	"github.com/gnolang/repat/internal/verify"
)

// Engine manages the rewrite rules.
type Engine struct {
	ignoredRules map[string]bool
	rules        map[string]RewriteRule
	severities   map[string]tt.Severity
	synth        *synth.Synthesizer
	verifier     *verify.Verifier
}

// New creates an engine answering semantic queries from oracle. When
// verifyRewrites is set every suggestion carries an equivalence verdict,
// and rewrites the verifier refutes are dropped.
func New(oracle sem.Oracle, rules map[string]tt.ConfigRule, verifyRewrites bool) *Engine {
	engine := &Engine{synth: synth.New(oracle)}
	if verifyRewrites {
		engine.verifier = verify.New()
	}
	engine.applyRules(rules)
	return engine
}

type ruleConstructor func(s *synth.Synthesizer, v *verify.Verifier) RewriteRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	UseRecursivePattern: NewUseRecursivePatternRule,
	MergeGuardPattern:   NewMergeGuardPatternRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]RewriteRule)
	e.severities = make(map[string]tt.Severity)
	for key, newRuleCstr := range allRuleConstructors {
		e.rules[key] = newRuleCstr(e.synth, e.verifier)
		e.severities[key] = tt.SeverityWarning
	}

	for key, rule := range rules {
		if _, known := e.rules[key]; !known {
			// Unknown rule, continue to the next one.
			continue
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
			continue
		}
		e.severities[key] = rule.Severity
	}
}

// Run applies all rewrite rules to the given fragment file and returns the
// suggestions sorted by position.
func (e *Engine) Run(filename string) ([]tt.Suggestion, error) {
	doc, err := parse.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return e.runDocument(doc), nil
}

// RunSource applies all rewrite rules to in-memory fragment source.
func (e *Engine) RunSource(source []byte) ([]tt.Suggestion, error) {
	return e.runDocument(parse.ParseSource("", source)), nil
}

// RunDocument applies all rewrite rules to an already-parsed document.
// Callers that need the document's parse errors alongside the
// suggestions parse once and hand the document here.
func (e *Engine) RunDocument(doc *parse.Document) []tt.Suggestion {
	return e.runDocument(doc)
}

// RunAt probes the fragment under a cursor position and returns the
// suggestion for it, if any. line and col are 1-based file coordinates.
func (e *Engine) RunAt(filename string, line, col int) ([]tt.Suggestion, error) {
	doc, err := parse.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	for _, frag := range doc.Fragments {
		if frag.Line != line {
			continue
		}
		name, message := UseRecursivePattern, messageUseRecursive
		if _, ok := frag.Node.(*ir.Arm); ok {
			name, message = MergeGuardPattern, messageMergeGuard
		}
		if e.ignoredRules[name] {
			return nil, nil
		}
		sugg, ok := suggestFragment(e.synth, e.verifier, name, message, filename, frag, col-1)
		if !ok {
			return nil, nil
		}
		sugg.Severity = e.severities[name]
		return []tt.Suggestion{sugg}, nil
	}
	return nil, nil
}

// IgnoreRule suppresses a rule for the lifetime of the engine.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

func (e *Engine) runDocument(doc *parse.Document) []tt.Suggestion {
	var wg sync.WaitGroup
	var mu sync.Mutex

	var all []tt.Suggestion
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r RewriteRule) {
			defer wg.Done()
			if e.ignoredRules[r.Name()] {
				return
			}
			suggestions, err := r.Check(doc.Filename, doc)
			if err != nil {
				return
			}
			for i := range suggestions {
				suggestions[i].Severity = e.severities[r.Name()]
			}

			mu.Lock()
			all = append(all, suggestions...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	sortSuggestions(all)
	return all
}

// sortSuggestions orders suggestions by position, then rule name, for a
// deterministic report.
func sortSuggestions(suggs []tt.Suggestion) {
	sort.Slice(suggs, func(i, j int) bool {
		if suggs[i].Start.Line != suggs[j].Start.Line {
			return suggs[i].Start.Line < suggs[j].Start.Line
		}
		if suggs[i].Start.Column != suggs[j].Start.Column {
			return suggs[i].Start.Column < suggs[j].Start.Column
		}
		return suggs[i].Rule < suggs[j].Rule
	})
}
