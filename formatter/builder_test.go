package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tt "github.com/gnolang/repat/internal/types"
)

func TestGenerateFormattedSuggestion(t *testing.T) {
	t.Parallel()
	code := &SourceCode{
		Lines: []string{
			"// payment guards",
			"e is C c && c.P == 1",
		},
	}

	suggestions := []tt.Suggestion{
		{
			Rule:      UseRecursivePattern,
			Severity:  tt.SeverityWarning,
			Filename:  "guards.cond",
			Message:   "comparison chain can fold into the pattern",
			Original:  "e is C c && c.P == 1",
			Suggested: "e is C { P: 1 } c",
			Note:      "verified equivalent across sampled receiver shapes",
			Start:     tt.Position{Line: 2, Column: 1},
			End:       tt.Position{Line: 2, Column: 21},
		},
	}

	expected := `warning: use-recursive-pattern
 --> guards.cond:2:1
  |
2 | e is C c && c.P == 1
  | ~~~~~~~~~~~~~~~~~~~~
  = comparison chain can fold into the pattern

Suggestion:
  |
2 | e is C { P: 1 } c
  |

Note: verified equivalent across sampled receiver shapes

`

	result := GenerateFormattedSuggestion(suggestions, code)
	assert.Equal(t, expected, result, "formatted output does not match expected")
}

func TestGenerateFormattedSuggestionWithoutNote(t *testing.T) {
	t.Parallel()
	code := &SourceCode{
		Lines: []string{
			"case { P: var v } when v.Q == 1",
		},
	}

	suggestions := []tt.Suggestion{
		{
			Rule:      MergeGuardPattern,
			Severity:  tt.SeverityError,
			Filename:  "arms.cond",
			Message:   "guard term can merge into the arm pattern",
			Suggested: "case { P: { Q: 1 } }",
			Start:     tt.Position{Line: 1, Column: 1},
			End:       tt.Position{Line: 1, Column: 32},
		},
	}

	expected := `error: merge-guard-pattern
 --> arms.cond:1:1
  |
1 | case { P: var v } when v.Q == 1
  | ~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~
  = guard term can merge into the arm pattern

Suggestion:
  |
1 | case { P: { Q: 1 } }
  |

`

	result := GenerateFormattedSuggestion(suggestions, code)
	assert.Equal(t, expected, result)
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"no indent", []string{"a && b"}, ""},
		{"shared spaces", []string{"    a,", "    b"}, "    "},
		{"mixed depth", []string{"    a,", "  b"}, "  "},
		{"blank lines ignored", []string{"  a", "", "  b"}, "  "},
		{"empty input", nil, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, findCommonIndent(tc.lines))
		})
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, calculateVisualColumn("abc", 1))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
	// A leading tab expands to the next tab stop.
	assert.Equal(t, tabWidth, calculateVisualColumn("\tabc", 2))
	assert.Equal(t, 0, calculateVisualColumn("abc", -1))
}
