package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gnolang/repat/internal/sem"
	tt "github.com/gnolang/repat/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writeFragmentFile writes fragment source into a temp directory and
// returns its path. The directory is removed after the test.
func writeFragmentFile(t testing.TB, name, content string) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "engine_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	path := filepath.Join(tempDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fragmentSource = `// payment guards
e is C c && c.P == 1
case { P: var v } when v.Q == 1 && ready(v)

a.b == 1 && a.c == 2
x > 2
broken ((
`

func TestEngineRun(t *testing.T) {
	t.Parallel()
	path := writeFragmentFile(t, "guards.cond", fragmentSource)

	engine := New(sem.Permissive(), nil, false)
	got, err := engine.Run(path)
	require.NoError(t, err)

	want := []tt.Suggestion{
		{
			Rule:       UseRecursivePattern,
			Category:   "pattern-matching",
			Severity:   tt.SeverityWarning,
			Filename:   path,
			Message:    messageUseRecursive,
			Original:   "e is C c && c.P == 1",
			Suggested:  "e is C { P: 1 } c",
			Start:      tt.Position{Line: 2, Column: 1},
			End:        tt.Position{Line: 2, Column: 21},
			Confidence: confidenceUnverified,
		},
		{
			Rule:       MergeGuardPattern,
			Category:   "pattern-matching",
			Severity:   tt.SeverityWarning,
			Filename:   path,
			Message:    messageMergeGuard,
			Original:   "case { P: var v } when v.Q == 1 && ready(v)",
			Suggested:  "case { P: { Q: 1 } v } when ready(v)",
			Start:      tt.Position{Line: 3, Column: 1},
			End:        tt.Position{Line: 3, Column: 44},
			Confidence: confidenceUnverified,
		},
		{
			Rule:       UseRecursivePattern,
			Category:   "pattern-matching",
			Severity:   tt.SeverityWarning,
			Filename:   path,
			Message:    messageUseRecursive,
			Original:   "a.b == 1 && a.c == 2",
			Suggested:  "a is { b: 1, c: 2 }",
			Start:      tt.Position{Line: 5, Column: 1},
			End:        tt.Position{Line: 5, Column: 21},
			Confidence: confidenceUnverified,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineRunSourceVerified(t *testing.T) {
	t.Parallel()
	engine := New(sem.Permissive(), nil, true)

	got, err := engine.RunSource([]byte("e is C c && c.P == 1\n"))
	require.NoError(t, err)

	want := []tt.Suggestion{
		{
			Rule:       UseRecursivePattern,
			Category:   "pattern-matching",
			Severity:   tt.SeverityWarning,
			Message:    messageUseRecursive,
			Original:   "e is C c && c.P == 1",
			Suggested:  "e is C { P: 1 } c",
			Note:       "verified equivalent across sampled receiver shapes",
			Start:      tt.Position{Line: 1, Column: 1},
			End:        tt.Position{Line: 1, Column: 21},
			Confidence: confidenceVerified,
			Verified:   true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineRunSourceGuardSimplified(t *testing.T) {
	t.Parallel()
	engine := New(sem.Permissive(), nil, false)

	// The guard is fully consumed, so the designation it referenced is
	// dropped from the suggested arm.
	got, err := engine.RunSource([]byte("case { P: var v } when v.Q == 1\n"))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "case { P: { Q: 1 } }", got[0].Suggested)
}

func TestEngineIgnoreRule(t *testing.T) {
	t.Parallel()
	path := writeFragmentFile(t, "guards.cond", fragmentSource)

	engine := New(sem.Permissive(), nil, false)
	engine.IgnoreRule(UseRecursivePattern)

	got, err := engine.Run(path)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, MergeGuardPattern, got[0].Rule)
}

func TestEngineRuleConfig(t *testing.T) {
	t.Parallel()
	path := writeFragmentFile(t, "guards.cond", fragmentSource)

	engine := New(sem.Permissive(), map[string]tt.ConfigRule{
		UseRecursivePattern: {Severity: tt.SeverityError},
		MergeGuardPattern:   {Severity: tt.SeverityOff},
		"golangci-lint":     {Severity: tt.SeverityError}, // unknown rules are skipped
	}, false)

	got, err := engine.Run(path)
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, sugg := range got {
		assert.Equal(t, UseRecursivePattern, sugg.Rule)
		assert.Equal(t, tt.SeverityError, sugg.Severity)
	}
}

func TestEngineRunAt(t *testing.T) {
	t.Parallel()
	path := writeFragmentFile(t, "guards.cond", fragmentSource)

	engine := New(sem.Permissive(), nil, false)

	t.Run("cursor on expression fragment", func(t *testing.T) {
		t.Parallel()
		got, err := engine.RunAt(path, 5, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, UseRecursivePattern, got[0].Rule)
		assert.Equal(t, "a is { b: 1, c: 2 }", got[0].Suggested)
	})

	t.Run("cursor on case fragment", func(t *testing.T) {
		t.Parallel()
		got, err := engine.RunAt(path, 3, 6)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, MergeGuardPattern, got[0].Rule)
	})

	t.Run("cursor on unrewritable fragment", func(t *testing.T) {
		t.Parallel()
		got, err := engine.RunAt(path, 6, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("cursor off any fragment", func(t *testing.T) {
		t.Parallel()
		got, err := engine.RunAt(path, 1, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEngineRunMissingFile(t *testing.T) {
	t.Parallel()
	engine := New(sem.Permissive(), nil, false)
	_, err := engine.Run(filepath.Join(t.TempDir(), "absent.cond"))
	assert.Error(t, err)
}

func TestSortSuggestions(t *testing.T) {
	t.Parallel()
	suggs := []tt.Suggestion{
		{Rule: "b", Start: tt.Position{Line: 2, Column: 1}},
		{Rule: "a", Start: tt.Position{Line: 2, Column: 1}},
		{Rule: "c", Start: tt.Position{Line: 1, Column: 9}},
		{Rule: "c", Start: tt.Position{Line: 1, Column: 2}},
	}
	sortSuggestions(suggs)

	want := []tt.Suggestion{
		{Rule: "c", Start: tt.Position{Line: 1, Column: 2}},
		{Rule: "c", Start: tt.Position{Line: 1, Column: 9}},
		{Rule: "a", Start: tt.Position{Line: 2, Column: 1}},
		{Rule: "b", Start: tt.Position{Line: 2, Column: 1}},
	}
	if diff := cmp.Diff(want, suggs); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
