package repat

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/repat/internal/types"
)

func cacheSuggestions(filename string) []tt.Suggestion {
	return []tt.Suggestion{
		{
			Rule:      "use-recursive-pattern",
			Category:  "pattern-matching",
			Severity:  tt.SeverityWarning,
			Filename:  filename,
			Message:   "comparison chain can fold into one structural pattern",
			Original:  "a.b == 1 && a.c == 2",
			Suggested: "a is { b: 1, c: 2 }",
			Start:     tt.Position{Line: 1, Column: 1},
			End:       tt.Position{Line: 1, Column: 21},
		},
	}
}

func TestCache(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cache := NewCache("")

	t.Run("set and get", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "guards.cond")
		require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))

		want := cacheSuggestions(filename)
		require.NoError(t, cache.Set(filename, want))

		got, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		_, found := cache.Get(filepath.Join(tmpDir, "nonexistent.cond"))
		assert.False(t, found)
	})

	t.Run("file modified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.cond")
		require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))

		require.NoError(t, cache.Set(filename, cacheSuggestions(filename)))

		// A content change invalidates the entry even when the
		// modification time is unchanged.
		require.NoError(t, os.WriteFile(filename, []byte("a.b == 9 && a.c == 2\n"), 0o644))

		_, found := cache.Get(filename)
		assert.False(t, found)
	})
}

func TestCacheConfigModified(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	configPath := filepath.Join(tmpDir, ".repat.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("verify: true\n"), 0o644))

	cache := NewCache(configPath)

	filename := filepath.Join(tmpDir, "guards.cond")
	require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))
	require.NoError(t, cache.Set(filename, cacheSuggestions(filename)))

	_, found := cache.Get(filename)
	require.True(t, found)

	// Editing the configuration drops every entry.
	require.NoError(t, os.WriteFile(configPath, []byte("verify: false\n"), 0o644))

	_, found = cache.Get(filename)
	assert.False(t, found)
}

func TestCacheMaxAge(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cache := NewCache("")
	cache.SetMaxAge(time.Nanosecond)

	filename := filepath.Join(tmpDir, "guards.cond")
	require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))
	require.NoError(t, cache.Set(filename, cacheSuggestions(filename)))

	time.Sleep(time.Millisecond)
	_, found := cache.Get(filename)
	assert.False(t, found)
}

func TestCacheInvalidateAll(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cache := NewCache("")

	filename := filepath.Join(tmpDir, "guards.cond")
	require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))
	require.NoError(t, cache.Set(filename, cacheSuggestions(filename)))

	cache.InvalidateAll()

	_, found := cache.Get(filename)
	assert.False(t, found)
}

func TestCacheConcurrency(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-concurrency-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	cache := NewCache("")

	filename := filepath.Join(tmpDir, "guards.cond")
	require.NoError(t, os.WriteFile(filename, []byte("a.b == 1 && a.c == 2\n"), 0o644))

	suggestions := cacheSuggestions(filename)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(filename, suggestions))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(filename)
		}()
	}
	wg.Wait()
}
