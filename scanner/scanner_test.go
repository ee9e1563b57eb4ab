package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "scanner-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	files := map[string]string{
		"guards.cond":        "a.b == 1 && a.c == 2",
		"notes.txt":          "not a fragment file",
		"orders/pay.cond":    "e is C c && c.P == 1",
		"orders/README.md":   "docs",
		"orders/refund.cond": "case { P: var v } when v.Q == 1",
	}

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	scanner := New(tempDir)
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	require.Len(t, scannedFiles, 3)
	for _, file := range scannedFiles {
		assert.Greater(t, file.Size, int64(0))
	}

	// Scan returns paths in sorted order.
	assert.Equal(t, filepath.Join(tempDir, "guards.cond"), scannedFiles[0].Path)
	assert.Equal(t, filepath.Join(tempDir, "orders", "pay.cond"), scannedFiles[1].Path)
	assert.Equal(t, filepath.Join(tempDir, "orders", "refund.cond"), scannedFiles[2].Path)
}

func TestScannerExplicitExtensions(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "scanner-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	for _, name := range []string{"a.cond", "b.guard", "c.txt"} {
		err := os.WriteFile(filepath.Join(tempDir, name), []byte("x > 1"), 0o644)
		require.NoError(t, err)
	}

	scanner := New(tempDir, ".cond", ".guard")
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	require.Len(t, scannedFiles, 2)
	assert.Equal(t, filepath.Join(tempDir, "a.cond"), scannedFiles[0].Path)
	assert.Equal(t, filepath.Join(tempDir, "b.guard"), scannedFiles[1].Path)
}

func TestScannerMissingRoot(t *testing.T) {
	scanner := New(filepath.Join(t.TempDir(), "absent"))
	_, err := scanner.Scan()
	assert.Error(t, err)
}
