package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/repat"
	tt "github.com/gnolang/repat/internal/types"
)

func TestInitConfigurationFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "init-test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, ".repat.yaml")
	require.NoError(t, initConfigurationFile(path))

	// The generated file must load back as the default configuration.
	cfg, err := repat.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "repat", cfg.Name)
	assert.True(t, cfg.Verify)
	assert.Equal(t, "allow", cfg.UnknownNames)
	assert.Equal(t, tt.ConfigRule{Severity: tt.SeverityWarning}, cfg.Rules["use-recursive-pattern"])
	assert.Equal(t, tt.ConfigRule{Severity: tt.SeverityWarning}, cfg.Rules["merge-guard-pattern"])
}

func TestInitConfigurationFileBadPath(t *testing.T) {
	err := initConfigurationFile(filepath.Join(os.TempDir(), "no-such-dir", ".repat.yaml"))
	require.Error(t, err)
}
