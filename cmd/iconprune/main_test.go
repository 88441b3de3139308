package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/icon-pruner/pkg/models"
)

// newTestCommand 创建带有相同参数的独立命令，避免测试之间共享状态
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	opts = options{}
	cmd := &cobra.Command{Use: "iconprune"}
	bindFlags(cmd.Flags(), &opts)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "iconprune.yaml")
	content := "source_root: /from-file/src\nicon_root: /from-file/oxygen\nlog_level: WARN\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	t.Setenv("ICONPRUNE_SOURCE_ROOT", "/from-env/src")
	t.Setenv("ICONPRUNE_ICON_ROOT", "/from-env/oxygen")

	cmd := newTestCommand(t, "--config", configFile, "--icons", "/from-flag/oxygen", "--dry-run")
	config, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "/from-env/src", config.SourceRoot)
	assert.Equal(t, "/from-flag/oxygen", config.IconRoot)
	assert.Equal(t, "WARN", config.LogLevel)
	assert.True(t, config.DryRun)
	assert.Equal(t, models.BackendWalk, config.SearchBackend)
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd := newTestCommand(t)
	config, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, models.NewDefaultConfig(), config)
}

func TestLoadConfigInvalidBackend(t *testing.T) {
	cmd := newTestCommand(t, "--backend", "ripgrep")
	_, err := loadConfig(cmd)

	var validationErr *models.ConfigValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "SearchBackend", validationErr.Field)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := newTestCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := loadConfig(cmd)
	assert.Error(t, err)
}
