package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "mutator", configBaseName)
	assert.Equal(t, "mutator.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "MUTATOR", envPrefix)
	assert.Equal(t, "out-dir", storeFlagName)
	assert.Equal(t, "out/mutants", defaultStoreDir)
	assert.Equal(t, "run.timeout", timeoutKey)
	assert.Equal(t, "stats.group_by", groupByKey)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultStoreDir, viper.GetString(storeKey))
	assert.Equal(t, defaultTimeout, viper.GetDuration(timeoutKey))
	assert.Equal(t, defaultGenerators, viper.GetStringSlice(generatorsKey))
	assert.Equal(t, adapter.DefaultCopyExclude, viper.GetStringSlice(copyExcludeKey))
	assert.True(t, viper.GetBool(respectGitignoreKey))
	assert.Equal(t, defaultFormat, viper.GetString(formatKey))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logPath := filepath.Join(t.TempDir(), "mutator.log")

	configureLogger(logPath, true)
	slog.Debug("staged copy", "worker", 1)

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "staged copy")
	assert.Contains(t, string(contents), "worker=1")
}
