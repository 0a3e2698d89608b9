package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

func TestParseShardFlag(t *testing.T) {
	tests := []struct {
		name      string
		shard     string
		wantIndex int
		wantTotal int
		wantErr   bool
	}{
		{"empty string", "", 0, 1, false},
		{"valid 0/3", "0/3", 0, 3, false},
		{"valid 1/3", "1/3", 1, 3, false},
		{"valid 2/3", "2/3", 2, 3, false},
		{"invalid format", "invalid", 0, 0, true},
		{"trailing text", "1/3x", 0, 0, true},
		{"zero total", "0/0", 0, 0, true},
		{"negative total", "0/-1", 0, 0, true},
		{"negative index", "-1/3", 0, 0, true},
		{"index >= total", "3/3", 0, 0, true},
		{"index > total", "5/3", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIndex, gotTotal, err := parseShardFlag(tt.shard)
			if tt.wantErr {
				require.ErrorIs(t, err, errUsage)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, gotIndex, "index")
			assert.Equal(t, tt.wantTotal, gotTotal, "total")
		})
	}
}

func TestRunCmd_Defaults(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newRunCmd())

	mockWorkflow.On("Test", mock.Anything, mock.MatchedBy(func(args domain.TestArgs) bool {
		return args.Project == m.Path(".") &&
			args.Store == m.Path(defaultStoreDir) &&
			args.Output == "" &&
			args.Jobs == defaultJobs &&
			args.Timeout == time.Minute &&
			len(args.Command) == 0 &&
			len(args.Filter) == 0 &&
			!args.IncludeDropped &&
			args.ShardIndex == 0 &&
			args.ShardCount == 1 &&
			!args.Resume &&
			!args.InPlace &&
			!args.ResetVCS &&
			args.RespectGitignore &&
			assert.ObjectsAreEqual(adapter.DefaultCopyExclude, args.CopyExclude) &&
			args.MetricsFile == "" &&
			args.RunID != ""
	})).Return(m.Progress{}, nil)

	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_FlagsArePassedThrough(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newRunCmd())

	mockWorkflow.On("Test", mock.Anything, mock.MatchedBy(func(args domain.TestArgs) bool {
		return args.Project == m.Path("proj") &&
			args.Store == m.Path("store") &&
			args.Output == m.Path("reports") &&
			args.Jobs == 3 &&
			args.Timeout == 5*time.Second &&
			assert.ObjectsAreEqual([]string{"pytest", "-x", "{mutant}"}, args.Command) &&
			assert.ObjectsAreEqual([]string{"calc:*", "util"}, args.Filter) &&
			args.IncludeDropped &&
			args.ShardIndex == 1 &&
			args.ShardCount == 3 &&
			args.Resume &&
			args.InPlace &&
			args.ResetVCS &&
			!args.RespectGitignore &&
			assert.ObjectsAreEqual([]string{"build", "*.log"}, args.CopyExclude) &&
			args.MetricsFile == "metrics.prom" &&
			args.RunID == "run-1"
	})).Return(m.Progress{}, nil)

	cmd.SetArgs([]string{
		"-C", "proj", "-o", "store", "--report-dir", "reports",
		"-f", "calc:*", "-f", "util", "-j", "3",
		"run",
		"--timeout", "5s",
		"--command", "pytest -x {mutant}",
		"--include-dropped",
		"--shard", "1/3",
		"--resume",
		"--in-place",
		"--reset-vcs",
		"--respect-gitignore=false",
		"--copy-exclude", "build,*.log",
		"--metrics-file", "metrics.prom",
		"--run-id", "run-1",
	})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestRunCmd_TestAlias(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newRunCmd())

	mockWorkflow.On("Test", mock.Anything, mock.Anything).Return(m.Progress{}, nil)

	cmd.SetArgs([]string{"test"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertNumberOfCalls(t, "Test", 1)
}

func TestRunCmd_InvalidShardIsUsageError(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newRunCmd())

	cmd.SetArgs([]string{"run", "--shard", "3/3"})
	err := cmd.Execute()

	require.ErrorIs(t, err, errUsage)
	assert.Equal(t, exitUsage, exitCode(err))
	mockWorkflow.AssertNotCalled(t, "Test", mock.Anything, mock.Anything)
}

func TestRunCmd_RejectsPositionalArgs(t *testing.T) {
	cmd, _ := newMockedRootCmd(t, newRunCmd())

	cmd.SetArgs([]string{"run", "./..."})
	err := cmd.Execute()

	require.ErrorIs(t, err, errUsage)
}

func TestRunCmd_InterruptedRunExitsWith130(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newRunCmd())

	interrupted := m.Progress{Total: 4, Completed: 1}
	mockWorkflow.On("Test", mock.Anything, mock.Anything).Return(interrupted, errors.Join(errors.New("test run"), context.Canceled))

	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, exitInterrupted, exitCode(err))
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run", cmd.Use)
	assert.Contains(t, cmd.Aliases, "test")
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	for _, name := range []string{
		timeoutFlagName, commandFlagName, includeDroppedFlagName, resetVCSFlagName, inPlaceFlagName,
		shardFlagName, resumeFlagName, metricsFileFlagName, respectGitignoreFlagName, copyExcludeFlagName,
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
