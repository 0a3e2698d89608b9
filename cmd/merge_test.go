package cmd

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

func TestMergeCmd_WritesToStoreByDefault(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newMergeCmd())

	mockWorkflow.On("Merge", mock.Anything, domain.MergeArgs{
		Inputs: []m.Path{"out/shard-0", "out/shard-1/test-result.json"},
		Output: m.Path(defaultStoreDir),
	}).Return(m.Progress{}, nil)

	cmd.SetArgs([]string{"merge", "out/shard-0", "out/shard-1/test-result.json"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertExpectations(t)
}

func TestMergeCmd_ReportDirIsPassedThrough(t *testing.T) {
	cmd, mockWorkflow := newMockedRootCmd(t, newMergeCmd())

	mockWorkflow.On("Merge", mock.Anything, mock.MatchedBy(func(args domain.MergeArgs) bool {
		return args.Output == m.Path("./merged") && len(args.Inputs) == 1
	})).Return(m.Progress{}, nil)

	cmd.SetArgs([]string{"--report-dir", "./merged", "merge", "out/shard-0"})
	require.NoError(t, cmd.Execute())

	mockWorkflow.AssertExpectations(t)
}

func TestMergeCmd_NeedsInputs(t *testing.T) {
	cmd, _ := newMockedRootCmd(t, newMergeCmd())

	cmd.SetArgs([]string{"merge"})
	err := cmd.Execute()

	require.ErrorIs(t, err, errUsage)
}
