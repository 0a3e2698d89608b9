//go:build unix

package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

func TestLocalTestRunnerAdapter_RunTest_Success(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	run, err := runner.RunTest(context.Background(), m.Path(t.TempDir()), []string{"sh", "-c", "echo ok"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, run.ExitCode)
	assert.False(t, run.TimedOut)
	assert.Equal(t, "ok\n", run.Output)
}

func TestLocalTestRunnerAdapter_RunTest_Failure(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	run, err := runner.RunTest(context.Background(), m.Path(t.TempDir()), []string{"sh", "-c", "echo broken >&2; exit 3"}, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 3, run.ExitCode)
	assert.Equal(t, "broken\n", run.Output, "stderr is used when stdout is empty")
}

func TestLocalTestRunnerAdapter_RunTest_Timeout(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	start := time.Now()
	run, err := runner.RunTest(context.Background(), m.Path(t.TempDir()), []string{"sh", "-c", "sleep 30"}, 200*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, run.TimedOut)
	assert.Equal(t, "<timeout>", run.Output)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestLocalTestRunnerAdapter_RunTest_Cancelled(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.RunTest(ctx, m.Path(t.TempDir()), []string{"sh", "-c", "sleep 30"}, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalTestRunnerAdapter_RunTest_MissingBinary(t *testing.T) {
	runner := NewLocalTestRunnerAdapter()

	_, err := runner.RunTest(context.Background(), m.Path(t.TempDir()), []string{"definitely-not-a-binary-xyz"}, time.Second)
	assert.Error(t, err)
}
