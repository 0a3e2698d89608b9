package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait returns immediately; SimpleUI prints as it goes.
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayGenerationSummary prints a per-target table of generated mutants.
func (s *SimpleUI) DisplayGenerationSummary(_ context.Context, summary m.GenerationSummary) {
	s.printf("\n%s", renderGenerationTable(summary))
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(_ context.Context, workers, shardIndex, shardCount int) {
	s.printf("Running with %d worker(s) (shard %d/%d)\n", workers, shardIndex, shardCount)
}

// DisplayUpcomingTestsInfo shows the number of mutants left to test.
func (s *SimpleUI) DisplayUpcomingTestsInfo(_ context.Context, count int) {
	s.printf("Upcoming mutants: %d\n", count)
}

// DisplayStartingTestInfo shows which worker picked up a mutant.
func (s *SimpleUI) DisplayStartingTestInfo(_ context.Context, job m.Job, workerID int) {
	s.printf("[worker %d] testing %s\n", workerID, jobLabel(job))
}

// DisplayCompletedTestInfo shows the outcome of one mutant.
func (s *SimpleUI) DisplayCompletedTestInfo(_ context.Context, job m.Job, outcome m.Outcome, progress m.Progress) {
	s.printf("[%d/%d] %s -> %s (caught %d, missed %d, timeout %d, syntax %d, error %d)\n",
		progress.Completed, progress.Total, jobLabel(job), outcome.Status,
		progress.Caught, progress.Missed, progress.TimedOut, progress.SyntaxErrors, progress.Errors)

	if outcome.Status == m.Error && outcome.Err != "" {
		s.printf("  error: %s\n", outcome.Err)
	}
}

// DisplayMutationScore prints the final mutation score.
func (s *SimpleUI) DisplayMutationScore(_ context.Context, progress m.Progress) {
	s.printf("%s\n", scoreLine(progress))
}

// DisplayStats prints the stats table in format.
func (s *SimpleUI) DisplayStats(ctx context.Context, stats m.StatsTable, format StatsFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return writeStats(s.cmd.OutOrStdout(), stats, format)
}

// DisplayDiff prints a unified diff.
func (s *SimpleUI) DisplayDiff(_ context.Context, diff string) {
	if diff == "" {
		s.printf("no changes\n")
		return
	}

	s.printf("%s", diff)

	if !strings.HasSuffix(diff, "\n") {
		s.printf("\n")
	}
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
