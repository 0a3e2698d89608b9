// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeGenerate StartMode = iota
	ModeTest
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithGenerateMode sets the UI to generation mode.
func WithGenerateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeGenerate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

func startConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeTest}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// StatsFormat selects how stats are printed.
type StatsFormat string

// Supported stats formats.
const (
	StatsTable StatsFormat = "table"
	StatsCSV   StatsFormat = "csv"
)

// UI defines the interface for reporting progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context)
	DisplayGenerationSummary(ctx context.Context, summary m.GenerationSummary)
	DisplayConcurrencyInfo(ctx context.Context, workers, shardIndex, shardCount int)
	DisplayUpcomingTestsInfo(ctx context.Context, count int)
	DisplayStartingTestInfo(ctx context.Context, job m.Job, workerID int)
	DisplayCompletedTestInfo(ctx context.Context, job m.Job, outcome m.Outcome, progress m.Progress)
	DisplayMutationScore(ctx context.Context, progress m.Progress)
	DisplayStats(ctx context.Context, table m.StatsTable, format StatsFormat) error
	DisplayDiff(ctx context.Context, diff string)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewUI picks the TUI for terminals and the line based UI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
