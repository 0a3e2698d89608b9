package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/generator"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var (
	// ErrStoreNotClean is returned when generating into a store that already
	// holds mutants and overwriting was not requested.
	ErrStoreNotClean = errors.New("mutant store is not empty")
	// ErrNoTargets is returned when no source file yields a selected target.
	ErrNoTargets = errors.New("no mutation targets found")
	// ErrInvalidArgs wraps argument validation failures.
	ErrInvalidArgs = errors.New("invalid arguments")
)

// GenerateArgs configures a generation run.
type GenerateArgs struct {
	Project m.Path `validate:"required"`
	// SourceRoot is relative to Project. Empty selects "src" when it exists
	// and the project root otherwise.
	SourceRoot m.Path
	Store      m.Path   `validate:"required"`
	Generators []string `validate:"required,min=1,dive,required"`
	ConfigName string   `validate:"required"`
	Configs    generator.Configs
	Filter     []string
	Force      bool
	Jobs       int `validate:"gte=0"`
	RunID      string
}

// TestArgs configures a test run over the stored mutants.
type TestArgs struct {
	Project m.Path `validate:"required"`
	Store   m.Path `validate:"required"`
	// Output is the directory receiving the report. Empty means Store.
	Output           m.Path
	Jobs             int           `validate:"gte=1"`
	Timeout          time.Duration `validate:"gt=0"`
	Command          []string
	Filter           []string
	IncludeDropped   bool
	ShardIndex       int `validate:"gte=0,ltfield=ShardCount"`
	ShardCount       int `validate:"gte=1"`
	Resume           bool
	InPlace          bool
	ResetVCS         bool
	RespectGitignore bool
	CopyExclude      []string
	MetricsFile      string
	RunID            string
}

// StatsArgs configures the stats aggregation.
type StatsArgs struct {
	Store m.Path `validate:"required"`
	// Output is the directory holding the report. Empty means Store.
	Output        m.Path
	GroupBy       []string `validate:"dive,oneof=generator configName language file runId"`
	ShowDropped   bool
	OnlyAnnotated bool
	Format        controller.StatsFormat `validate:"required,oneof=table csv"`
}

// ShowArgs selects a stored mutant to diff against its source.
type ShowArgs struct {
	Project m.Path `validate:"required"`
	Store   m.Path `validate:"required"`
	Module  string `validate:"required"`
	Name    string `validate:"required"`
	ID      int    `validate:"gte=0"`
}

// AnnotateArgs selects a stored mutant and the annotation to add.
type AnnotateArgs struct {
	Store      m.Path `validate:"required"`
	Module     string `validate:"required"`
	Name       string `validate:"required"`
	ID         int    `validate:"gte=0"`
	Annotation string `validate:"required"`
}

// MergeArgs selects shard reports to combine into one.
type MergeArgs struct {
	// Inputs are report files or directories holding one.
	Inputs []m.Path `validate:"required,min=1,dive,required"`
	// Output is the directory receiving the merged report.
	Output m.Path `validate:"required"`
}

// Workflow defines the operations exposed to the CLI.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) (m.GenerationSummary, error)
	Test(ctx context.Context, args TestArgs) (m.Progress, error)
	Stats(ctx context.Context, args StatsArgs) (m.StatsTable, error)
	Show(ctx context.Context, args ShowArgs) (string, error)
	Annotate(ctx context.Context, args AnnotateArgs) error
	Merge(ctx context.Context, args MergeArgs) (m.Progress, error)
}

// OrchestratorFactory builds the orchestrator of one test run.
type OrchestratorFactory func(opts OrchestratorOptions) Orchestrator

// StoreFactory opens the mutant store at root.
type StoreFactory func(root m.Path) adapter.MutantStore

type workflow struct {
	fsAdapter     adapter.SourceFSAdapter
	syntaxAdapter adapter.SyntaxAdapter
	reportStore   adapter.ReportStore
	ui            controller.UI
	generators    *generator.Registry
	metrics       *Metrics

	newStore        StoreFactory
	newOrchestrator OrchestratorFactory
	validate        *validator.Validate
}

// WorkflowOption customizes NewWorkflow.
type WorkflowOption func(*workflow)

// WithOrchestratorFactory replaces how test runs build their orchestrator.
func WithOrchestratorFactory(factory OrchestratorFactory) WorkflowOption {
	return func(w *workflow) {
		w.newOrchestrator = factory
	}
}

// WithStoreFactory replaces how the mutant store is opened.
func WithStoreFactory(factory StoreFactory) WorkflowOption {
	return func(w *workflow) {
		w.newStore = factory
	}
}

// WithMetrics records into metrics instead of a private registry.
func WithMetrics(metrics *Metrics) WorkflowOption {
	return func(w *workflow) {
		w.metrics = metrics
	}
}

// NewWorkflow constructs a Workflow backed by the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	syntaxAdapter adapter.SyntaxAdapter,
	testAdapter adapter.TestRunnerAdapter,
	vcsAdapter adapter.VCSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	generators *generator.Registry,
	options ...WorkflowOption,
) Workflow {
	w := &workflow{
		fsAdapter:     fsAdapter,
		syntaxAdapter: syntaxAdapter,
		reportStore:   reportStore,
		ui:            ui,
		generators:    generators,
		metrics:       NewMetrics(),
		newStore: func(root m.Path) adapter.MutantStore {
			return adapter.NewFileMutantStore(fsAdapter, root)
		},
		validate: validator.New(),
	}

	w.newOrchestrator = func(opts OrchestratorOptions) Orchestrator {
		return NewOrchestrator(fsAdapter, testAdapter, syntaxAdapter, vcsAdapter, opts)
	}

	for _, option := range options {
		option(w)
	}

	return w
}

func (w *workflow) check(args any) error {
	if err := w.validate.Struct(args); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}

	return nil
}

func reportPath(fs adapter.SourceFSAdapter, output, store m.Path) m.Path {
	if output == "" {
		output = store
	}

	return fs.JoinPath(string(output), adapter.ReportFileName)
}
