package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// Orchestrator applies a stored mutant to a worker's private copy of the
// project and runs the test command to classify the mutant.
type Orchestrator interface {
	// TestMutant runs one job. Failures of the job itself are reported as
	// an Error outcome; the returned error is non-nil only when ctx was
	// cancelled and the outcome must not be recorded.
	TestMutant(ctx context.Context, ws *Workspace, job m.Job) (m.Outcome, error)
	// Release removes the worker's staged copy.
	Release(ctx context.Context, ws *Workspace)
}

// OrchestratorOptions configures how jobs are executed.
type OrchestratorOptions struct {
	Timeout time.Duration
	// Command overrides the language default. It may contain the
	// {module}, {mutant} and {file} placeholders.
	Command          []string
	InPlace          bool
	ResetVCS         bool
	CopyExclude      []string
	RespectGitignore bool
	RunID            string
}

// Workspace is the private project copy of one worker. It is created on
// first use and reused for every job of that worker.
type Workspace struct {
	WorkerID int
	Project  m.Path
	Root     m.Path

	staged bool
	// dirty is the project relative path of the last mutated file.
	dirty m.Path
}

// NewWorkspace creates an unstaged workspace for project.
func NewWorkspace(project m.Path, workerID int) *Workspace {
	return &Workspace{WorkerID: workerID, Project: project}
}

type orchestrator struct {
	fsAdapter     adapter.SourceFSAdapter
	testAdapter   adapter.TestRunnerAdapter
	syntaxAdapter adapter.SyntaxAdapter
	vcsAdapter    adapter.VCSAdapter
	opts          OrchestratorOptions
}

// NewOrchestrator constructs an Orchestrator backed by the provided adapters.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	testAdapter adapter.TestRunnerAdapter,
	syntaxAdapter adapter.SyntaxAdapter,
	vcsAdapter adapter.VCSAdapter,
	opts OrchestratorOptions,
) Orchestrator {
	return &orchestrator{
		fsAdapter:     fsAdapter,
		testAdapter:   testAdapter,
		syntaxAdapter: syntaxAdapter,
		vcsAdapter:    vcsAdapter,
		opts:          opts,
	}
}

func (to *orchestrator) TestMutant(ctx context.Context, ws *Workspace, job m.Job) (outcome m.Outcome, err error) {
	outcome = m.Outcome{
		File:   filepath.ToSlash(string(job.Mutant.FilePath)),
		Source: filepath.ToSlash(string(job.Mutant.SourceFile)),
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while testing mutant", "key", job.Key, "panic", r)

			outcome.Status = m.Error
			outcome.Err = fmt.Sprintf("panic: %v", r)
			err = nil
		}
	}()

	if err := ctx.Err(); err != nil {
		return outcome, err
	}

	profile, ok := m.Profile(job.Mutant.Metadata.Language)
	if !ok {
		return failed(outcome, fmt.Errorf("%w: %q", adapter.ErrUnsupportedLanguage, job.Mutant.Metadata.Language)), nil
	}

	content, err := to.fsAdapter.ReadFile(job.Mutant.FilePath)
	if err != nil {
		return failed(outcome, fmt.Errorf("failed to read mutant: %w", err)), nil
	}

	broken, err := to.syntaxAdapter.HasSyntaxError(ctx, profile.Language, content)
	if err != nil {
		return failed(outcome, fmt.Errorf("failed to parse mutant: %w", err)), nil
	}

	if broken {
		outcome.Status = m.SyntaxError
		outcome.Output = "mutant does not parse"

		return outcome, nil
	}

	if !to.opts.InPlace {
		if err := to.apply(ctx, ws, job, content); err != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}

			return failed(outcome, err), nil
		}
	} else {
		ws.Root = ws.Project
	}

	command := to.command(profile, job)

	run, err := to.testAdapter.RunTest(ctx, ws.Root, command, to.opts.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}

		slog.Error("Failed to run tests", "key", job.Key, "command", command, "error", err)

		return failed(outcome, err), nil
	}

	outcome.Status = classify(profile, run)
	outcome.Output = run.Output
	outcome.Duration = run.Duration

	return outcome, nil
}

func failed(outcome m.Outcome, err error) m.Outcome {
	outcome.Status = m.Error
	outcome.Err = err.Error()

	return outcome
}

// classify maps a finished test run to a status. The structured marker and
// the profile's exit code range identify mutants the runner could not load.
func classify(profile m.LanguageProfile, run adapter.TestRun) m.TestStatus {
	if run.TimedOut {
		return m.TimedOut
	}

	if run.ExitCode == 0 {
		return m.Missed
	}

	for _, marker := range profile.LoadErrorMarkers {
		if strings.Contains(run.Output, marker) {
			return m.SyntaxError
		}
	}

	if profile.SyntaxErrorExit > 0 && run.ExitCode >= profile.SyntaxErrorExit {
		return m.SyntaxError
	}

	return m.Caught
}

// apply stages the workspace if needed, undoes the previous job and writes
// the mutant over its source file.
func (to *orchestrator) apply(ctx context.Context, ws *Workspace, job m.Job, content []byte) error {
	if err := to.stage(ctx, ws); err != nil {
		return err
	}

	if err := to.restore(ctx, ws); err != nil {
		return err
	}

	target := to.fsAdapter.JoinPath(string(ws.Root), string(job.Mutant.SourceFile))

	if err := to.fsAdapter.WriteFile(target, content, 0o600); err != nil {
		slog.Error("Failed to write mutated file", "path", target, "error", err)
		return fmt.Errorf("failed to write mutated file: %w", err)
	}

	ws.dirty = job.Mutant.SourceFile

	return nil
}

func (to *orchestrator) stage(ctx context.Context, ws *Workspace) error {
	if ws.staged {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmpDir, err := to.fsAdapter.CreateTempDir(fmt.Sprintf("mutator-%s-w%d-*", shortRunID(to.opts.RunID), ws.WorkerID))
	if err != nil {
		slog.Error("Failed to create temp dir", "error", err)
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	ws.Root = tmpDir

	opts := adapter.CopyOptions{
		Exclude:          to.opts.CopyExclude,
		RespectGitignore: to.opts.RespectGitignore,
		KeepVCS:          to.opts.ResetVCS,
	}

	if err := to.fsAdapter.CopyDir(ws.Project, tmpDir, opts); err != nil {
		slog.Error("Failed to copy project to temp dir", "project", ws.Project, "tmpDir", tmpDir, "error", err)
		to.Release(ctx, ws)

		return fmt.Errorf("failed to copy project: %w", err)
	}

	ws.staged = true

	slog.Debug("Staged project copy", "worker", ws.WorkerID, "dir", tmpDir)

	return nil
}

// restore puts the original content of the previously mutated file back
// and optionally resets the copy to its committed state.
func (to *orchestrator) restore(ctx context.Context, ws *Workspace) error {
	if to.opts.ResetVCS {
		if err := to.vcsAdapter.Reset(ctx, ws.Root); err != nil {
			slog.Error("Failed to reset staged copy", "dir", ws.Root, "error", err)
			return fmt.Errorf("failed to reset staged copy: %w", err)
		}
	}

	if ws.dirty == "" {
		return nil
	}

	src := to.fsAdapter.JoinPath(string(ws.Project), string(ws.dirty))
	dst := to.fsAdapter.JoinPath(string(ws.Root), string(ws.dirty))

	if err := to.fsAdapter.CopyFile(src, dst); err != nil {
		slog.Error("Failed to restore source file", "path", dst, "error", err)
		return fmt.Errorf("failed to restore %s: %w", ws.dirty, err)
	}

	ws.dirty = ""

	return nil
}

func (to *orchestrator) command(profile m.LanguageProfile, job m.Job) []string {
	template := to.opts.Command
	if len(template) == 0 {
		template = profile.DefaultCommand
	}

	replacer := strings.NewReplacer(
		"{module}", job.Mutant.Module,
		"{mutant}", string(job.Mutant.FilePath),
		"{file}", string(job.Mutant.SourceFile),
	)

	command := make([]string, len(template))
	for i, arg := range template {
		command[i] = replacer.Replace(arg)
	}

	return command
}

// Release removes the staged copy, logging errors if cleanup fails.
func (to *orchestrator) Release(_ context.Context, ws *Workspace) {
	if to.opts.InPlace || ws.Root == "" || ws.Root == ws.Project {
		return
	}

	if err := to.fsAdapter.RemoveAll(ws.Root); err != nil {
		slog.Error("Failed to cleanup temp dir", "tmpDir", ws.Root, "error", err)
	}

	ws.Root = ""
	ws.staged = false
	ws.dirty = ""
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	if id == "" {
		return "run"
	}

	return id
}
