package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/pkg/journal"
)

// journalDir holds one journal per run inside the output directory.
const journalDir = ".journal"

// journalEntry is the record appended for every collected outcome.
type journalEntry struct {
	Key     m.ResultKey
	Outcome m.Outcome
}

type jobResult struct {
	job     m.Job
	outcome m.Outcome
}

// Test runs the test command against every selected stored mutant on a pool
// of workers. Only the collecting goroutine touches the result tree. The
// report is written even when ctx is cancelled.
func (w *workflow) Test(ctx context.Context, args TestArgs) (progress m.Progress, err error) {
	if err := w.checkTestArgs(args); err != nil {
		return progress, err
	}

	runID := args.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx, span := tracer.Start(ctx, "workflow.Test", trace.WithAttributes(
		attribute.String("mutator.run_id", runID),
		attribute.Int("mutator.jobs", args.Jobs),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	jobs, err := w.selectJobs(args)
	if err != nil {
		return progress, err
	}

	output := args.Output
	if output == "" {
		output = args.Store
	}

	reportFile := reportPath(w.fsAdapter, output, args.Store)

	tree := m.NewResultTree()
	if args.Resume {
		if err := w.resume(ctx, tree, reportFile, output); err != nil {
			return progress, err
		}
	}

	progress.Total = len(jobs)

	pending := make([]m.Job, 0, len(jobs))

	for _, job := range jobs {
		if outcome, ok := tree.Get(job.Key); ok {
			progress.Add(outcome.Status)
			continue
		}

		pending = append(pending, job)
	}

	span.SetAttributes(attribute.Int("mutator.pending", len(pending)))

	record, err := journal.Create[journalEntry](filepath.Join(string(output), journalDir, runID+".gob"))
	if err != nil {
		return progress, err
	}
	defer record.Close()

	orch := w.newOrchestrator(OrchestratorOptions{
		Timeout:          args.Timeout,
		Command:          args.Command,
		InPlace:          args.InPlace,
		ResetVCS:         args.ResetVCS,
		CopyExclude:      args.CopyExclude,
		RespectGitignore: args.RespectGitignore,
		RunID:            runID,
	})

	if err := w.ui.Start(ctx, controller.WithTestMode()); err != nil {
		return progress, err
	}
	defer w.ui.Close(ctx)

	workers := min(args.Jobs, max(len(pending), 1))

	w.ui.DisplayConcurrencyInfo(ctx, workers, args.ShardIndex, args.ShardCount)
	w.ui.DisplayUpcomingTestsInfo(ctx, len(pending))

	runErr := w.runPool(ctx, orch, args.Project, workers, pending, func(r jobResult) {
		if !tree.Insert(r.job.Key, r.outcome) {
			return
		}

		if err := record.Append(journalEntry{Key: r.job.Key, Outcome: r.outcome}); err != nil {
			slog.Warn("Failed to journal outcome", "key", r.job.Key, "error", err)
		}

		w.metrics.observeOutcome(r.outcome)
		progress.Add(r.outcome.Status)
		w.ui.DisplayCompletedTestInfo(ctx, r.job, r.outcome, progress)
	})

	persistCtx := context.WithoutCancel(ctx)

	if err := w.reportStore.Write(persistCtx, reportFile, tree); err != nil {
		return progress, errors.Join(runErr, err)
	}

	// A complete report supersedes every journal.
	if runErr == nil {
		w.discardJournals(record, output)
	}

	if args.MetricsFile != "" {
		if err := w.metrics.WriteTextfile(args.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", "path", args.MetricsFile, "error", err)
		}
	}

	w.ui.DisplayMutationScore(persistCtx, progress)

	span.SetAttributes(attribute.Float64("mutator.score", progress.Score()))

	return progress, runErr
}

// runPool feeds pending to workers goroutines. collect runs on the calling
// goroutine for every finished job. Staged copies are released before it
// returns, also when ctx is cancelled.
func (w *workflow) runPool(
	ctx context.Context,
	orch Orchestrator,
	project m.Path,
	workers int,
	pending []m.Job,
	collect func(jobResult),
) error {
	queue := make(chan m.Job)
	results := make(chan jobResult)
	workspaces := make([]*Workspace, workers)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)

		for _, job := range pending {
			select {
			case queue <- job:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	for id := range workers {
		ws := NewWorkspace(project, id)
		workspaces[id] = ws

		g.Go(func() error {
			for job := range queue {
				outcome, err := w.runJob(gctx, orch, ws, job)
				if err != nil {
					return err
				}

				select {
				case results <- jobResult{job: job, outcome: outcome}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			return nil
		})
	}

	done := make(chan error, 1)

	go func() {
		done <- g.Wait()
		close(results)
	}()

	for r := range results {
		collect(r)
	}

	err := <-done

	releaseCtx := context.WithoutCancel(ctx)
	for _, ws := range workspaces {
		orch.Release(releaseCtx, ws)
	}

	if err != nil {
		slog.Warn("Test run interrupted", "error", err)
	}

	return err
}

func (w *workflow) runJob(ctx context.Context, orch Orchestrator, ws *Workspace, job m.Job) (m.Outcome, error) {
	ctx, span := tracer.Start(ctx, "orchestrator.TestMutant", trace.WithAttributes(
		attribute.String("mutator.module", job.Key.Module),
		attribute.String("mutator.target", job.Key.Name),
		attribute.String("mutator.mutant", job.Key.MutantID),
		attribute.Int("mutator.worker", ws.WorkerID),
	))
	defer span.End()

	w.ui.DisplayStartingTestInfo(ctx, job, ws.WorkerID)
	w.metrics.jobStarted()
	defer w.metrics.jobFinished()

	outcome, err := orch.TestMutant(ctx, ws, job)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return outcome, err
	}

	span.SetAttributes(attribute.String("mutator.status", outcome.Status.String()))

	return outcome, nil
}

// selectJobs lists the store and keeps the mutants matching the filter,
// the dropped flag and the shard.
func (w *workflow) selectJobs(args TestArgs) ([]m.Job, error) {
	selector, err := NewSelector(args.Filter)
	if err != nil {
		return nil, err
	}

	mutants, err := w.newStore(args.Store).List()
	if err != nil {
		return nil, fmt.Errorf("failed to list mutants: %w", err)
	}

	var jobs []m.Job

	index := 0

	for _, mutant := range mutants {
		if !selector.Match(mutant.Module, mutant.QualifiedName) {
			continue
		}

		if mutant.Metadata.Dropped && !args.IncludeDropped {
			continue
		}

		if index%args.ShardCount == args.ShardIndex {
			jobs = append(jobs, m.Job{Key: mutant.Key(), Mutant: mutant})
		}

		index++
	}

	return jobs, nil
}

// resume seeds tree from the previous report and every journal left by
// earlier runs. First write wins, so replaying overlapping sources is safe.
func (w *workflow) resume(ctx context.Context, tree *m.ResultTree, reportFile, output m.Path) error {
	prior, err := w.reportStore.Read(ctx, reportFile)
	if err != nil {
		return fmt.Errorf("failed to read previous report: %w", err)
	}

	if prior != nil {
		for _, key := range prior.Keys() {
			outcome, _ := prior.Get(key)
			tree.Insert(key, outcome)
		}
	}

	journals, err := filepath.Glob(filepath.Join(string(output), journalDir, "*.gob"))
	if err != nil {
		return err
	}

	slices.Sort(journals)

	for _, path := range journals {
		err := journal.Replay(path, func(_ uint64, entry journalEntry) error {
			tree.Insert(entry.Key, entry.Outcome)
			return nil
		})
		if err != nil {
			slog.Warn("Skipping unreadable journal", "path", path, "error", err)
		}
	}

	slog.Debug("Resumed results", "outcomes", tree.Len(), "journals", len(journals))

	return nil
}

func (w *workflow) checkTestArgs(args TestArgs) error {
	if err := w.check(args); err != nil {
		return err
	}

	if !args.InPlace {
		return nil
	}

	if args.Jobs > 1 {
		return fmt.Errorf("%w: in-place runs use a single worker", ErrInvalidArgs)
	}

	if !slices.ContainsFunc(args.Command, func(arg string) bool { return strings.Contains(arg, "{mutant}") }) {
		return fmt.Errorf("%w: in-place runs need a command with the {mutant} placeholder", ErrInvalidArgs)
	}

	return nil
}

// discardJournals closes the run's journal and removes every journal below
// output. Failures only leave stale journals behind, so they are logged.
func (w *workflow) discardJournals(record io.Closer, output m.Path) {
	if err := record.Close(); err != nil {
		slog.Warn("Failed to close journal", "error", err)
	}

	if err := w.fsAdapter.RemoveAll(w.fsAdapter.JoinPath(string(output), journalDir)); err != nil {
		slog.Warn("Failed to remove journals", "error", err)
	}
}
