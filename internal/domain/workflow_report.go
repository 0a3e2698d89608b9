package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const unknownGroup = "unknown"

// Stats aggregates the store and the report of the last test run.
func (w *workflow) Stats(ctx context.Context, args StatsArgs) (m.StatsTable, error) {
	table := m.StatsTable{GroupBy: args.GroupBy}

	if err := w.check(args); err != nil {
		return table, err
	}

	mutants, err := w.newStore(args.Store).List()
	if err != nil {
		return table, fmt.Errorf("failed to list mutants: %w", err)
	}

	report, err := w.reportStore.Read(ctx, reportPath(w.fsAdapter, args.Output, args.Store))
	if err != nil {
		return table, err
	}

	groups := make(map[string]*m.StatsGroup)
	annotations := make(map[string]struct{})

	for _, mutant := range mutants {
		metadata := mutant.Metadata

		if args.OnlyAnnotated && len(metadata.Annotations) == 0 {
			continue
		}

		key := groupKey(metadata, args.GroupBy)
		id := strings.Join(key, "\x00")

		group, ok := groups[id]
		if !ok {
			group = &m.StatsGroup{Key: key, Counts: make(map[string]int)}
			groups[id] = group
		}

		group.Counts[m.StatMutants]++

		if metadata.Dropped {
			group.Counts[m.StatDropped]++

			if !args.ShowDropped {
				continue
			}
		} else {
			group.Counts[m.StatKept]++
		}

		for _, annotation := range metadata.Annotations {
			category := m.AnnotationPrefix + annotation
			annotations[category] = struct{}{}
			group.Counts[category]++
		}

		if report == nil {
			continue
		}

		if outcome, ok := report.Get(mutant.Key()); ok {
			group.Counts[statusCategory(outcome.Status)]++
		}
	}

	table.Categories = append(table.Categories, m.CountCategories...)

	extra := make([]string, 0, len(annotations))
	for category := range annotations {
		extra = append(extra, category)
	}

	sort.Strings(extra)
	table.Categories = append(table.Categories, extra...)

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		table.Groups = append(table.Groups, *groups[id])
	}

	if err := w.ui.DisplayStats(ctx, table, args.Format); err != nil {
		return table, err
	}

	return table, nil
}

func statusCategory(status m.TestStatus) string {
	switch status {
	case m.Caught:
		return m.StatCaught
	case m.Missed:
		return m.StatMissed
	case m.TimedOut:
		return m.StatTimeout
	case m.SyntaxError:
		return m.StatSyntaxError
	default:
		return m.StatError
	}
}

func groupKey(metadata m.Metadata, groupBy []string) []string {
	key := make([]string, 0, len(groupBy))

	for _, field := range groupBy {
		var value string

		switch field {
		case "generator":
			value = metadata.Generator
		case "configName":
			value = metadata.ConfigName
		case "language":
			value = string(metadata.Language)
		case "file":
			value = metadata.File
		case "runId":
			value = metadata.RunID
		}

		if value == "" {
			value = unknownGroup
		}

		key = append(key, value)
	}

	return key
}

// Show renders a unified diff of a stored mutant against its source file.
func (w *workflow) Show(ctx context.Context, args ShowArgs) (string, error) {
	if err := w.check(args); err != nil {
		return "", err
	}

	mutant, err := w.newStore(args.Store).Metadata(args.Module, args.Name, args.ID)
	if err != nil {
		return "", err
	}

	original, err := w.fsAdapter.ReadFile(w.fsAdapter.JoinPath(string(args.Project), string(mutant.SourceFile)))
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}

	mutated, err := w.fsAdapter.ReadFile(mutant.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read mutant: %w", err)
	}

	name := filepath.ToSlash(string(mutant.SourceFile))

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff mutant: %w", err)
	}

	w.ui.DisplayDiff(ctx, diff)

	return diff, nil
}

// Annotate adds an annotation to a stored mutant.
func (w *workflow) Annotate(ctx context.Context, args AnnotateArgs) error {
	if err := w.check(args); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return w.newStore(args.Store).Annotate(args.Module, args.Name, args.ID, args.Annotation)
}

// Merge combines shard reports. Outcomes are inserted in input order, so the
// first report holding a key wins.
func (w *workflow) Merge(ctx context.Context, args MergeArgs) (m.Progress, error) {
	if err := w.check(args); err != nil {
		return m.Progress{}, err
	}

	merged := m.NewResultTree()

	for _, input := range args.Inputs {
		path := input
		if info, err := w.fsAdapter.FileInfo(input); err == nil && info.IsDir() {
			path = w.fsAdapter.JoinPath(string(input), adapter.ReportFileName)
		}

		report, err := w.reportStore.Read(ctx, path)
		if err != nil {
			return m.Progress{}, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if report == nil {
			slog.Warn("Skipping missing report", "path", path)
			continue
		}

		for _, key := range report.Keys() {
			outcome, _ := report.Get(key)
			merged.Insert(key, outcome)
		}
	}

	if err := w.reportStore.Write(ctx, reportPath(w.fsAdapter, args.Output, ""), merged); err != nil {
		return m.Progress{}, err
	}

	progress := merged.Progress()
	w.ui.DisplayMutationScore(ctx, progress)

	return progress, nil
}
