package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/controller"
	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/generator"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const defaultSourceRoot = "src"

// Generate scans the project, runs the generators on every selected target
// and stores the candidates. Candidates equivalent to the original or to an
// accepted candidate of the same target are stored as dropped.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) (summary m.GenerationSummary, err error) {
	if err := w.check(args); err != nil {
		return summary, err
	}

	ctx, span := tracer.Start(ctx, "workflow.Generate", trace.WithAttributes(
		attribute.StringSlice("mutator.generators", args.Generators),
		attribute.String("mutator.config", args.ConfigName),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	configs := args.Configs
	if configs == nil {
		configs = generator.DefaultConfigs()
	}

	cfg, err := configs.Get(args.ConfigName)
	if err != nil {
		return summary, err
	}

	gens := make([]generator.Generator, 0, len(args.Generators))

	for _, name := range args.Generators {
		g, err := w.generators.Get(name)
		if err != nil {
			return summary, err
		}

		gens = append(gens, g)
	}

	selector, err := NewSelector(args.Filter)
	if err != nil {
		return summary, err
	}

	store := w.newStore(args.Store)

	clean, err := store.IsClean()
	if err != nil {
		return summary, fmt.Errorf("failed to inspect mutant store: %w", err)
	}

	if !clean && !args.Force {
		return summary, fmt.Errorf("%w: %s (use --force to add to it)", ErrStoreNotClean, args.Store)
	}

	provider := adapter.NewFileSourceProvider(w.fsAdapter)

	files, err := w.loadSources(ctx, provider, args.Project, args.SourceRoot)
	if err != nil {
		return summary, err
	}

	defer func() {
		for _, file := range files {
			file.Close()
		}
	}()

	selected := make(map[*m.SourceFile][]m.Target, len(files))
	total := 0

	for _, file := range files {
		for _, target := range file.Targets() {
			if selector.Match(target.Module(), target.QualifiedName()) {
				selected[file] = append(selected[file], target)
				total++
			}
		}
	}

	if total == 0 {
		return summary, ErrNoTargets
	}

	span.SetAttributes(attribute.Int("mutator.targets", total))

	if err := w.ui.Start(ctx, controller.WithGenerateMode()); err != nil {
		return summary, err
	}
	defer w.ui.Close(ctx)

	jobs := args.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	// Targets of one file run sequentially so the override of that file is
	// never installed twice at the same time.
	for _, file := range files {
		targets := selected[file]
		if len(targets) == 0 {
			continue
		}

		g.Go(func() error {
			for _, target := range targets {
				result, err := w.generateTarget(gctx, provider, store, gens, cfg, target, args.RunID)
				if err != nil {
					return err
				}

				mu.Lock()
				summary.Targets = append(summary.Targets, result)
				mu.Unlock()
			}

			return nil
		})
	}

	err = g.Wait()

	sort.Slice(summary.Targets, func(i, j int) bool {
		a, b := summary.Targets[i], summary.Targets[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}

		return a.QualifiedName < b.QualifiedName
	})

	w.ui.DisplayGenerationSummary(ctx, summary)

	return summary, err
}

func (w *workflow) generateTarget(
	ctx context.Context,
	provider adapter.SourceProvider,
	store adapter.MutantStore,
	gens []generator.Generator,
	cfg generator.Config,
	target m.Target,
	runID string,
) (m.TargetSummary, error) {
	result := m.TargetSummary{Module: target.Module(), QualifiedName: target.QualifiedName()}

	gate, err := newNoveltyGate(w.readSource, provider, target)
	if err != nil {
		return result, err
	}
	defer gate.Close()

	for _, gen := range gens {
		candidates, err := gen.Generate(ctx, target, cfg)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			slog.Warn("Generator failed", "generator", gen.Name(), "module", result.Module, "target", result.QualifiedName, "error", err)

			continue
		}

		for _, candidate := range candidates {
			patch, novel, err := gate.Check(ctx, candidate.Content)
			if err != nil {
				return result, err
			}

			if !patch.OK {
				slog.Debug("Rejected candidate", "generator", gen.Name(), "target", result.QualifiedName, "reason", patch.Reason)
				w.metrics.observeCandidate(gen.Name(), "rejected")

				result.Rejected++

				continue
			}

			metadata := m.Metadata{
				Dropped:         !novel,
				Generator:       gen.Name(),
				ConfigName:      cfg.Name,
				Config:          cfg.Map(),
				Annotations:     candidate.Annotations,
				ProvenanceStats: generator.ProvenanceStats(target.Content(), candidate.Content),
				Provenance:      candidate.Provenance,
				RunID:           runID,
			}

			if _, err := store.Add(target, candidate, metadata); err != nil {
				slog.Error("Failed to store mutant", "module", result.Module, "target", result.QualifiedName, "error", err)
				return result, fmt.Errorf("failed to store mutant of %s:%s: %w", result.Module, result.QualifiedName, err)
			}

			if novel {
				w.metrics.observeCandidate(gen.Name(), "kept")
				result.Kept++
			} else {
				w.metrics.observeCandidate(gen.Name(), "dropped")
				result.Dropped++
			}
		}
	}

	return result, nil
}

// loadSources parses every supported file below the source root. Files
// that do not parse or declare no targets are skipped.
func (w *workflow) loadSources(ctx context.Context, provider adapter.SourceProvider, project, sourceRoot m.Path) ([]*m.SourceFile, error) {
	root := w.resolveSourceRoot(project, sourceRoot)

	var files []*m.SourceFile

	err := w.fsAdapter.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			if path != string(root) && slices.Contains(adapter.DefaultCopyExclude, info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		lang, ok := m.LanguageForPath(path)
		if !ok || isTestFile(info.Name(), lang) {
			return nil
		}

		file, err := w.loadSource(ctx, provider, project, root, m.Path(path), lang)
		if err != nil {
			return err
		}

		if file != nil {
			files = append(files, file)
		}

		return nil
	})
	if err != nil {
		for _, file := range files {
			file.Close()
		}

		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return files, nil
}

func (w *workflow) readSource(ctx context.Context, provider adapter.SourceProvider, path m.Path, lang m.Language) ([]byte, *sitter.Tree, error) {
	content, err := provider.Load(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tree, err := w.syntaxAdapter.Parse(ctx, lang, content)
	if err != nil {
		return nil, nil, err
	}

	return content, tree, nil
}

func (w *workflow) loadSource(ctx context.Context, provider adapter.SourceProvider, project, root, path m.Path, lang m.Language) (*m.SourceFile, error) {
	content, tree, err := w.readSource(ctx, provider, path, lang)
	if err != nil {
		return nil, err
	}

	if tree.RootNode().HasError() {
		slog.Warn("Skipping file with syntax errors", "path", path)
		tree.Close()

		return nil, nil
	}

	symbols, err := w.syntaxAdapter.Symbols(lang, tree.RootNode(), content)
	if err != nil || len(symbols) == 0 {
		tree.Close()
		return nil, err
	}

	rel, err := w.fsAdapter.RelPath(project, path)
	if err != nil {
		tree.Close()
		return nil, err
	}

	modulePath, err := w.fsAdapter.RelPath(root, path)
	if err != nil {
		tree.Close()
		return nil, err
	}

	return &m.SourceFile{
		Path:     rel,
		FullPath: path,
		Module:   m.ModuleName(string(modulePath), lang),
		Language: lang,
		Content:  content,
		Tree:     tree,
		Symbols:  symbols,
	}, nil
}

func (w *workflow) resolveSourceRoot(project, sourceRoot m.Path) m.Path {
	if sourceRoot != "" {
		return w.fsAdapter.JoinPath(string(project), string(sourceRoot))
	}

	src := w.fsAdapter.JoinPath(string(project), defaultSourceRoot)
	if info, err := w.fsAdapter.FileInfo(src); err == nil && info.IsDir() {
		return src
	}

	return project
}

func isTestFile(name string, lang m.Language) bool {
	switch lang {
	case m.LanguageGo:
		return strings.HasSuffix(name, "_test.go")
	case m.LanguagePython:
		return strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py") || name == "conftest.py"
	default:
		return false
	}
}
