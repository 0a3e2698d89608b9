package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

type dir struct {
	fs   adapter.SourceFSAdapter
	root string
}

// NewDir returns a generator that reads candidates produced by an external
// tool from <root>/<module>/<qualifiedName>/. Each regular file is one
// candidate. The "dir" option overrides root.
func NewDir(fsAdapter adapter.SourceFSAdapter, root string) Generator {
	return dir{fs: fsAdapter, root: root}
}

func (dir) Name() string { return "dir" }

func (d dir) Generate(ctx context.Context, target m.Target, cfg Config) ([]m.Mutant, error) {
	root := cfg.StringOption("dir", d.root)
	if root == "" {
		return nil, errors.New("dir generator needs a candidate directory")
	}

	path := d.fs.JoinPath(root, target.Module(), target.QualifiedName())

	entries, err := d.fs.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list candidates in %s: %w", path, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var mutants []m.Mutant

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !entry.Type().IsRegular() {
			continue
		}

		file := d.fs.JoinPath(string(path), entry.Name())

		content, err := d.fs.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read candidate %s: %w", file, err)
		}

		mutants = append(mutants, m.Mutant{
			Content:    content,
			Generator:  "dir",
			Provenance: map[string]any{"candidate": entry.Name()},
		})

		if cfg.TriesPerTarget > 0 && len(mutants) == cfg.TriesPerTarget {
			break
		}
	}

	return mutants, nil
}
