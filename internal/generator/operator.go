package generator

import (
	"context"
	"errors"
	"slices"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/domain/mutagens"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var errNoTree = errors.New("target has no syntax tree")

type operator struct{}

// NewOperator returns a generator that swaps operators, boolean literals
// and branch conditions inside the target. The "categories" option limits
// the mutagens that run.
func NewOperator() Generator {
	return operator{}
}

func (operator) Name() string { return "operator" }

func (operator) Generate(ctx context.Context, target m.Target, cfg Config) ([]m.Mutant, error) {
	profile, ok := m.Profile(target.File.Language)
	if !ok {
		return nil, nil
	}

	node := target.Node()
	if node == nil {
		return nil, errNoTree
	}

	categories := cfg.StringsOption("categories")
	offset := target.Symbol.StartByte
	content := target.Content()

	var mutants []m.Mutant

	for _, site := range mutagens.Sites(profile, node, target.File.Content) {
		if len(categories) > 0 && !slices.Contains(categories, string(site.Category)) {
			continue
		}

		for _, replacement := range site.Replacements {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			mutants = append(mutants, m.Mutant{
				Content:   mutagens.Apply(content, site.Start-offset, site.End-offset, replacement),
				Generator: "operator",
				Provenance: map[string]any{
					"category":    string(site.Category),
					"original":    site.Original,
					"replacement": replacement,
					"offset":      site.Start - offset,
				},
			})

			if cfg.TriesPerTarget > 0 && len(mutants) == cfg.TriesPerTarget {
				return mutants, nil
			}
		}
	}

	return mutants, nil
}
