// Package generator produces candidate mutants for mutation targets.
package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var (
	// ErrGeneratorNotFound is returned for names without a registered generator.
	ErrGeneratorNotFound = errors.New("generator not registered")
	// ErrConfigNotFound is returned for unknown generator config presets.
	ErrConfigNotFound = errors.New("generator config not registered")
)

// Generator returns raw candidate contents for a target. Candidates are
// replacements for the whole declaration text of the target.
type Generator interface {
	Name() string
	Generate(ctx context.Context, target m.Target, cfg Config) ([]m.Mutant, error)
}

// Registry maps generator names to implementations.
type Registry struct {
	generators map[string]Generator
}

// NewRegistry registers gens under their names.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{generators: make(map[string]Generator, len(gens))}
	for _, g := range gens {
		r.generators[g.Name()] = g
	}

	return r
}

// Default returns the built-in generators. candidateDir is the root read by
// the dir generator through fsAdapter; it may be empty.
func Default(fsAdapter adapter.SourceFSAdapter, candidateDir string) *Registry {
	return NewRegistry(
		NewIdentity(),
		NewOperator(),
		NewDir(fsAdapter, candidateDir),
	)
}

// Get returns the generator registered as name.
func (r *Registry) Get(name string) (Generator, error) {
	g, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGeneratorNotFound, name)
	}

	return g, nil
}

// Names lists the registered generators in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
