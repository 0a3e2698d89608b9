package generator

import (
	"context"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

type identity struct{}

// NewIdentity returns a generator that proposes the unchanged target. Its
// candidates are always dropped and serve as a baseline.
func NewIdentity() Generator {
	return identity{}
}

func (identity) Name() string { return "identity" }

func (identity) Generate(ctx context.Context, target m.Target, _ Config) ([]m.Mutant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := append([]byte(nil), target.Content()...)

	return []m.Mutant{{Content: content, Generator: "identity"}}, nil
}
