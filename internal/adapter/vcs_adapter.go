package adapter

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// VCSAdapter restores a working copy to its committed state.
type VCSAdapter interface {
	Reset(ctx context.Context, dir m.Path) error
}

// GitAdapter resets working copies with the git binary.
type GitAdapter struct{}

// NewGitAdapter constructs a GitAdapter.
func NewGitAdapter() *GitAdapter {
	return &GitAdapter{}
}

// Reset discards tracked changes and removes untracked files in dir.
func (a *GitAdapter) Reset(ctx context.Context, dir m.Path) error {
	for _, args := range [][]string{
		{"checkout", "--", "."},
		{"clean", "-fdq"},
	} {
		cmd := exec.CommandContext(ctx, "git", args...)
		cmd.Dir = string(dir)

		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
		}
	}

	return nil
}
