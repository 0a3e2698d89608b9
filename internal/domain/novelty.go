package domain

import (
	"context"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// parsedDeclaration is a parsed declaration kept for comparison. tree is nil for
// the original, whose tree belongs to the source file.
type parsedDeclaration struct {
	tree   *sitter.Tree
	node   *sitter.Node
	source []byte
}

// sourceReader reads path through provider and parses it.
type sourceReader func(ctx context.Context, provider adapter.SourceProvider, path m.Path, lang m.Language) ([]byte, *sitter.Tree, error)

// noveltyGate decides whether candidates of one target are new. It is not
// safe for concurrent use. Each gate owns its override layer, so gates of
// targets in the same file never see each other's candidates.
type noveltyGate struct {
	read       sourceReader
	provider   *adapter.OverrideSourceProvider
	comparator *Comparator
	profile    m.LanguageProfile
	target     m.Target

	// accepted starts with the original declaration.
	accepted []parsedDeclaration
}

func newNoveltyGate(read sourceReader, base adapter.SourceProvider, target m.Target) (*noveltyGate, error) {
	profile, ok := m.Profile(target.File.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %s", adapter.ErrUnsupportedLanguage, target.File.Language)
	}

	original := target.Node()
	if original == nil {
		return nil, fmt.Errorf("declaration of %s:%s not found", target.Module(), target.QualifiedName())
	}

	return &noveltyGate{
		read:       read,
		provider:   adapter.NewOverrideSourceProvider(base),
		comparator: NewComparator(profile),
		profile:    profile,
		target:     target,
		accepted:   []parsedDeclaration{{node: original, source: target.File.Content}},
	}, nil
}

// Check patches content into the target's file and compares the resulting
// declaration with the original and every accepted candidate. A candidate
// that does not parse cannot be compared and counts as novel; the test run
// classifies it.
func (g *noveltyGate) Check(ctx context.Context, content []byte) (m.PatchResult, bool, error) {
	if len(content) == 0 {
		return m.PatchResult{Reason: "empty candidate"}, false, nil
	}

	patched, tree, err := g.load(ctx, g.target.Patch(content))
	if err != nil {
		return m.PatchResult{}, false, err
	}

	result := m.PatchResult{OK: true, Content: patched}

	if tree.RootNode().HasError() {
		tree.Close()
		return result, true, nil
	}

	start := g.target.Symbol.StartByte

	node := g.locate(tree.RootNode(), start, start+uint(len(content)))
	if node == nil {
		tree.Close()
		return m.PatchResult{Reason: "candidate is not a single declaration"}, false, nil
	}

	for _, other := range g.accepted {
		if g.comparator.Equivalent(other.node, node, other.source, patched) {
			tree.Close()
			return result, false, nil
		}
	}

	g.accepted = append(g.accepted, parsedDeclaration{tree: tree, node: node, source: patched})

	return result, true, nil
}

// load installs patched over the target's file and reads the file back
// with the same reader that loads project sources.
func (g *noveltyGate) load(ctx context.Context, patched []byte) ([]byte, *sitter.Tree, error) {
	path := g.target.File.FullPath

	g.provider.Install(path, patched)
	defer g.provider.Uninstall(path)

	return g.read(ctx, g.provider, path, g.profile.Language)
}

// locate finds the declaration node spanning [start, end).
func (g *noveltyGate) locate(root *sitter.Node, start, end uint) *sitter.Node {
	for node := m.FindNode(root, start, end); node != nil; node = node.Parent() {
		if node.StartByte() != start || node.EndByte() != end {
			return nil
		}

		if g.profile.IsDeclaration(node.Kind()) {
			return node
		}
	}

	return nil
}

// Close releases the trees of accepted candidates.
func (g *noveltyGate) Close() {
	for _, d := range g.accepted {
		if d.tree != nil {
			d.tree.Close()
		}
	}

	g.accepted = nil
}
