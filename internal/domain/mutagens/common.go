// Package mutagens finds mutation sites inside syntax trees: operators,
// boolean literals and branch conditions that can be swapped for an
// alternative.
package mutagens

import (
	"slices"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// Category groups sites by the kind of change they propose.
type Category string

const (
	// CategoryArithmetic swaps arithmetic and update operators.
	CategoryArithmetic Category = "arithmetic"
	// CategoryComparison swaps relational operators.
	CategoryComparison Category = "comparison"
	// CategoryLogical swaps short-circuit operators.
	CategoryLogical Category = "logical"
	// CategoryBoolean flips boolean literals.
	CategoryBoolean Category = "boolean"
	// CategoryBranch negates if conditions.
	CategoryBranch Category = "branch"
)

// Site is a byte range of a source file together with its replacements.
type Site struct {
	Category     Category
	Start        uint
	End          uint
	Original     string
	Replacements []string
}

type finder func(profile m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool)

var finders = []finder{
	arithmeticSite,
	comparisonSite,
	logicalSite,
	booleanSite,
	branchSite,
}

// Sites lists every mutation site below root ordered by position.
func Sites(profile m.LanguageProfile, root *sitter.Node, source []byte) []Site {
	var sites []Site

	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, find := range finders {
			if site, ok := find(profile, node, source); ok {
				sites = append(sites, site)
			}
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, child)
			}
		}
	}

	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Start < sites[j].Start
	})

	return sites
}

// operatorSite matches an anonymous operator token of an operator
// expression whose text is one of ops.
func operatorSite(category Category, profile m.LanguageProfile, node *sitter.Node, source []byte, ops []string) (Site, bool) {
	if node.IsNamed() {
		return Site{}, false
	}

	parent := node.Parent()
	if parent == nil || !slices.Contains(profile.OperatorParents, parent.Kind()) {
		return Site{}, false
	}

	text := node.Utf8Text(source)
	if !slices.Contains(ops, text) {
		return Site{}, false
	}

	return Site{
		Category:     category,
		Start:        node.StartByte(),
		End:          node.EndByte(),
		Original:     text,
		Replacements: alternatives(ops, text),
	}, true
}

// alternatives returns every entry of all except original.
func alternatives(all []string, original string) []string {
	var out []string

	for _, op := range all {
		if op != original {
			out = append(out, op)
		}
	}

	return out
}

// Apply returns content with [start, end) replaced by replacement. Offsets
// are relative to content.
func Apply(content []byte, start, end uint, replacement string) []byte {
	out := make([]byte, 0, len(content)-int(end-start)+len(replacement))
	out = append(out, content[:start]...)
	out = append(out, replacement...)
	out = append(out, content[end:]...)

	return out
}
