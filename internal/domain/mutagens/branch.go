package mutagens

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var negations = map[m.Language]string{
	m.LanguagePython: "not (%s)",
	m.LanguageGo:     "!(%s)",
}

// branchSite negates the condition of an if statement.
func branchSite(profile m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool) {
	if node.Kind() != "if_statement" {
		return Site{}, false
	}

	format, ok := negations[profile.Language]
	if !ok {
		return Site{}, false
	}

	condition := node.ChildByFieldName("condition")
	if condition == nil {
		return Site{}, false
	}

	text := condition.Utf8Text(source)

	return Site{
		Category:     CategoryBranch,
		Start:        condition.StartByte(),
		End:          condition.EndByte(),
		Original:     text,
		Replacements: []string{negate(format, text)},
	}, true
}

func negate(format, text string) string {
	return fmt.Sprintf(format, text)
}
