package mutagens

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var booleanFlips = map[string]string{
	"true":  "false",
	"false": "true",
	"True":  "False",
	"False": "True",
}

func booleanSite(_ m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool) {
	if kind := node.Kind(); kind != "true" && kind != "false" {
		return Site{}, false
	}

	if !node.IsNamed() {
		return Site{}, false
	}

	text := node.Utf8Text(source)

	flipped, ok := booleanFlips[text]
	if !ok {
		return Site{}, false
	}

	return Site{
		Category:     CategoryBoolean,
		Start:        node.StartByte(),
		End:          node.EndByte(),
		Original:     text,
		Replacements: []string{flipped},
	}, true
}
