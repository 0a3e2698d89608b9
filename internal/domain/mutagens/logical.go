package mutagens

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var logicalOps = map[m.Language][]string{
	m.LanguagePython: {"and", "or"},
	m.LanguageGo:     {"&&", "||"},
}

func logicalSite(profile m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool) {
	return operatorSite(CategoryLogical, profile, node, source, logicalOps[profile.Language])
}
