package mutagens

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var comparisonOps = []string{"<", ">", "<=", ">=", "==", "!="}

func comparisonSite(profile m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool) {
	return operatorSite(CategoryComparison, profile, node, source, comparisonOps)
}
