package mutagens

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

var arithmeticOps = map[m.Language][][]string{
	m.LanguagePython: {
		{"+", "-", "*", "/", "//", "%", "**"},
		{"+=", "-=", "*=", "/="},
	},
	m.LanguageGo: {
		{"+", "-", "*", "/", "%"},
		{"+=", "-=", "*=", "/="},
		{"++", "--"},
	},
}

func arithmeticSite(profile m.LanguageProfile, node *sitter.Node, source []byte) (Site, bool) {
	for _, ops := range arithmeticOps[profile.Language] {
		if site, ok := operatorSite(CategoryArithmetic, profile, node, source, ops); ok {
			return site, true
		}
	}

	return Site{}, false
}
