package adapter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// ErrUnsupportedLanguage is returned for languages without a registered grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// SyntaxAdapter parses source text into concrete syntax trees and extracts
// mutation targets from them.
type SyntaxAdapter interface {
	// Parse returns the syntax tree of content. The caller closes the tree.
	Parse(ctx context.Context, lang m.Language, content []byte) (*sitter.Tree, error)

	// Symbols lists every function-like declaration below root in source order.
	Symbols(lang m.Language, root *sitter.Node, content []byte) ([]m.Symbol, error)

	// HasSyntaxError reports whether content contains parse errors.
	HasSyntaxError(ctx context.Context, lang m.Language, content []byte) (bool, error)
}

// TreeSitterAdapter implements SyntaxAdapter with tree-sitter grammars.
// A parser is created per call, so the adapter is safe for concurrent use.
type TreeSitterAdapter struct {
	languages map[m.Language]*sitter.Language
}

// NewTreeSitterAdapter registers the Python and Go grammars.
func NewTreeSitterAdapter() *TreeSitterAdapter {
	return &TreeSitterAdapter{
		languages: map[m.Language]*sitter.Language{
			m.LanguagePython: sitter.NewLanguage(sitter_python.Language()),
			m.LanguageGo:     sitter.NewLanguage(sitter_go.Language()),
		},
	}
}

// Parse parses content with the grammar of lang.
func (a *TreeSitterAdapter) Parse(ctx context.Context, lang m.Language, content []byte) (*sitter.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grammar, ok := a.languages[lang]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s source", lang)
	}

	return tree, nil
}

// HasSyntaxError parses content and reports whether the tree contains
// error or missing nodes.
func (a *TreeSitterAdapter) HasSyntaxError(ctx context.Context, lang m.Language, content []byte) (bool, error) {
	tree, err := a.Parse(ctx, lang, content)
	if err != nil {
		return false, err
	}
	defer tree.Close()

	return tree.RootNode().HasError(), nil
}

type scopedNode struct {
	node  *sitter.Node
	scope []string
}

// Symbols walks the tree with an explicit stack and records declarations
// together with the dotted path of their enclosing scopes.
func (a *TreeSitterAdapter) Symbols(lang m.Language, root *sitter.Node, content []byte) ([]m.Symbol, error) {
	profile, ok := m.Profile(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	var symbols []m.Symbol

	stack := []scopedNode{{node: root}}
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := item.node
		kind := node.Kind()
		scope := item.scope

		if profile.IsDeclaration(kind) {
			if symbol, ok := declarationSymbol(lang, profile, node, content, scope); ok {
				symbols = append(symbols, symbol)
			}
		}

		if slices.Contains(profile.ScopeKinds, kind) {
			if name := node.ChildByFieldName("name"); name != nil {
				scope = append(slices.Clone(scope), name.Utf8Text(content))
			}
		}

		for i := node.ChildCount(); i > 0; i-- {
			if child := node.Child(i - 1); child != nil {
				stack = append(stack, scopedNode{node: child, scope: scope})
			}
		}
	}

	return symbols, nil
}

func declarationSymbol(lang m.Language, profile m.LanguageProfile, node *sitter.Node, content []byte, scope []string) (m.Symbol, bool) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName(profile.BodyField)

	if nameNode == nil || body == nil {
		return m.Symbol{}, false
	}

	name := nameNode.Utf8Text(content)
	path := append(slices.Clone(scope), name)

	if lang == m.LanguageGo && node.Kind() == "method_declaration" {
		if recv := receiverType(node, content); recv != "" {
			path = []string{recv, name}
		}
	}

	start, end := node.StartPosition(), node.EndPosition()

	return m.Symbol{
		Name:          name,
		QualifiedName: strings.Join(path, "."),
		Kind:          node.Kind(),
		StartByte:     node.StartByte(),
		EndByte:       node.EndByte(),
		BodyStartByte: body.StartByte(),
		Start:         m.Point{Row: start.Row, Column: start.Column},
		End:           m.Point{Row: end.Row, Column: end.Column},
	}, true
}

// receiverType returns the bare type name of a Go method receiver,
// dropping pointers and type parameters.
func receiverType(node *sitter.Node, content []byte) string {
	receiver := node.ChildByFieldName("receiver")
	if receiver == nil {
		return ""
	}

	for i := range receiver.NamedChildCount() {
		param := receiver.NamedChild(i)
		if param == nil || param.Kind() != "parameter_declaration" {
			continue
		}

		typ := param.ChildByFieldName("type")
		for typ != nil && typ.Kind() != "type_identifier" {
			typ = typ.NamedChild(0)
		}

		if typ != nil {
			return typ.Utf8Text(content)
		}
	}

	return ""
}
