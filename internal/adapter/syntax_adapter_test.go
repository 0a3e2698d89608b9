package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

const pythonSource = `class Calc:
    def add(self, a, b):
        """Add two numbers."""
        return a + b


def outer():
    def inner():
        return 1
    return inner()
`

const goSource = `package calc

type Calc struct{}

func Add(a, b int) int {
	return a + b
}

func (c *Calc) Mul(a, b int) int {
	return a * b
}
`

func TestTreeSitterAdapter_PythonSymbols(t *testing.T) {
	adapter := NewTreeSitterAdapter()
	content := []byte(pythonSource)

	tree, err := adapter.Parse(context.Background(), m.LanguagePython, content)
	require.NoError(t, err)
	defer tree.Close()

	symbols, err := adapter.Symbols(m.LanguagePython, tree.RootNode(), content)
	require.NoError(t, err)

	names := make([]string, 0, len(symbols))
	for _, s := range symbols {
		names = append(names, s.QualifiedName)
	}

	assert.Equal(t, []string{"Calc.add", "outer", "outer.inner"}, names)

	add := symbols[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, uint(1), add.Start.Row)
	assert.Contains(t, string(content[add.StartByte:add.BodyStartByte]), "def add(self, a, b):")
	assert.Contains(t, string(content[add.StartByte:add.EndByte]), "return a + b")
}

func TestTreeSitterAdapter_GoSymbols(t *testing.T) {
	adapter := NewTreeSitterAdapter()
	content := []byte(goSource)

	tree, err := adapter.Parse(context.Background(), m.LanguageGo, content)
	require.NoError(t, err)
	defer tree.Close()

	symbols, err := adapter.Symbols(m.LanguageGo, tree.RootNode(), content)
	require.NoError(t, err)
	require.Len(t, symbols, 2)

	assert.Equal(t, "Add", symbols[0].QualifiedName)
	assert.Equal(t, "Calc.Mul", symbols[1].QualifiedName)
	assert.Equal(t, "method_declaration", symbols[1].Kind)
}

func TestTreeSitterAdapter_HasSyntaxError(t *testing.T) {
	adapter := NewTreeSitterAdapter()
	ctx := context.Background()

	bad, err := adapter.HasSyntaxError(ctx, m.LanguagePython, []byte("def f(:\n    return\n"))
	require.NoError(t, err)
	assert.True(t, bad)

	bad, err = adapter.HasSyntaxError(ctx, m.LanguagePython, []byte(pythonSource))
	require.NoError(t, err)
	assert.False(t, bad)

	bad, err = adapter.HasSyntaxError(ctx, m.LanguageGo, []byte("package x\nfunc f( {\n"))
	require.NoError(t, err)
	assert.True(t, bad)
}

func TestTreeSitterAdapter_UnsupportedLanguage(t *testing.T) {
	adapter := NewTreeSitterAdapter()

	_, err := adapter.Parse(context.Background(), m.Language("cobol"), nil)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestTreeSitterAdapter_ParseContextCancellation(t *testing.T) {
	adapter := NewTreeSitterAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Parse(ctx, m.LanguagePython, []byte(pythonSource))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTarget_NodeLocatesDeclaration(t *testing.T) {
	adapter := NewTreeSitterAdapter()
	content := []byte(pythonSource)

	tree, err := adapter.Parse(context.Background(), m.LanguagePython, content)
	require.NoError(t, err)

	file := &m.SourceFile{Content: content, Tree: tree, Language: m.LanguagePython}
	defer file.Close()

	file.Symbols, err = adapter.Symbols(m.LanguagePython, tree.RootNode(), content)
	require.NoError(t, err)

	for _, target := range file.Targets() {
		node := target.Node()
		require.NotNil(t, node, target.QualifiedName())
		assert.Equal(t, "function_definition", node.Kind())
	}
}
