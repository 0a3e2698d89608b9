package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// declaration parses src and returns its first top-level declaration.
func declaration(t *testing.T, lang m.Language, src string) (*sitter.Node, []byte) {
	t.Helper()

	content := []byte(src)
	tree, err := adapter.NewTreeSitterAdapter().Parse(context.Background(), lang, content)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	profile, _ := m.Profile(lang)
	root := tree.RootNode()

	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)
		if child != nil && profile.IsDeclaration(child.Kind()) {
			return child, content
		}
	}

	t.Fatalf("no declaration in %q", src)

	return nil, nil
}

func comparePython(t *testing.T, a, b string) Comparison {
	t.Helper()

	profile, _ := m.Profile(m.LanguagePython)
	nodeA, srcA := declaration(t, m.LanguagePython, a)
	nodeB, srcB := declaration(t, m.LanguagePython, b)

	return NewComparator(profile).Compare(nodeA, nodeB, srcA, srcB)
}

func TestComparator_Reflexive(t *testing.T) {
	sources := []string{
		"def foo(a, b):\n    return a * b + a\n",
		"def f(xs):\n    total = 0\n    for x in xs:\n        if x > 2 and not x % 3:\n            total += len(str(x))\n    return total\n",
		"def g(self):\n    return self.items.get('k', [1, 2.5, None])\n",
	}

	for _, src := range sources {
		got := comparePython(t, src, src)
		assert.True(t, got.Equal, src)
		assert.Nil(t, got.A)
		assert.Nil(t, got.B)
	}
}

func TestComparator_ConsistentRenameIsEqual(t *testing.T) {
	got := comparePython(t,
		"def foo(a, b):\n    return a*b+a\n",
		"def foo(x, y):\n    return x*y+x\n",
	)
	assert.True(t, got.Equal)

	got = comparePython(t,
		"def foo(a, b):\n    return a*b+a\n",
		"def bar(a, b):\n    return a*b+a\n",
	)
	assert.True(t, got.Equal, "renaming the declaration itself is a consistent rename")
}

func TestComparator_InconsistentRenameDiverges(t *testing.T) {
	got := comparePython(t,
		"def foo(a, b):\n    return a*b+a\n",
		"def foo(x, y):\n    return x*y+y\n",
	)
	require.False(t, got.Equal)
	require.NotNil(t, got.A)
	require.NotNil(t, got.B)
	assert.Equal(t, "identifier", got.A.Kind())
	assert.Equal(t, uint(1), got.A.StartPosition().Row)
}

func TestComparator_SwappedRolesDiverge(t *testing.T) {
	got := comparePython(t,
		"def foo(a, b):\n    return a - b\n",
		"def foo(a, b):\n    return b - a\n",
	)
	assert.False(t, got.Equal)
}

func TestComparator_CallTargetSensitive(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{
			name: "plain call",
			a:    "def f(a):\n    return len(a)\n",
			b:    "def f(a):\n    return size(a)\n",
			want: "len",
		},
		{
			name: "method call",
			a:    "def f(self):\n    return self.load()\n",
			b:    "def f(self):\n    return self.store()\n",
			want: "load",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := comparePython(t, tt.a, tt.b)
			require.False(t, got.Equal)
			require.NotNil(t, got.A)
			assert.Equal(t, tt.want, got.A.Utf8Text([]byte(tt.a)))
		})
	}
}

func TestComparator_AttributeRenameIsEqual(t *testing.T) {
	got := comparePython(t,
		"def f(self):\n    return self.count + self.count\n",
		"def f(self):\n    return self.total + self.total\n",
	)
	assert.True(t, got.Equal)
}

func TestComparator_IgnoresCommentsAndDocstrings(t *testing.T) {
	got := comparePython(t,
		"def f(a):\n    \"\"\"Return a plus one.\"\"\"\n    # increment\n    return a + 1  # done\n",
		"def f(a):\n    return a + 1\n",
	)
	assert.True(t, got.Equal)

	tests := []struct {
		name string
		a, b string
	}{
		{
			name: "docstring only body with edited docstring",
			a:    "def f(a):\n    \"\"\"Old doc.\"\"\"\n",
			b:    "def f(a):\n    \"\"\"New doc.\"\"\"\n",
		},
		{
			name: "docstring only body with added comment",
			a:    "def f(a):\n    \"\"\"Old doc.\"\"\"\n",
			b:    "def f(a):\n    \"\"\"Old doc.\"\"\"\n    # note\n",
		},
		{
			name: "docstring only body with trailing comment",
			a:    "def area(self):\n    \"\"\"Area of the shape.\"\"\"\n",
			b:    "def area(this):\n    \"\"\"Surface area.\"\"\"  # abstract\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, comparePython(t, tt.a, tt.b).Equal)
		})
	}

	got = comparePython(t,
		"def f(a):\n    \"\"\"Doc.\"\"\"\n",
		"def f(a):\n    \"\"\"Doc.\"\"\"\n    return a\n",
	)
	assert.False(t, got.Equal, "a statement after an empty body diverges")

	got = comparePython(t,
		"def f(a):\n    x = 'not a docstring'\n    return a\n",
		"def f(a):\n    x = 'changed'\n    return a\n",
	)
	assert.False(t, got.Equal, "assigned strings are compared")
}

func TestComparator_LiteralAndOperatorDivergence(t *testing.T) {
	a := "def f(a):\n    return a + 1\n"
	b := "def f(a):\n    return a + 2\n"

	got := comparePython(t, a, b)
	require.False(t, got.Equal)
	assert.Equal(t, "1", got.A.Utf8Text([]byte(a)))
	assert.Equal(t, "2", got.B.Utf8Text([]byte(b)))

	a = "def f(a, b):\n    return a * b\n"
	b = "def f(a, b):\n    return a + b\n"

	got = comparePython(t, a, b)
	require.False(t, got.Equal)
	assert.Equal(t, "*", got.A.Kind())
	assert.Equal(t, "+", got.B.Kind())
}

func TestComparator_ChildCountMismatch(t *testing.T) {
	a := "def f():\n    x = 1\n"
	b := "def f():\n    x = 1\n    y = 2\n"

	got := comparePython(t, a, b)
	require.False(t, got.Equal)
	assert.Nil(t, got.A)
	require.NotNil(t, got.B)
	assert.Equal(t, "y = 2", got.B.Utf8Text([]byte(b)))

	got = comparePython(t, b, a)
	require.False(t, got.Equal)
	assert.NotNil(t, got.A)
	assert.Nil(t, got.B)
}

func TestComparator_DeepNesting(t *testing.T) {
	depth := 3000
	expr := strings.Repeat("(", depth) + "a" + strings.Repeat(")", depth)
	src := "def f(a):\n    return " + expr + "\n"

	got := comparePython(t, src, src)
	assert.True(t, got.Equal)
}

func TestComparator_Go(t *testing.T) {
	profile, _ := m.Profile(m.LanguageGo)
	comparator := NewComparator(profile)

	compare := func(a, b string) Comparison {
		nodeA, srcA := declaration(t, m.LanguageGo, a)
		nodeB, srcB := declaration(t, m.LanguageGo, b)

		return comparator.Compare(nodeA, nodeB, srcA, srcB)
	}

	t.Run("rename parameters", func(t *testing.T) {
		got := compare(
			"package p\n\n// Add adds.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n",
			"package p\n\nfunc Add(x, y int) int {\n\treturn x + y // sum\n}\n",
		)
		assert.True(t, got.Equal)
	})

	t.Run("different callee", func(t *testing.T) {
		a := "package p\n\nfunc Log(s string) {\n\tfmt.Println(s)\n}\n"
		b := "package p\n\nfunc Log(s string) {\n\tfmt.Print(s)\n}\n"

		got := compare(a, b)
		require.False(t, got.Equal)
		assert.Equal(t, "Println", got.A.Utf8Text([]byte(a)))
	})

	t.Run("types compare literally", func(t *testing.T) {
		got := compare(
			"package p\n\nfunc F(a int) int {\n\treturn a\n}\n",
			"package p\n\nfunc F(a int64) int64 {\n\treturn a\n}\n",
		)
		assert.False(t, got.Equal)
	})
}
