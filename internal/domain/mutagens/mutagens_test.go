package mutagens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/adapter"
	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

func sitesOf(t *testing.T, lang m.Language, src string) []Site {
	t.Helper()

	content := []byte(src)
	tree, err := adapter.NewTreeSitterAdapter().Parse(context.Background(), lang, content)
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	profile, ok := m.Profile(lang)
	require.True(t, ok)

	return Sites(profile, tree.RootNode(), content)
}

func categories(sites []Site) []Category {
	out := make([]Category, 0, len(sites))
	for _, site := range sites {
		out = append(out, site.Category)
	}

	return out
}

func TestSites_Python(t *testing.T) {
	src := "def f(a, b):\n    if a < b and True:\n        return a + b\n    return a\n"
	sites := sitesOf(t, m.LanguagePython, src)

	require.Equal(t, []Category{
		CategoryBranch,
		CategoryComparison,
		CategoryLogical,
		CategoryBoolean,
		CategoryArithmetic,
	}, categories(sites))

	assert.Equal(t, "a < b and True", sites[0].Original)
	assert.Equal(t, []string{"not (a < b and True)"}, sites[0].Replacements)

	assert.Equal(t, "<", sites[1].Original)
	assert.Equal(t, []string{">", "<=", ">=", "==", "!="}, sites[1].Replacements)

	assert.Equal(t, []string{"or"}, sites[2].Replacements)
	assert.Equal(t, []string{"False"}, sites[3].Replacements)

	plus := sites[4]
	assert.Equal(t, "+", src[plus.Start:plus.End])
	assert.Equal(t, []string{"-", "*", "/", "//", "%", "**"}, plus.Replacements)
}

func TestSites_PythonAugmentedAssignment(t *testing.T) {
	src := "def f(a):\n    a += 1\n    return a\n"
	sites := sitesOf(t, m.LanguagePython, src)

	require.Len(t, sites, 1)
	assert.Equal(t, "+=", sites[0].Original)
	assert.Equal(t, []string{"-=", "*=", "/="}, sites[0].Replacements)
}

func TestSites_IgnoresUnrelatedTokens(t *testing.T) {
	src := "def f(a):\n    x = -a\n    return [x, 'a + b']\n"
	sites := sitesOf(t, m.LanguagePython, src)

	assert.Empty(t, sites, "unary minus, assignment and string content are not sites")
}

func TestSites_Go(t *testing.T) {
	src := "package p\n\nfunc F(a, b int) bool {\n\ti := 0\n\ti++\n\treturn a*b > i || false\n}\n"
	sites := sitesOf(t, m.LanguageGo, src)

	require.Equal(t, []Category{
		CategoryArithmetic,
		CategoryArithmetic,
		CategoryComparison,
		CategoryLogical,
		CategoryBoolean,
	}, categories(sites))

	assert.Equal(t, "++", sites[0].Original)
	assert.Equal(t, []string{"--"}, sites[0].Replacements)
	assert.Equal(t, "*", sites[1].Original)
	assert.Equal(t, []string{"&&"}, sites[3].Replacements)
	assert.Equal(t, []string{"true"}, sites[4].Replacements)
}

func TestSites_GoBranch(t *testing.T) {
	src := "package p\n\nfunc F(ok bool) int {\n\tif ok {\n\t\treturn 1\n\t}\n\treturn 0\n}\n"
	sites := sitesOf(t, m.LanguageGo, src)

	require.Len(t, sites, 1)
	assert.Equal(t, CategoryBranch, sites[0].Category)
	assert.Equal(t, []string{"!(ok)"}, sites[0].Replacements)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		start, end  uint
		replacement string
		want        string
	}{
		{name: "same length", content: "a + b", start: 2, end: 3, replacement: "-", want: "a - b"},
		{name: "longer", content: "a / b", start: 2, end: 3, replacement: "//", want: "a // b"},
		{name: "shorter", content: "a <= b", start: 2, end: 4, replacement: "<", want: "a < b"},
		{name: "prefix", content: "x", start: 0, end: 1, replacement: "not (x)", want: "not (x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply([]byte(tt.content), tt.start, tt.end, tt.replacement)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
