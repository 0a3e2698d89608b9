package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		rel  string
		lang Language
		want string
	}{
		{rel: "calc.py", lang: LanguagePython, want: "calc"},
		{rel: "pkg/sub/mod.py", lang: LanguagePython, want: "pkg.sub.mod"},
		{rel: "pkg/__init__.py", lang: LanguagePython, want: "pkg"},
		{rel: "__init__.py", lang: LanguagePython, want: "__init__"},
		{rel: "internal/calc/calc.go", lang: LanguageGo, want: "internal.calc.calc"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, ModuleName(tt.rel, tt.lang))
		})
	}
}

func TestTarget_PatchReplacesOnlyTargetRange(t *testing.T) {
	content := []byte("a = 1\ndef f():\n    return 1\nb = 2\n")
	file := &SourceFile{Content: content}
	target := Target{File: file, Symbol: Symbol{StartByte: 6, EndByte: 27, BodyStartByte: 19}}

	assert.Equal(t, "def f():\n    return 1", string(target.Content()))
	assert.Equal(t, "def f():\n    ", string(target.Signature()))
	assert.Equal(t, "a = 1\ndef f():\n    return 2\nb = 2\n", string(target.Patch([]byte("def f():\n    return 2"))))
	assert.Equal(t, "a = 1\ndef f():\n    return 1\nb = 2\n", string(content))
}

func TestLanguageForPath(t *testing.T) {
	lang, ok := LanguageForPath("src/x.py")
	assert.True(t, ok)
	assert.Equal(t, LanguagePython, lang)

	lang, ok = LanguageForPath("x.go")
	assert.True(t, ok)
	assert.Equal(t, LanguageGo, lang)

	_, ok = LanguageForPath("x.rs")
	assert.False(t, ok)
}

func TestStoredMutant_Key(t *testing.T) {
	m := StoredMutant{Module: "calc", QualifiedName: "Calc.add", ID: 7}
	assert.Equal(t, ResultKey{Module: "calc", Name: "Calc.add", MutantID: "7"}, m.Key())
}
