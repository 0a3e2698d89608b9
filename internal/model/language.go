package model

import (
	"path/filepath"
	"slices"
)

// Language identifies a supported source language.
type Language string

const (
	// LanguagePython selects the Python grammar and runner conventions.
	LanguagePython Language = "python"
	// LanguageGo selects the Go grammar and runner conventions.
	LanguageGo Language = "go"
)

// LanguageProfile holds every language-specific detail the comparator,
// symbol extraction and test classification need.
type LanguageProfile struct {
	Language  Language
	Extension string

	IdentifierKinds []string
	CallKinds       []string
	CallField       string
	MemberKinds     []string
	MemberField     string

	// DocstringStatement is the statement kind wrapping a bare string
	// literal. Empty when the language has no docstrings.
	DocstringStatement string
	DocstringKind      string

	DeclarationKinds []string
	ScopeKinds       []string
	BodyField        string

	OperatorParents []string

	DefaultCommand []string
	// SyntaxErrorExit is the smallest runner exit code that means the
	// mutated module failed to load. Zero disables the range.
	SyntaxErrorExit  int
	LoadErrorMarkers []string
}

// LoadErrorMarker is printed by cooperating runners when the mutated module
// cannot be imported or compiled.
const LoadErrorMarker = "MUTATOR-LOAD-ERROR"

var profiles = map[Language]LanguageProfile{
	LanguagePython: {
		Language:           LanguagePython,
		Extension:          ".py",
		IdentifierKinds:    []string{"identifier"},
		CallKinds:          []string{"call"},
		CallField:          "function",
		MemberKinds:        []string{"attribute"},
		MemberField:        "attribute",
		DocstringStatement: "expression_statement",
		DocstringKind:      "string",
		DeclarationKinds:   []string{"function_definition"},
		ScopeKinds:         []string{"function_definition", "class_definition"},
		BodyField:          "body",
		OperatorParents:    []string{"binary_operator", "comparison_operator", "boolean_operator", "augmented_assignment"},
		DefaultCommand:     []string{"python3", "-m", "pytest", "-x", "-q", "-p", "no:cacheprovider"},
		SyntaxErrorExit:    2,
		LoadErrorMarkers:   []string{LoadErrorMarker},
	},
	LanguageGo: {
		Language:         LanguageGo,
		Extension:        ".go",
		IdentifierKinds:  []string{"identifier", "field_identifier"},
		CallKinds:        []string{"call_expression"},
		CallField:        "function",
		MemberKinds:      []string{"selector_expression"},
		MemberField:      "field",
		DeclarationKinds: []string{"function_declaration", "method_declaration"},
		ScopeKinds:       []string{"function_declaration", "method_declaration"},
		BodyField:        "body",
		OperatorParents:  []string{"binary_expression", "assignment_statement", "inc_statement", "dec_statement"},
		DefaultCommand:   []string{"go", "test", "-count=1", "./..."},
		LoadErrorMarkers: []string{LoadErrorMarker, "[build failed]", "[setup failed]"},
	},
}

// Profile returns the profile of lang.
func Profile(lang Language) (LanguageProfile, bool) {
	p, ok := profiles[lang]
	return p, ok
}

// Languages lists the supported languages in a stable order.
func Languages() []Language {
	return []Language{LanguagePython, LanguageGo}
}

// LanguageForPath picks the language from the file extension.
func LanguageForPath(path string) (Language, bool) {
	ext := filepath.Ext(path)
	for _, lang := range Languages() {
		if profiles[lang].Extension == ext {
			return lang, true
		}
	}

	return "", false
}

// IsIdentifier reports whether kind is compared by role.
func (p LanguageProfile) IsIdentifier(kind string) bool {
	return slices.Contains(p.IdentifierKinds, kind)
}

// IsDeclaration reports whether kind is a mutation target declaration.
func (p LanguageProfile) IsDeclaration(kind string) bool {
	return slices.Contains(p.DeclarationKinds, kind)
}

// IsCall reports whether kind is a call expression.
func (p LanguageProfile) IsCall(kind string) bool {
	return slices.Contains(p.CallKinds, kind)
}

// IsMember reports whether kind is a member access expression.
func (p LanguageProfile) IsMember(kind string) bool {
	return slices.Contains(p.MemberKinds, kind)
}
