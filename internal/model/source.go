// Package model defines the data structures shared by the mutation pipeline.
package model

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Path represents a file system path.
type Path string

// Point is a zero-based row/column position inside a source file.
type Point struct {
	Row    uint `json:"row"`
	Column uint `json:"column"`
}

// Symbol is a function-like declaration found in a source file.
type Symbol struct {
	Name          string
	QualifiedName string
	Kind          string
	StartByte     uint
	EndByte       uint
	BodyStartByte uint
	Start         Point
	End           Point
}

// SourceFile is a parsed source file. It is recomputed on every run.
type SourceFile struct {
	// Path is relative to the project root.
	Path     Path
	FullPath Path
	Module   string
	Language Language
	Content  []byte
	Tree     *sitter.Tree
	Symbols  []Symbol
}

// Close releases the parsed tree.
func (f *SourceFile) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// Targets returns every symbol of the file bound to the file.
func (f *SourceFile) Targets() []Target {
	targets := make([]Target, 0, len(f.Symbols))
	for _, symbol := range f.Symbols {
		targets = append(targets, Target{File: f, Symbol: symbol})
	}

	return targets
}

// Target is a symbol bound to the file that declares it.
type Target struct {
	File   *SourceFile
	Symbol Symbol
}

// Module returns the dotted module name of the declaring file.
func (t Target) Module() string {
	return t.File.Module
}

// QualifiedName returns the dotted name of the symbol within its module.
func (t Target) QualifiedName() string {
	return t.Symbol.QualifiedName
}

// Content returns the declaration text.
func (t Target) Content() []byte {
	return t.File.Content[t.Symbol.StartByte:t.Symbol.EndByte]
}

// Signature returns the declaration text up to the start of the body.
func (t Target) Signature() []byte {
	return t.File.Content[t.Symbol.StartByte:t.Symbol.BodyStartByte]
}

// Patch returns the file content with the target's byte range replaced.
func (t Target) Patch(content []byte) []byte {
	out := make([]byte, 0, len(t.File.Content)-len(t.Content())+len(content))
	out = append(out, t.File.Content[:t.Symbol.StartByte]...)
	out = append(out, content...)
	out = append(out, t.File.Content[t.Symbol.EndByte:]...)

	return out
}

// Node returns the declaration node of the target inside the file tree.
func (t Target) Node() *sitter.Node {
	if t.File.Tree == nil {
		return nil
	}

	return FindNode(t.File.Tree.RootNode(), t.Symbol.StartByte, t.Symbol.EndByte)
}

// FindNode descends from root to the innermost node spanning exactly
// [start, end). It returns nil when no such node exists.
func FindNode(root *sitter.Node, start, end uint) *sitter.Node {
	var found *sitter.Node

	node := root
	for node != nil {
		if node.StartByte() == start && node.EndByte() == end {
			found = node
		}

		var next *sitter.Node

		for i := range node.ChildCount() {
			child := node.Child(i)
			if child != nil && child.StartByte() <= start && child.EndByte() >= end {
				next = child
				break
			}
		}

		node = next
	}

	return found
}

// ModuleName derives the dotted module name of a file relative to the
// source root.
func ModuleName(rel string, lang Language) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	parts := strings.Split(rel, "/")
	if lang == LanguagePython && len(parts) > 1 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}
