package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

func testTarget() m.Target {
	content := []byte("import os\n\ndef add(a, b):\n    return a + b\n\nX = 1\n")
	file := &m.SourceFile{
		Path:     m.Path("src/calc.py"),
		Module:   "calc",
		Language: m.LanguagePython,
		Content:  content,
	}

	return m.Target{File: file, Symbol: m.Symbol{
		Name:          "add",
		QualifiedName: "add",
		StartByte:     11,
		EndByte:       42,
		BodyStartByte: 30,
		Start:         m.Point{Row: 2},
		End:           m.Point{Row: 3, Column: 16},
	}}
}

func TestFileMutantStore_AddAndList(t *testing.T) {
	root := m.Path(filepath.Join(t.TempDir(), "mutants"))
	store := NewFileMutantStore(NewLocalSourceFSAdapter(), root)

	clean, err := store.IsClean()
	require.NoError(t, err)
	assert.True(t, clean, "missing root is clean")

	target := testTarget()
	require.Equal(t, "def add(a, b):\n    return a + b", string(target.Content()))

	first, err := store.Add(target, m.Mutant{Content: []byte("def add(a, b):\n    return a - b")}, m.Metadata{Generator: "operator"})
	require.NoError(t, err)
	second, err := store.Add(target, m.Mutant{Content: []byte("def add(a, b):\n    return a * b")}, m.Metadata{Dropped: true})
	require.NoError(t, err)

	assert.Equal(t, 0, first.ID)
	assert.Equal(t, 1, second.ID)

	patched, err := os.ReadFile(string(first.FilePath))
	require.NoError(t, err)
	assert.Equal(t, "import os\n\ndef add(a, b):\n    return a - b\n\nX = 1\n", string(patched))
	assert.Equal(t, filepath.Join(string(root), "calc", "add", "0.py"), string(first.FilePath))

	clean, err = store.IsClean()
	require.NoError(t, err)
	assert.False(t, clean)

	listed, err := store.List()
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.Equal(t, "calc", listed[0].Module)
	assert.Equal(t, "add", listed[0].QualifiedName)
	assert.Equal(t, first.FilePath, listed[0].FilePath)
	assert.Equal(t, m.Path("src/calc.py"), listed[0].SourceFile)
	assert.Equal(t, "operator", listed[0].Metadata.Generator)
	assert.Equal(t, "def add(a, b):\n    return a - b", listed[0].Metadata.MutantContent)
	assert.Equal(t, uint(2), listed[0].Metadata.StartPosition.Row)
	assert.False(t, listed[0].Metadata.Dropped)
	assert.True(t, listed[1].Metadata.Dropped)
}

func TestFileMutantStore_NumericOrder(t *testing.T) {
	store := NewFileMutantStore(NewLocalSourceFSAdapter(), m.Path(t.TempDir()))
	target := testTarget()

	for range 12 {
		_, err := store.Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
		require.NoError(t, err)
	}

	listed, err := store.List()
	require.NoError(t, err)
	require.Len(t, listed, 12)

	for i, mutant := range listed {
		assert.Equal(t, i, mutant.ID)
	}
}

func TestFileMutantStore_CounterSeededFromDisk(t *testing.T) {
	root := m.Path(t.TempDir())
	target := testTarget()

	_, err := NewFileMutantStore(NewLocalSourceFSAdapter(), root).Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)

	again, err := NewFileMutantStore(NewLocalSourceFSAdapter(), root).Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.ID)
}

func TestFileMutantStore_CounterIsInMemory(t *testing.T) {
	root := m.Path(t.TempDir())
	store := NewFileMutantStore(NewLocalSourceFSAdapter(), root)
	target := testTarget()

	first, err := store.Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)
	require.Equal(t, 0, first.ID)

	// A file written behind the store's back does not move its counter.
	stray := filepath.Join(string(root), "calc", "add", "7.json")
	require.NoError(t, os.WriteFile(stray, []byte("{}"), 0o600))

	second, err := store.Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.ID)
}

func TestFileMutantStore_UsesFSAdapter(t *testing.T) {
	fsAdapter := newRecordingFS()
	root := m.Path(t.TempDir())
	store := NewFileMutantStore(fsAdapter, root)
	target := testTarget()

	stored, err := store.Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)

	_, err = store.List()
	require.NoError(t, err)

	dir := filepath.Join(string(root), "calc", "add")
	assert.Equal(t, []string{
		"readdir " + string(root),
		"write " + string(stored.FilePath),
		"write " + filepath.Join(dir, "0.json"),
		"readdir " + string(root),
		"readdir " + filepath.Join(string(root), "calc"),
		"readdir " + dir,
		"read " + filepath.Join(dir, "0.json"),
	}, fsAdapter.calls)
}

func TestFileMutantStore_Annotate(t *testing.T) {
	store := NewFileMutantStore(NewLocalSourceFSAdapter(), m.Path(t.TempDir()))
	target := testTarget()

	stored, err := store.Add(target, m.Mutant{Content: target.Content()}, m.Metadata{})
	require.NoError(t, err)

	require.NoError(t, store.Annotate("calc", "add", stored.ID, "equivalent"))
	require.NoError(t, store.Annotate("calc", "add", stored.ID, "equivalent"))

	loaded, err := store.Metadata("calc", "add", stored.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"equivalent"}, loaded.Metadata.Annotations)

	err = store.Annotate("calc", "add", 99, "x")
	assert.ErrorIs(t, err, ErrMutantNotFound)
}
