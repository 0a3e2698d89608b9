package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// ErrMutantNotFound is returned when a stored mutant does not exist.
var ErrMutantNotFound = errors.New("mutant not found")

// MutantStore persists mutants as `<root>/<module>/<qualifiedName>/<id><ext>`
// next to an `<id>.json` metadata file.
type MutantStore interface {
	Add(target m.Target, mutant m.Mutant, metadata m.Metadata) (m.StoredMutant, error)
	List() ([]m.StoredMutant, error)
	IsClean() (bool, error)
	Metadata(module, name string, id int) (m.StoredMutant, error)
	Annotate(module, name string, id int, annotation string) error
	Root() m.Path
}

// FileMutantStore is a MutantStore on top of a SourceFSAdapter. Add is safe
// for concurrent use.
type FileMutantStore struct {
	fs   SourceFSAdapter
	root m.Path

	mu      sync.Mutex
	seeded  bool
	counter map[string]int
}

// NewFileMutantStore creates a store rooted at root.
func NewFileMutantStore(fsAdapter SourceFSAdapter, root m.Path) *FileMutantStore {
	return &FileMutantStore{fs: fsAdapter, root: root, counter: make(map[string]int)}
}

// Root returns the store directory.
func (s *FileMutantStore) Root() m.Path {
	return s.root
}

// Add writes the patched source file and its metadata and returns the
// stored mutant. Ids are sequential per module and qualified name.
func (s *FileMutantStore) Add(target m.Target, mutant m.Mutant, metadata m.Metadata) (m.StoredMutant, error) {
	profile, ok := m.Profile(target.File.Language)
	if !ok {
		return m.StoredMutant{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target.File.Language)
	}

	id, err := s.nextID(target.Module(), target.QualifiedName())
	if err != nil {
		return m.StoredMutant{}, err
	}

	metadata.File = filepath.ToSlash(string(target.File.Path))
	metadata.Language = target.File.Language
	metadata.MutantContent = string(mutant.Content)
	metadata.StartPosition = target.Symbol.Start
	metadata.EndPosition = target.Symbol.End

	if metadata.Annotations == nil {
		metadata.Annotations = []string{}
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return m.StoredMutant{}, fmt.Errorf("encode metadata: %w", err)
	}

	dir := s.fs.JoinPath(string(s.root), target.Module(), target.QualifiedName())

	filePath := s.fs.JoinPath(string(dir), strconv.Itoa(id)+profile.Extension)
	if err := s.fs.WriteFile(filePath, target.Patch(mutant.Content), 0o600); err != nil {
		return m.StoredMutant{}, fmt.Errorf("write mutant: %w", err)
	}

	if err := s.fs.WriteFile(s.fs.JoinPath(string(dir), strconv.Itoa(id)+".json"), data, 0o600); err != nil {
		return m.StoredMutant{}, fmt.Errorf("write metadata: %w", err)
	}

	return m.StoredMutant{
		Module:        target.Module(),
		QualifiedName: target.QualifiedName(),
		ID:            id,
		FilePath:      filePath,
		SourceFile:    target.File.Path,
		Metadata:      metadata,
	}, nil
}

// nextID hands out the next id of a target from the in-memory counter. The
// counters start past the ids present when the store is first written to,
// so adding to a non-empty store never overwrites a mutant.
func (s *FileMutantStore) nextID(module, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.seeded {
		if err := s.seed(); err != nil {
			return 0, err
		}

		s.seeded = true
	}

	key := module + ":" + name
	next := s.counter[key]
	s.counter[key] = next + 1

	return next, nil
}

func (s *FileMutantStore) seed() error {
	return s.walk(func(module, name string, ids []int) error {
		if len(ids) > 0 {
			s.counter[module+":"+name] = ids[len(ids)-1] + 1
		}

		return nil
	})
}

// walk calls fn with the sorted ids of every target directory in the store.
func (s *FileMutantStore) walk(fn func(module, name string, ids []int) error) error {
	modules, err := s.readDir(s.root)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}

	for _, module := range modules {
		if !module.IsDir() {
			continue
		}

		names, err := s.readDir(s.fs.JoinPath(string(s.root), module.Name()))
		if err != nil {
			return fmt.Errorf("read module %s: %w", module.Name(), err)
		}

		for _, name := range names {
			if !name.IsDir() {
				continue
			}

			ids, err := s.storedIDs(s.fs.JoinPath(string(s.root), module.Name(), name.Name()))
			if err != nil {
				return err
			}

			if err := fn(module.Name(), name.Name(), ids); err != nil {
				return err
			}
		}
	}

	return nil
}

// readDir lists dir. A missing directory is empty.
func (s *FileMutantStore) readDir(dir m.Path) ([]os.DirEntry, error) {
	entries, err := s.fs.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	return entries, err
}

// storedIDs returns the sorted ids that have a metadata file in dir.
func (s *FileMutantStore) storedIDs(dir m.Path) ([]int, error) {
	entries, err := s.readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var ids []int

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}

		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids, nil
}

// IsClean reports whether the store root is absent or empty.
func (s *FileMutantStore) IsClean() (bool, error) {
	entries, err := s.readDir(s.root)
	if err != nil {
		return false, err
	}

	return len(entries) == 0, nil
}

// List enumerates every stored mutant ordered by module, qualified name and id.
func (s *FileMutantStore) List() ([]m.StoredMutant, error) {
	var mutants []m.StoredMutant

	err := s.walk(func(module, name string, ids []int) error {
		for _, id := range ids {
			mutant, err := s.load(module, name, id)
			if err != nil {
				return err
			}

			mutants = append(mutants, mutant)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(mutants, func(i, j int) bool {
		a, b := mutants[i], mutants[j]
		if a.Module != b.Module {
			return a.Module < b.Module
		}

		if a.QualifiedName != b.QualifiedName {
			return a.QualifiedName < b.QualifiedName
		}

		return a.ID < b.ID
	})

	return mutants, nil
}

// Metadata loads a single stored mutant.
func (s *FileMutantStore) Metadata(module, name string, id int) (m.StoredMutant, error) {
	return s.load(module, name, id)
}

func (s *FileMutantStore) load(module, name string, id int) (m.StoredMutant, error) {
	dir := s.fs.JoinPath(string(s.root), module, name)
	metaPath := s.fs.JoinPath(string(dir), strconv.Itoa(id)+".json")

	data, err := s.fs.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m.StoredMutant{}, fmt.Errorf("%w: %s:%s:%d", ErrMutantNotFound, module, name, id)
		}

		return m.StoredMutant{}, fmt.Errorf("read metadata: %w", err)
	}

	var metadata m.Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return m.StoredMutant{}, fmt.Errorf("decode %s: %w", metaPath, err)
	}

	ext := filepath.Ext(metadata.File)
	if profile, ok := m.Profile(metadata.Language); ok {
		ext = profile.Extension
	}

	return m.StoredMutant{
		Module:        module,
		QualifiedName: name,
		ID:            id,
		FilePath:      s.fs.JoinPath(string(dir), strconv.Itoa(id)+ext),
		SourceFile:    m.Path(filepath.FromSlash(metadata.File)),
		Metadata:      metadata,
	}, nil
}

// Annotate appends annotation to the mutant's metadata. Existing
// annotations are not duplicated.
func (s *FileMutantStore) Annotate(module, name string, id int, annotation string) error {
	mutant, err := s.load(module, name, id)
	if err != nil {
		return err
	}

	if mutant.Metadata.HasAnnotation(annotation) {
		return nil
	}

	mutant.Metadata.Annotations = append(mutant.Metadata.Annotations, annotation)

	data, err := json.MarshalIndent(mutant.Metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	metaPath := s.fs.JoinPath(string(s.root), module, name, strconv.Itoa(id)+".json")

	return s.fs.WriteFile(metaPath, data, 0o600)
}
