package adapter

import (
	"context"
	"path/filepath"
	"sync"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// SourceProvider resolves the source text of a project file.
type SourceProvider interface {
	Load(ctx context.Context, path m.Path) ([]byte, error)
}

// FileSourceProvider reads sources from disk.
type FileSourceProvider struct {
	fs SourceFSAdapter
}

// NewFileSourceProvider creates a provider backed by fs.
func NewFileSourceProvider(fs SourceFSAdapter) *FileSourceProvider {
	return &FileSourceProvider{fs: fs}
}

// Load reads path from disk.
func (p *FileSourceProvider) Load(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p.fs.ReadFile(path)
}

// OverrideSourceProvider serves installed contents in place of the files
// on disk. The files themselves are never modified.
type OverrideSourceProvider struct {
	fallback SourceProvider

	mu        sync.RWMutex
	overrides map[m.Path][]byte
}

// NewOverrideSourceProvider wraps fallback.
func NewOverrideSourceProvider(fallback SourceProvider) *OverrideSourceProvider {
	return &OverrideSourceProvider{
		fallback:  fallback,
		overrides: make(map[m.Path][]byte),
	}
}

// Install makes Load return content for path until Uninstall is called.
func (p *OverrideSourceProvider) Install(path m.Path, content []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.overrides[cleanPath(path)] = append([]byte(nil), content...)
}

// Uninstall removes the override for path.
func (p *OverrideSourceProvider) Uninstall(path m.Path) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.overrides, cleanPath(path))
}

// Load returns the installed override or falls back.
func (p *OverrideSourceProvider) Load(ctx context.Context, path m.Path) ([]byte, error) {
	p.mu.RLock()
	content, ok := p.overrides[cleanPath(path)]
	p.mu.RUnlock()

	if ok {
		return append([]byte(nil), content...), nil
	}

	return p.fallback.Load(ctx, path)
}

func cleanPath(path m.Path) m.Path {
	return m.Path(filepath.Clean(string(path)))
}
