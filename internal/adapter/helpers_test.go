package adapter

import (
	"os"
	"sync"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// recordingFS is a LocalSourceFSAdapter that logs the file operations
// stores route through it.
type recordingFS struct {
	*LocalSourceFSAdapter

	mu    sync.Mutex
	calls []string
}

func newRecordingFS() *recordingFS {
	return &recordingFS{LocalSourceFSAdapter: NewLocalSourceFSAdapter()}
}

func (r *recordingFS) record(op string, path m.Path) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, op+" "+string(path))
}

func (r *recordingFS) ReadFile(path m.Path) ([]byte, error) {
	r.record("read", path)
	return r.LocalSourceFSAdapter.ReadFile(path)
}

func (r *recordingFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	r.record("write", path)
	return r.LocalSourceFSAdapter.WriteFile(path, content, perm)
}

func (r *recordingFS) ReplaceFile(path m.Path, content []byte, perm os.FileMode) error {
	r.record("replace", path)
	return r.LocalSourceFSAdapter.ReplaceFile(path, content, perm)
}

func (r *recordingFS) ReadDir(path m.Path) ([]os.DirEntry, error) {
	r.record("readdir", path)
	return r.LocalSourceFSAdapter.ReadDir(path)
}
