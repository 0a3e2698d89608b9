// Package adapter contains infrastructure adapters for the mutator CLI.
package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// DefaultCopyExclude lists directories that are never staged.
var DefaultCopyExclude = []string{
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".tox",
	".venv",
	"node_modules",
	"build",
	"dist",
	"out",
}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning projects and staging copies of them. It hides
// direct `os` access so the workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Walk traverses every file below root.
	Walk(root m.Path, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FileInfo returns metadata for a path so the domain can check existence or
	// distinguish between files and directories when necessary.
	FileInfo(path m.Path) (os.FileInfo, error)

	// CreateTempDir creates a temporary directory for a staged project copy.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// CopyDir recursively copies a directory tree, honouring opts.
	CopyDir(src, dst m.Path, opts CopyOptions) error

	// CopyFile copies a single file, creating parent directories.
	CopyFile(src, dst m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// ReplaceFile writes content next to path and renames it into place, so
	// readers see either the old or the new file.
	ReplaceFile(path m.Path, content []byte, perm os.FileMode) error

	// ReadDir lists a directory sorted by name.
	ReadDir(path m.Path) ([]os.DirEntry, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// CopyOptions controls which parts of a project CopyDir stages.
type CopyOptions struct {
	// Exclude holds gitignore-style patterns relative to the copied root.
	Exclude []string
	// RespectGitignore additionally skips paths matched by the root .gitignore.
	RespectGitignore bool
	// KeepVCS copies the .git directory so the copy can be reset with git.
	KeepVCS bool
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter implements SourceFSAdapter on the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk iterates over files under root. Hidden directories are skipped.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// CreateTempDir creates a temporary directory for mutation testing.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyDir recursively copies a directory tree.
func (a *LocalSourceFSAdapter) CopyDir(src, dst m.Path, opts CopyOptions) error {
	matcher, err := compileExcludes(src, opts)
	if err != nil {
		return err
	}

	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if relPath != "." && excluded(matcher, filepath.ToSlash(relPath), info.IsDir(), opts.KeepVCS) {
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		targetPath := filepath.Join(string(dst), relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

func compileExcludes(src m.Path, opts CopyOptions) (*ignore.GitIgnore, error) {
	lines := append([]string(nil), opts.Exclude...)

	if opts.RespectGitignore {
		content, err := os.ReadFile(filepath.Join(string(src), ".gitignore"))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read .gitignore: %w", err)
		}

		lines = append(lines, strings.Split(string(content), "\n")...)
	}

	return ignore.CompileIgnoreLines(lines...), nil
}

func excluded(matcher *ignore.GitIgnore, rel string, dir, keepVCS bool) bool {
	if filepath.Base(rel) == ".git" {
		return !keepVCS
	}

	if matcher.MatchesPath(rel) {
		return true
	}

	return dir && matcher.MatchesPath(rel+"/")
}

// CopyFile copies a single file, keeping its mode.
func (a *LocalSourceFSAdapter) CopyFile(src, dst m.Path) error {
	info, err := os.Stat(string(src))
	if err != nil {
		return err
	}

	return a.copyFile(string(src), string(dst), info.Mode())
}

// copyFile copies a single file.
func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is internal project file path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is internal destination path, not user input
	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// WriteFile writes content to a file with the given permissions, creating
// parent directories.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// ReplaceFile writes content to a temporary file in the directory of path
// and renames it over path.
func (a *LocalSourceFSAdapter) ReplaceFile(path m.Path, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(string(path))+"-*")
	if err != nil {
		return err
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), string(path))
}

// ReadDir lists the entries of a directory.
func (a *LocalSourceFSAdapter) ReadDir(path m.Path) ([]os.DirEntry, error) {
	return os.ReadDir(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
