// Package journal provides a gob-encoded append-only record file used to
// recover results of interrupted runs.
package journal

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Journal appends items of type T to a file on disk.
type Journal[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type journalImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// Create opens a new journal at path, truncating any previous content.
// Each journal file holds exactly one gob stream.
func Create[T any](path string) (Journal[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		slog.Error("failed to create journal directory", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// #nosec G304 - the journal path is derived from the configured output directory
	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create journal", "path", path, "error", err)
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	slog.Debug("created journal", "path", path)

	return &journalImpl[T]{
		path:    path,
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append implements Journal.
func (j *journalImpl[T]) Append(item T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return fmt.Errorf("journal %s is closed", j.path)
	}

	if err := j.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", j.path, "index", j.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	j.length++

	return nil
}

// AppendBatch implements Journal.
func (j *journalImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := j.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Path implements Journal.
func (j *journalImpl[T]) Path() string {
	return j.path
}

// Len implements Journal.
func (j *journalImpl[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Range implements Journal.
func (j *journalImpl[T]) Range(fn func(index uint64, item T) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return Replay(j.path, fn)
}

// Close implements Journal.
func (j *journalImpl[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}

	err := j.file.Close()
	j.file = nil

	if err != nil {
		slog.Error("failed to close journal", "path", j.path, "error", err)
		return err
	}

	slog.Debug("closed journal", "path", j.path, "length", j.length)

	return nil
}

// Replay decodes every complete item of the journal at path in order.
// A record truncated by a crash ends the replay without error.
func Replay[T any](path string, fn func(index uint64, item T) error) error {
	// #nosec G304 - the journal path is derived from the configured output directory
	file, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open journal", "path", path, "error", err)
		return fmt.Errorf("failed to open journal: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); ; i++ {
		var item T

		if err := decoder.Decode(&item); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			if errors.Is(err, io.ErrUnexpectedEOF) {
				slog.Warn("journal ends with a truncated record", "path", path, "index", i)
				return nil
			}

			slog.Error("failed to decode item", "path", path, "index", i, "error", err)

			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}
}
