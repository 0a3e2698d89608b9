package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	m "github.com/robert-oleynik/AI4SE-Mutation-Testing/internal/model"
)

// ReportFileName is the name of the result file inside the output directory.
const ReportFileName = "test-result.json"

// ReportStore persists result trees.
type ReportStore interface {
	// Write replaces the report at path atomically.
	Write(ctx context.Context, path m.Path, tree *m.ResultTree) error
	// Read loads the report at path. A missing report yields a nil tree.
	Read(ctx context.Context, path m.Path) (*m.ResultTree, error)
}

// FileReportStore stores reports as JSON files.
type FileReportStore struct {
	fs SourceFSAdapter
}

// NewFileReportStore constructs a FileReportStore on top of fs.
func NewFileReportStore(fsAdapter SourceFSAdapter) *FileReportStore {
	return &FileReportStore{fs: fsAdapter}
}

// Write encodes tree and replaces the file at path, so readers never
// observe a partial report.
func (s *FileReportStore) Write(ctx context.Context, path m.Path, tree *m.ResultTree) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := s.fs.ReplaceFile(path, data, 0o600); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}

	return nil
}

// Read decodes the report at path.
func (s *FileReportStore) Read(ctx context.Context, path m.Path) (*m.ResultTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read report: %w", err)
	}

	tree := m.NewResultTree()
	if err := json.Unmarshal(data, tree); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}

	return tree, nil
}
