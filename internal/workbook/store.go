package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"costbook/models"
)

// ErrNoWorkbook is returned by FileStore.Load when the workbook does not exist yet.
var ErrNoWorkbook = errors.New("workbook: no workbook found")

// FileStore keeps the dataset in a single workbook on disk.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by the workbook at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the workbook. A missing file yields ErrNoWorkbook.
func (s *FileStore) Load(ctx context.Context) (models.TableSet, error) {
	if err := ctx.Err(); err != nil {
		return models.TableSet{}, err
	}
	ts, err := ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.TableSet{}, ErrNoWorkbook
	}
	return ts, err
}

// Save writes ts next to the workbook and renames it into place so readers never
// observe a half-written file.
func (s *FileStore) Save(ctx context.Context, ts models.TableSet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".costbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(tmp, ts); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// String names the backing file for logs.
func (s *FileStore) String() string {
	return "workbook:" + s.Path
}
