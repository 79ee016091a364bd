package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jonathan/job-intake/internal/normalize"
)

// FileStore writes each record as pretty JSON to one path, replacing the previous content.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the output file path.
func (f *FileStore) Path() string {
	return f.path
}

// Save overwrites the file through a temp file and rename, so readers never see a partial record.
func (f *FileStore) Save(ctx context.Context, rec *normalize.Record) error {
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}

	data, err := rec.Pretty()
	if err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &PersistenceError{Target: f.path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return &PersistenceError{Target: f.path, Cause: err}
	}
	return nil
}
