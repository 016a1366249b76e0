package docstore

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	fwerrors "github.com/framewright/framewright/pkg/errors"
)

const fileExt = ".json"

// FileStore implements a file-based document store for CLI usage.
// Each document is stored as <id>.json in one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := fwerrors.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, storageErr("file", "mkdir", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Kind returns "file".
func (f *FileStore) Kind() string { return "file" }

// Dir returns the document directory.
func (f *FileStore) Dir() string { return f.dir }

// Load reads a document file.
func (f *FileStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr("file", "load", id, err)
	}
	return data, nil
}

// Save writes the document to a temporary file and renames it into place,
// so readers never see a partial document.
func (f *FileStore) Save(ctx context.Context, id string, data []byte) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, ".tmp-"+id+"-*")
	if err != nil {
		return storageErr("file", "save", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr("file", "save", id, err)
	}
	if err := tmp.Close(); err != nil {
		return storageErr("file", "save", id, err)
	}
	if err := os.Rename(tmp.Name(), f.path(id)); err != nil {
		return storageErr("file", "save", id, err)
	}
	return nil
}

// Delete removes a document file.
func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := fwerrors.ValidateDocumentID(id); err != nil {
		return err
	}
	err := os.Remove(f.path(id))
	if err != nil && !os.IsNotExist(err) {
		return storageErr("file", "delete", id, err)
	}
	return nil
}

// List returns the ids of all document files.
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, storageErr("file", "list", f.dir, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id := strings.TrimSuffix(name, fileExt)
		if fwerrors.ValidateDocumentID(id) == nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) path(id string) string {
	return filepath.Join(f.dir, id+fileExt)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
