package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

/*
DirectoryStore is a simple storage provider that stores objects in a local
directory. It is not suitable for production use.
*/

////////////////////////////////////////////////////////////////////////////////

type DirectoryStore struct {
	root string
}

// NewDirectoryStore creates a new DirectoryStore.
func NewDirectoryStore(root string) *DirectoryStore {
	return &DirectoryStore{root: root}
}

// Put stores an object in the directory.
func (d *DirectoryStore) Put(_ context.Context, id string, data []byte) error {
	err := os.WriteFile(filepath.Join(d.root, id), data, 0600)
	if err != nil {
		return fmt.Errorf("write failure: %w", err)
	}
	return nil
}

// GetRange retrieves a range of bytes from an object in the directory.
func (d *DirectoryStore) GetRange(_ context.Context, id string, offset int64, length int) ([]byte, error) {
	f, err := os.Open(filepath.Join(d.root, id))
	if err != nil {
		return nil, ErrObjectNotFound
	}
	defer f.Close()
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek failure: %w", err)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(f, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, ErrInvalidRange
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return buf, nil
}

// Size returns the size of an object in the directory.
func (d *DirectoryStore) Size(_ context.Context, id string) (int64, error) {
	info, err := os.Stat(filepath.Join(d.root, id))
	if err != nil {
		return 0, ErrObjectNotFound
	}
	return info.Size(), nil
}

// Delete removes an object from the directory.
func (d *DirectoryStore) Delete(_ context.Context, id string) error {
	err := os.Remove(filepath.Join(d.root, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) { // For conformance to S3 API
			return nil
		}
		return fmt.Errorf("deletion failure: %w", err)
	}
	return nil
}

func (d *DirectoryStore) String() string {
	return fmt.Sprintf("directory(%s)", d.root)
}
