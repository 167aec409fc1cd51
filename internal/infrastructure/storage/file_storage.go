package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// StoredFile describes a file written to storage.
type StoredFile struct {
	Name string
	URL  string
	Size int64
}

type FileStorage interface {
	// Save writes r under name. Writes larger than the configured limit fail
	// with ErrFileTooLarge and leave nothing behind.
	Save(ctx context.Context, name string, r io.Reader) (*StoredFile, error)
	Remove(ctx context.Context, name string) error
}

type localFileStorage struct {
	fs       afero.Fs
	dir      string
	baseURL  string
	maxBytes int64
}

// NewLocalFileStorage stores files under dir on fs and exposes them below
// baseURL. Use afero.NewOsFs in production and afero.NewMemMapFs in tests.
func NewLocalFileStorage(fs afero.Fs, dir, baseURL string, maxBytes int64) (FileStorage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &localFileStorage{fs: fs, dir: dir, baseURL: baseURL, maxBytes: maxBytes}, nil
}

func (s *localFileStorage) Save(ctx context.Context, name string, r io.Reader) (stored *StoredFile, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = filepath.Base(name)
	fullPath := filepath.Join(s.dir, name)

	f, err := s.fs.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, closeErr)
		}
		if err != nil {
			s.fs.Remove(fullPath)
			stored = nil
		}
	}()

	// Read one byte past the limit to tell "exactly max" from "too large".
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	if written > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	return &StoredFile{
		Name: name,
		URL:  path.Join(s.baseURL, name),
		Size: written,
	}, nil
}

func (s *localFileStorage) Remove(ctx context.Context, name string) error {
	return s.fs.Remove(filepath.Join(s.dir, filepath.Base(name)))
}
