package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"devmart/internal/storage"
)

// LocalFileStorage keeps objects on the local filesystem and serves them
// under baseURL.
type LocalFileStorage struct {
	baseDir string // e.g. "./uploads"
	baseURL string // e.g. "http://localhost:8080/uploads"
	maxSize int64
}

var _ storage.ObjectStore = (*LocalFileStorage)(nil)

func NewLocalFileStorage(baseDir, baseURL string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func (s *LocalFileStorage) Put(ctx context.Context, key string, body io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	src := body
	if s.maxSize > 0 {
		src = io.LimitReader(body, s.maxSize+1)
	}

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(fullPath)
			return "", fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(fullPath)
		return "", ctx.Err()
	}

	if s.maxSize > 0 && size > s.maxSize {
		_ = os.Remove(fullPath)
		return "", storage.ErrFileTooLarge
	}

	return s.publicURL(key), nil
}

// Delete removes the object. A missing object is treated as already deleted.
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

func (s *LocalFileStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}

	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *LocalFileStorage) publicURL(key string) string {
	parts := strings.Split(strings.TrimPrefix(path.Clean("/"+key), "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return s.baseURL + "/" + strings.Join(parts, "/")
}
