// Package storage provides the blob store for uploaded résumés and the
// upload orchestration around it.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStore is the narrow contract the domain layer requires of blob
// storage.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// DiskStore keeps blobs on the local filesystem and serves them under a
// public base URL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *DiskStore) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

func (s *DiskStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL recovers the storage key from a public URL. Returns an
// empty string when the URL has no path.
func KeyFromURL(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return path.Base(fileURL)
	}
	key := path.Base(parsed.Path)
	if key == "." || key == "/" {
		return ""
	}
	return key
}
