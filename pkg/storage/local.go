package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded files on disk and hands out URL strings. Rows only
// ever hold the URLs; bytes never touch the database.
type Store struct {
	baseDir   string
	urlPrefix string
}

// NewStore ensures the base directory exists and returns a handle.
// urlPrefix is the public route files are served under, e.g. "/api/v1/files".
func NewStore(baseDir, urlPrefix string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Store{baseDir: baseDir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save streams the upload into a content-addressed object and returns its URL.
// The original extension is kept so browsers can infer content types.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	key := uuid.NewString()
	if ext := filepath.Ext(originalName); ext != "" && len(ext) <= 10 {
		key += ext
	}
	path := filepath.Join(s.baseDir, key)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return s.URLFor(key), nil
}

// URLFor maps an object key to its public URL.
func (s *Store) URLFor(key string) string {
	return s.urlPrefix + "/" + key
}

// KeyFor maps a URL produced by this store back to its object key.
// URLs from other origins return an empty key.
func (s *Store) KeyFor(url string) string {
	trimmed := strings.TrimPrefix(url, s.urlPrefix+"/")
	if trimmed == url || trimmed == "" || strings.Contains(trimmed, "/") {
		return ""
	}
	return trimmed
}

// Open returns a read-only handle for the stored object.
func (s *Store) Open(key string) (*os.File, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("invalid object key")
	}
	file, err := os.Open(filepath.Join(s.baseDir, key))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes the object a URL refers to, if it belongs to this store.
func (s *Store) Delete(url string) error {
	key := s.KeyFor(url)
	if key == "" || !validKey(key) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

func validKey(key string) bool {
	return key != "" && !strings.Contains(key, "/") && !strings.Contains(key, "..")
}
