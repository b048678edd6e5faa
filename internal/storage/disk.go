package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DiskStorage implements Storage interface using local disk
type DiskStorage struct {
	logger  *zap.Logger
	baseDir string
	baseURL string
}

// NewDiskStorage creates a new disk storage serving objects under baseURL
func NewDiskStorage(logger *zap.Logger, baseDir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &DiskStorage{
		logger:  logger.Named("storage"),
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Dir is the root directory holding the objects.
func (s *DiskStorage) Dir() string {
	return s.baseDir
}

func (s *DiskStorage) path(key string) (string, string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", "", err
	}
	return key, filepath.Join(s.baseDir, filepath.FromSlash(key)), nil
}

// Put writes the object through a temporary file so readers never see a
// partial upload.
func (s *DiskStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key, filePath, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", err
	}

	s.logger.Debug("stored object",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)))
	return s.baseURL + "/" + key, nil
}

// Open opens an object from disk
func (s *DiskStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	_, filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(filePath)
}

// List lists the objects under prefix
func (s *DiskStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".upload-") {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

// Delete deletes an object from disk
func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	_, filePath, err := s.path(key)
	if err != nil {
		return err
	}
	return os.Remove(filePath)
}
