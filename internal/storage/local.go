package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrInvalidName = errors.New("invalid storage name")

// LocalStorage implements the Storage interface for local filesystem
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new local storage rooted at outputDir
func NewLocalStorage(outputDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	return &LocalStorage{outputDir: outputDir}, nil
}

// path maps name into the output directory, rejecting names that escape it.
func (s *LocalStorage) path(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "/")))
	if name == "" || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.outputDir, cleaned), nil
}

// Writer returns a writer for the specified file, creating parent directories
func (s *LocalStorage) Writer(ctx context.Context, name string) (io.WriteCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.Create(path)
}

// Reader returns a reader for the specified file
func (s *LocalStorage) Reader(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(ctx context.Context, name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// List walks the output directory and returns files whose name starts with
// prefix, sorted
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(s.outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.outputDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			results = append(results, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	sort.Strings(results)
	return results, nil
}

// Location returns the filesystem path of name
func (s *LocalStorage) Location(name string) string {
	path, err := s.path(name)
	if err != nil {
		return ""
	}
	return path
}
