package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AdjuntoStorage persists order attachments on the local filesystem under a
// configured base directory. Files are keyed by a generated UUID so duplicate
// upload names never collide; the original name is kept in the DB row.
type AdjuntoStorage struct {
	baseDir string
}

func NewAdjuntoStorage(baseDir string) (*AdjuntoStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create base dir: %w", err)
	}
	return &AdjuntoStorage{baseDir: baseDir}, nil
}

// Save streams src to disk and returns the storage-relative path.
func (s *AdjuntoStorage) Save(ordenID uuid.UUID, originalName string, src io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, ordenID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("storage: create orden dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	fullPath := filepath.Join(dir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return filepath.Join(ordenID.String(), name), nil
}

// Open returns a reader for a stored attachment.
func (s *AdjuntoStorage) Open(ruta string) (*os.File, error) {
	return os.Open(filepath.Join(s.baseDir, ruta))
}

// Remove deletes a stored attachment. Missing files are not an error.
func (s *AdjuntoStorage) Remove(ruta string) error {
	err := os.Remove(filepath.Join(s.baseDir, ruta))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
