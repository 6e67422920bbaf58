package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MediaService persists uploaded images on local disk and returns
// addressable relative paths.
type MediaService struct {
	dir string
}

// NewMediaService creates a MediaService rooted at dir.
func NewMediaService(dir string) *MediaService {
	return &MediaService{dir: dir}
}

// Store writes the uploaded file under <dir>/<folder>/ with a generated
// name and returns the path relative to the upload root.
func (s *MediaService) Store(file *multipart.FileHeader, folder string) (string, error) {
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(file.Filename)
	rel := filepath.Join(folder, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return rel, nil
}

// Remove deletes a previously stored file. Used to clean up uploads when
// the accompanying database write fails.
func (s *MediaService) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
