package imagestore

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

var baseDir = "public"

// Init sets the base directory for stored images
func Init(dir string) {
	if dir != "" {
		baseDir = dir
	}
}

// GenerateFilename builds the relative storage path for an uploaded
// image, e.g. "people/42_1700000000.jpg".
func GenerateFilename(folder string, id uint, originalName string) string {
	ext := filepath.Ext(originalName)
	return filepath.Join(folder, fmt.Sprintf("%d_%d%s", id, time.Now().Unix(), ext))
}

// MoveFile stores an uploaded file under the base directory and
// returns the relative path to persist.
func MoveFile(file *multipart.FileHeader, destination string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("imagestore: open upload: %w", err)
	}
	defer src.Close()

	fullPath := filepath.Join(baseDir, destination)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("imagestore: create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("imagestore: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("imagestore: write file: %w", err)
	}

	return destination, nil
}

// DeleteFile removes a stored image by its relative path. Missing
// files are not an error.
func DeleteFile(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(baseDir, relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("imagestore: delete %s: %w", relPath, err)
	}
	return nil
}
