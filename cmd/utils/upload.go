package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

const (
	// StoragePath is the local directory uploaded images land in; files
	// are served back under the /storage/ URL prefix.
	StoragePath = "storage"

	MaxUploadSize = 50 << 20 // 50 MB multipart memory ceiling
)

// SaveUpload persists an uploaded file to local disk under a generated
// name (millisecond timestamp + original filename) and returns the
// public URL path for the stored file.
func SaveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(StoragePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	// filepath.Base strips any client-supplied directory components.
	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(StoragePath, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/storage/" + filename, nil
}

// DeleteUpload removes a stored file given its public URL path. Missing
// files are not an error.
func DeleteUpload(fileURL string) error {
	path := filepath.Join(StoragePath, filepath.Base(fileURL))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
