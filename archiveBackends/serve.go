package archivebackends

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cruxlog/logger"
)

// UploadToServeDir copies content from an io.Reader into the local serve
// directory, where the HTTP server hands it out directly.
func UploadToServeDir(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	baseDir := accessInfo["baseDir"]   // Base directory files are served from
	folder := accessInfo["folder"]     // Subfolder inside the base directory
	filename := accessInfo["filename"] // Target filename

	if baseDir == "" || filename == "" {
		return fmt.Errorf("missing required accessInfo keys: baseDir, filename")
	}

	// Refuse anything that would escape the serve directory.
	if strings.Contains(folder, "..") || strings.Contains(filename, "..") {
		return fmt.Errorf("path traversal not allowed in folder or filename")
	}

	fullDir := filepath.Join(baseDir, folder)
	fullPath := filepath.Join(fullDir, filename)

	if err := os.MkdirAll(fullDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Infof("Archived clip to serve dir: %s", fullPath)
	return nil
}
