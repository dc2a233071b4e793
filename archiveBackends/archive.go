package archivebackends

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cruxlog/config"
	"cruxlog/logger"

	"golang.org/x/sync/errgroup"
)

// Backend is one configured archive destination.
type Backend struct {
	Type     string            `json:"type"`               // serve, s3, gcs, sftp
	Folder   string            `json:"folder,omitempty"`   // logical subdir at the destination
	Settings map[string]string `json:"settings,omitempty"` // backend-specific credentials/paths
}

// ParseConfig decodes the CRUXLOG_ARCHIVE JSON array. An empty string
// means archival is disabled and yields no backends.
func ParseConfig(raw string) ([]Backend, error) {
	if raw == "" {
		return nil, nil
	}
	var backends []Backend
	if err := json.Unmarshal([]byte(raw), &backends); err != nil {
		return nil, fmt.Errorf("failed to parse archive config: %w", err)
	}
	for _, b := range backends {
		if _, ok := map[string]bool{"serve": true, "s3": true, "gcs": true, "sftp": true}[b.Type]; !ok {
			return nil, fmt.Errorf("unknown archive backend type: %s", b.Type)
		}
	}
	return backends, nil
}

// ArchiveClip copies the clip at path to every backend concurrently. Each
// backend gets its own reader so a slow destination cannot corrupt
// another's stream. The first error is returned, but every backend is
// attempted.
func ArchiveClip(ctx context.Context, backends []Backend, clipPath string) error {
	if len(backends) == 0 {
		return nil
	}

	filename := filepath.Base(clipPath)

	// Plain group, not WithContext: archival is best-effort, so one
	// failing backend must not cancel the others mid-upload.
	var g errgroup.Group

	for _, backend := range backends {
		g.Go(func() error {
			accessInfo := prepareAccessInfo(backend, filename)

			reader, err := os.Open(clipPath)
			if err != nil {
				return fmt.Errorf("failed to open clip %s: %w", clipPath, err)
			}
			defer reader.Close()

			if err := WriteClip(ctx, accessInfo, reader, backend.Type); err != nil {
				logger.Errorf("Archive to %s failed for %s: %v", backend.Type, filename, err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// prepareAccessInfo builds the access info map for one backend
func prepareAccessInfo(backend Backend, filename string) map[string]string {
	accessInfo := make(map[string]string)

	// Copy backend settings
	for k, v := range backend.Settings {
		accessInfo[k] = v
	}

	// Add filename and folder
	accessInfo["filename"] = filename
	accessInfo["folder"] = backend.Folder

	// Set backend-specific configuration
	switch backend.Type {
	case "serve":
		accessInfo["baseDir"] = config.GetArchiveServeBaseDir()
	}

	return accessInfo
}
