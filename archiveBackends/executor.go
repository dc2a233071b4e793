// Package archivebackends copies compressed clips to configured long-term
// storage destinations after a successful transcode. Archival is
// best-effort and never feeds back into the video record.
package archivebackends

import (
	"context"
	"fmt"
	"io"
)

// WriteClip uploads one clip to the backend selected by backendType.
// accessInfo carries the backend-specific settings plus the target
// filename and folder.
func WriteClip(ctx context.Context, accessInfo map[string]string, reader io.Reader, backendType string) error {
	switch backendType {
	case "serve":
		if err := UploadToServeDir(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to serve dir: %w", err)
		}
	case "s3":
		if err := UploadToS3WithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to S3: %w", err)
		}
	case "gcs":
		if err := UploadToGCSWithJSON(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to GCS: %w", err)
		}
	case "sftp":
		if err := UploadToSFTPWithCreds(ctx, accessInfo, reader); err != nil {
			return fmt.Errorf("failed to upload to SFTP: %w", err)
		}
	default:
		return fmt.Errorf("unknown backend type: %s", backendType)
	}
	return nil
}
