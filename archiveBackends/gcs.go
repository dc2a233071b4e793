package archivebackends

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path"

	"cruxlog/logger"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// UploadToGCSWithJSON uploads content from an io.Reader to a Google Cloud
// Storage object, using a base64-encoded service account key from
// accessInfo.
func UploadToGCSWithJSON(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	bucketName := accessInfo["bucket"]
	if bucketName == "" {
		return fmt.Errorf("missing required accessInfo key: bucket")
	}
	objectName := path.Join(accessInfo["folder"], accessInfo["filename"])

	credentialsJSON, err := base64.StdEncoding.DecodeString(accessInfo["credentialsJSON"])
	if err != nil {
		return fmt.Errorf("failed to decode service account key: %w", err)
	}

	client, err := storage.NewClient(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return fmt.Errorf("storage.NewClient: %w", err)
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)

	if _, err = io.Copy(wc, reader); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	logger.Infof("Archived clip '%s' to GCS bucket '%s'", objectName, bucketName)
	return nil
}
