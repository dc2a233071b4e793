package archivebackends

import (
	"context"
	"fmt"
	"io"
	"path"

	"cruxlog/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadToS3WithCreds uploads content from an io.Reader to an S3 object
// and is fully self-contained, initializing its own client from the
// provided keys.
func UploadToS3WithCreds(ctx context.Context, accessInfo map[string]string, reader io.Reader) error {
	bucket := accessInfo["bucket"]
	if bucket == "" {
		return fmt.Errorf("missing required accessInfo key: bucket")
	}
	key := path.Join(accessInfo["folder"], accessInfo["filename"])

	creds := credentials.NewStaticCredentialsProvider(accessInfo["accessKey"], accessInfo["secretKey"], "")
	s3Client := s3.New(s3.Options{
		Region:      accessInfo["region"],
		Credentials: creds,
	})

	uploader := manager.NewUploader(s3Client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, bucket, err)
	}

	logger.Infof("Archived clip '%s' to S3 bucket '%s'", key, bucket)
	return nil
}
