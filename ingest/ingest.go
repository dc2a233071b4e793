// Package ingest accepts uploaded clips and starts the asynchronous
// compression pipeline for them.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cruxlog/logger"
	"cruxlog/models"
	"cruxlog/registry"
	"cruxlog/store"
	"cruxlog/transcode"
	"cruxlog/utils"
)

// ErrIngest is the single failure signal for the whole ingestion step.
// When it is returned, no video record and no registry job exist.
var ErrIngest = errors.New("ingest failed")

// Ingestor writes uploads into VideosDir and hands them to the worker.
type Ingestor struct {
	VideosDir string
	Worker    *transcode.Worker
}

// Ingest stores the raw clip, creates the video record pointing at the
// future compressed path, registers the notification job and schedules the
// transcode. It returns the new video id without waiting for compression.
//
// Failure anywhere before the registry append aborts atomically: the
// partially written raw file is removed and no record is left behind. The
// caller owns rolling back whatever parent record it meant to attach the
// video to.
func (ing *Ingestor) Ingest(userID, routeID int64, clip io.Reader, suggestedName string) (int64, error) {
	if err := os.MkdirAll(ing.VideosDir, 0755); err != nil {
		return 0, fmt.Errorf("%w: create videos dir: %v", ErrIngest, err)
	}

	// Strip any path the client smuggled into the suggested name before
	// deriving the two unique paths.
	base := ""
	if suggestedName != "" {
		base = filepath.Base(suggestedName)
	}
	rawPath := filepath.Join(ing.VideosDir, utils.UniqueFileName(base))
	outputPath := filepath.Join(ing.VideosDir, utils.UniqueFileName(base))

	if err := writeClip(rawPath, clip); err != nil {
		return 0, fmt.Errorf("%w: write raw clip: %v", ErrIngest, err)
	}

	video := &models.Video{Path: outputPath, RouteID: routeID}
	if err := store.InsertVideo(video); err != nil {
		// The raw file must not outlive a failed record insert.
		if rmErr := os.Remove(rawPath); rmErr != nil {
			logger.Errorf("Failed to remove orphaned raw clip %s: %v", rawPath, rmErr)
		}
		return 0, fmt.Errorf("%w: create video record: %v", ErrIngest, err)
	}

	job := &models.Job{UserID: userID, VideoID: video.ID, RouteID: routeID}
	if err := registry.Append(job); err != nil {
		// Cannot happen with sequence-allocated video ids; treat it
		// as a full ingest failure anyway.
		if rmErr := os.Remove(rawPath); rmErr != nil {
			logger.Errorf("Failed to remove orphaned raw clip %s: %v", rawPath, rmErr)
		}
		return 0, fmt.Errorf("%w: register job: %v", ErrIngest, err)
	}

	ing.Worker.Dispatch(rawPath, outputPath, video.ID)
	logger.Infof("Ingested clip for user %d: video %d (%s)", userID, video.ID, rawPath)

	return video.ID, nil
}

// writeClip copies the upload to disk synchronously, removing the partial
// file on any write error.
func writeClip(path string, clip io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, clip); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
