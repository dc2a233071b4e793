package store

import (
	"encoding/json"
	"fmt"

	"cruxlog/models"

	pebble "github.com/cockroachdb/pebble"
)

// InsertVideo stores a new video record and assigns its id. The record is
// created before the transcode runs, so Path already names the future
// compressed file.
func InsertVideo(video *models.Video) error {
	if db == nil {
		return errNotInitialized()
	}

	id, err := nextID("videos")
	if err != nil {
		return err
	}
	video.ID = id

	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video record: %w", err)
	}
	return db.Set(recordKey("video", id), data, pebble.Sync)
}

// GetVideo retrieves a video record by id. Not found is not an error.
func GetVideo(id int64) (*models.Video, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	data, closer, err := db.Get(recordKey("video", id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	defer closer.Close()

	var video models.Video
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video record: %w", err)
	}
	return &video, nil
}

// FindVideoByPath returns the video record whose stored path equals the
// given path, or nil when no record matches. The compression worker uses
// this to resolve its output path back to the record it must flag.
func FindVideoByPath(path string) (*models.Video, error) {
	if db == nil {
		return nil, errNotInitialized()
	}

	iter, err := db.NewIter(kindBounds("video"))
	if err != nil {
		return nil, fmt.Errorf("failed to create video iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var video models.Video
		if err := json.Unmarshal(iter.Value(), &video); err != nil {
			continue // Skip invalid records
		}
		if video.Path == path {
			return &video, nil
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("video iteration error: %w", err)
	}
	return nil, nil
}

// UpdateVideo rewrites an existing video record
func UpdateVideo(video *models.Video) error {
	if db == nil {
		return errNotInitialized()
	}
	if video.ID == 0 {
		return fmt.Errorf("cannot update video without id")
	}

	data, err := json.Marshal(video)
	if err != nil {
		return fmt.Errorf("failed to marshal video record: %w", err)
	}
	return db.Set(recordKey("video", video.ID), data, pebble.Sync)
}
