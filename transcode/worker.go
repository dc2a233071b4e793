package transcode

import (
	"context"
	"os"
	"sync"

	"cruxlog/logger"
	"cruxlog/registry"
	"cruxlog/store"
)

// Worker runs compression jobs in their own goroutines so the HTTP path
// never blocks on the subprocess. Each job is a single best-effort attempt:
// there is no retry and no timeout.
type Worker struct {
	// Transcode performs the actual compression. Tests inject a stub
	// here; production wiring uses EncodeH264.
	Transcode TranscodeFunc

	// Archive, when non-nil, receives the compressed file path after a
	// successful transcode. Failures inside it must not affect the
	// video record, so it has no error return.
	Archive func(path string)

	wg sync.WaitGroup
}

// Dispatch schedules the compression of rawPath into outputPath and
// returns immediately.
func (w *Worker) Dispatch(rawPath, outputPath string, videoID int64) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(rawPath, outputPath, videoID)
	}()
}

// Wait blocks until every dispatched job has finished. Used on shutdown
// and by tests.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(rawPath, outputPath string, videoID int64) {
	logger.Infof("Starting transcode for video %d: %s", videoID, rawPath)

	if err := w.Transcode(context.Background(), rawPath, outputPath); err != nil {
		logger.Errorf("Transcode failed for video %d: %v", videoID, err)
		// The raw file stays on disk for operator inspection.
		w.flagVideo(outputPath, videoID, false)
		return
	}

	// The raw upload is no longer needed once the compressed file exists.
	if err := os.Remove(rawPath); err != nil {
		logger.Errorf("Failed to remove raw upload %s: %v", rawPath, err)
		// Not fatal: the compressed output is what the record points at.
	}

	w.flagVideo(outputPath, videoID, true)

	if w.Archive != nil {
		w.Archive(outputPath)
	}

	logger.Infof("Transcode completed for video %d: %s", videoID, outputPath)
}

// flagVideo resolves the video record through its output path, the
// record's source of truth, and flips exactly one of the completion flags.
// The registry entry is only marked after the record is persisted, so a
// notification can never precede the durable state it reports.
func (w *Worker) flagVideo(outputPath string, videoID int64, completed bool) {
	video, err := store.FindVideoByPath(outputPath)
	if err != nil {
		logger.Errorf("Failed to look up video for path %s: %v", outputPath, err)
		return
	}
	if video == nil {
		logger.Errorf("No video record found for path %s (video %d)", outputPath, videoID)
		return
	}

	if completed {
		video.Completed = true
	} else {
		video.Failed = true
	}
	if err := store.UpdateVideo(video); err != nil {
		logger.Errorf("Failed to update video %d: %v", video.ID, err)
		return
	}

	// Only successful transcodes are ever notified. Failed jobs stay in
	// the registry unmarked and are never delivered.
	if completed {
		if !registry.MarkCompleted(video.ID) {
			logger.Warnf("No registry entry to mark for video %d", video.ID)
		}
	}
}
