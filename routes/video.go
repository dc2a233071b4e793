package routes

import (
	"net/http"
	"strconv"

	"cruxlog/logger"
	"cruxlog/store"
)

// VideoHandler returns the video record, including its completion flags
func VideoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requireUser(w, r); !ok {
		return
	}

	videoID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	video, err := store.GetVideo(videoID)
	if err != nil {
		logger.Errorf("Failed to load video %d: %v", videoID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if video == nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// VideoFileHandler streams the compressed clip once the transcode has
// finished. Pending and failed clips have no servable file.
func VideoFileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := requireUser(w, r); !ok {
		return
	}

	videoID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid video id", http.StatusBadRequest)
		return
	}

	video, err := store.GetVideo(videoID)
	if err != nil {
		logger.Errorf("Failed to load video %d: %v", videoID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if video == nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	if video.Failed {
		http.Error(w, "Video processing failed", http.StatusGone)
		return
	}
	if !video.Completed {
		http.Error(w, "Video not ready", http.StatusConflict)
		return
	}

	logger.Debugf("Serving video %d from %s", video.ID, video.Path)
	http.ServeFile(w, r, video.Path)
}
