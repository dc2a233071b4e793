package routes

import (
	"net/http"
	"strconv"

	"cruxlog/ingest"
	"cruxlog/logger"
	"cruxlog/store"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger clips spill to temp files.
const maxUploadMemory = 32 << 20

// uploads is the shared ingestor, wired once at startup.
var uploads *ingest.Ingestor

// UseIngestor installs the ingestor the upload handler dispatches to
func UseIngestor(ing *ingest.Ingestor) {
	uploads = ing
}

// uploadResponse carries the id the client can poll or await
type uploadResponse struct {
	VideoID int64  `json:"video_id"`
	Detail  string `json:"detail"`
}

// UploadHandler accepts a multipart clip for one of the caller's routes
// and schedules its compression. The response returns before the
// transcode runs; completion arrives over the websocket.
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Upload request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}

	routeID, err := strconv.ParseInt(r.FormValue("route_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid route_id", http.StatusBadRequest)
		return
	}

	route, err := store.GetRoute(routeID)
	if err != nil {
		logger.Errorf("Failed to load route %d: %v", routeID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if route == nil {
		http.Error(w, "Route not found", http.StatusNotFound)
		return
	}
	if route.UserID != user.ID {
		http.Error(w, "Not your route", http.StatusForbidden)
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		http.Error(w, "Missing video file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	videoID, err := uploads.Ingest(user.ID, routeID, file, header.Filename)
	if err != nil {
		logger.Errorf("Ingest failed for user %d, route %d: %v", user.ID, routeID, err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}

	route.VideoID = videoID
	if err := store.UpdateRoute(route); err != nil {
		// The clip is already in the pipeline; the link can be repaired
		// from the video record, which keeps its route id.
		logger.Errorf("Failed to attach video %d to route %d: %v", videoID, routeID, err)
	}

	writeJSON(w, http.StatusOK, uploadResponse{VideoID: videoID, Detail: "Upload accepted"})
}
