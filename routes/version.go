package routes

import (
	"net/http"
	"runtime"

	"cruxlog/logger"
)

// VersionResponse represents the version information response
type VersionResponse struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	GitCommit string `json:"git_commit,omitempty"`
}

// VersionHandler reports what build is running
func VersionHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Version request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, VersionResponse{
		Version:   version,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		GitCommit: gitCommit,
	})
}
