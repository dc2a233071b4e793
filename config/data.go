package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DATA_DIR is the directory where cruxlog stores its databases.
// Defaults to "./data" relative to the executable
var DATA_DIR = getDataDir()

// getDataDir determines the data directory path from environment or default.
// This is called at package initialization to set the DATA_DIR variable.
// Priority: CRUXLOG_DATA_DIR environment variable > "./data" default
func getDataDir() string {
	if dir := os.Getenv("CRUXLOG_DATA_DIR"); dir != "" {
		return dir
	}
	// Default to ./data subdirectory
	return "./data"
}

// GetDataDir returns the current data directory path.
// This function checks the environment variable at runtime, allowing for
// dynamic configuration changes without restarting the server.
// Used by database path functions to construct full file paths.
func GetDataDir() string {
	return getDataDir()
}

// GetStoreDBPath returns the full path to the main record database.
// It holds users, routes, characteristics, videos, job history and
// revoked tokens.
// Path: {DATA_DIR}/cruxlog.db
func GetStoreDBPath() string {
	return filepath.Join(GetDataDir(), "cruxlog.db")
}

// GetVideosDir returns the directory raw and compressed clips are written
// to. Configurable via CRUXLOG_VIDEOS_DIR for server administrators.
// Defaults to "./videos" relative to the executable.
func GetVideosDir() string {
	if dir := os.Getenv("CRUXLOG_VIDEOS_DIR"); dir != "" {
		return dir
	}
	// Default to ./videos subdirectory
	return "./videos"
}

// GetArchiveServeBaseDir returns the base directory for the local archive
// backend. Compressed clips copied here are served directly by the HTTP
// server. Configurable via CRUXLOG_SERVE_DIR; not configurable by end users
// for security reasons. Defaults to "./serve".
func GetArchiveServeBaseDir() string {
	if dir := os.Getenv("CRUXLOG_SERVE_DIR"); dir != "" {
		return dir
	}
	// Default to ./serve subdirectory
	return "./serve"
}

// GetArchiveConfig returns the raw archive backend configuration.
// Expected to be a JSON array of backend entries; empty means archival is
// disabled.
func GetArchiveConfig() string {
	return os.Getenv("CRUXLOG_ARCHIVE")
}

// GetJWTSecret returns the HMAC secret used to sign and verify access
// tokens. CRUXLOG_JWT_SECRET must be set in production; the fallback only
// exists so development servers come up without any environment.
func GetJWTSecret() []byte {
	if s := os.Getenv("CRUXLOG_JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("cruxlog-dev-secret-do-not-use-in-production-0000")
}

// GetTokenExpiry returns the access token lifetime.
// CRUXLOG_TOKEN_EXP_MINUTES, default 30 minutes.
func GetTokenExpiry() time.Duration {
	if v := os.Getenv("CRUXLOG_TOKEN_EXP_MINUTES"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil && mins > 0 {
			return time.Duration(mins) * time.Minute
		}
	}
	return 30 * time.Minute
}

// GetNotifyTick returns the interval between notification scans for each
// live connection. CRUXLOG_NOTIFY_TICK_SECONDS, default 5 seconds.
func GetNotifyTick() time.Duration {
	if v := os.Getenv("CRUXLOG_NOTIFY_TICK_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 5 * time.Second
}

// GetListenPort returns the HTTP listen port. PORT, default 8080.
func GetListenPort() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
