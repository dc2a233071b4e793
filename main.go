package main

import (
	"context"
	"net/http"
	"os"

	"cruxlog/archiveBackends"
	"cruxlog/config"
	"cruxlog/ingest"
	"cruxlog/logger"
	"cruxlog/routes"
	"cruxlog/store"
	"cruxlog/transcode"
)

func main() {
	logger.Info("Starting cruxlog server initialization")

	// Initialize record store
	logger.Debug("Initializing record database")
	if err := os.MkdirAll(config.GetDataDir(), 0755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}
	if err := store.Init(config.GetStoreDBPath()); err != nil {
		logger.Fatalf("Failed to initialize record store: %v", err)
	}
	defer store.Close()
	logger.Info("Record database initialized successfully")

	// Parse archive backend configuration
	backends, err := archivebackends.ParseConfig(config.GetArchiveConfig())
	if err != nil {
		logger.Fatalf("Invalid archive configuration: %v", err)
	}
	if len(backends) > 0 {
		logger.Infof("Archival enabled with %d backend(s)", len(backends))
	} else {
		logger.Info("Archival disabled (no backends configured)")
	}

	// Locate the encoder. The server still comes up without it so records
	// stay readable, but every upload will fail its transcode.
	encode, found := transcode.LookupFFmpeg()
	if !found {
		logger.Warn("ffmpeg not found in PATH; uploads will fail compression")
		// Keep the real encoder wired; each attempt fails cleanly and
		// flags its video instead of panicking on a nil func.
		encode = transcode.EncodeH264
	}

	worker := &transcode.Worker{
		Transcode: encode,
		Archive: func(path string) {
			if err := archivebackends.ArchiveClip(context.Background(), backends, path); err != nil {
				logger.Errorf("Archival failed for %s: %v", path, err)
			}
		},
	}
	defer worker.Wait()

	routes.UseIngestor(&ingest.Ingestor{
		VideosDir: config.GetVideosDir(),
		Worker:    worker,
	})

	// Register HTTP routes
	logger.Info("Registering HTTP routes")
	http.HandleFunc("/register", routes.RegisterHandler)
	http.HandleFunc("/token", routes.TokenHandler)
	http.HandleFunc("/logout", routes.LogoutHandler)
	http.HandleFunc("/users/me", routes.MeHandler)
	http.HandleFunc("/users/me/items", routes.MyRoutesHandler)
	http.HandleFunc("/users/{id}/items", routes.UserRoutesHandler)
	http.HandleFunc("/routes", routes.CreateRouteHandler)
	http.HandleFunc("/routes/{characteristic}", routes.RoutesByCharacteristicHandler)
	http.HandleFunc("/characteristics", routes.CharacteristicsHandler)
	http.HandleFunc("/upload", routes.UploadHandler)
	http.HandleFunc("/videos/{id}", routes.VideoHandler)
	http.HandleFunc("/videos/{id}/file", routes.VideoFileHandler)
	http.HandleFunc("/history", routes.HistoryHandler)
	http.HandleFunc("/ws", routes.WSHandler)
	http.HandleFunc("/health", routes.HealthHandler)
	http.HandleFunc("/version", routes.VersionHandler)
	logger.Info("HTTP routes registered successfully")

	port := config.GetListenPort()
	logger.Infof("Cruxlog server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}
