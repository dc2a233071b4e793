// Package registry holds the in-memory table of in-flight notification
// jobs. One entry exists per uploaded video from ingest until a
// notification loop takes it. The table is process-local: jobs do not
// survive a restart, and jobs whose owner never connects stay here for the
// process lifetime.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"cruxlog/models"
)

var (
	jobs = make(map[int64]*models.Job) // video id -> job
	mu   sync.Mutex
)

// Append adds a job for a freshly ingested video. At most one job may
// exist per video id.
func Append(job *models.Job) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := jobs[job.VideoID]; exists {
		return fmt.Errorf("job for video %d already registered", job.VideoID)
	}
	jobs[job.VideoID] = job
	return nil
}

// MarkCompleted flips the completed flag on the registered job for the
// given video. The compression worker calls this after persisting the
// video record, so the notification loop observes the same entry the
// ingestor appended. Returns false when no job is registered for the video.
func MarkCompleted(videoID int64) bool {
	mu.Lock()
	defer mu.Unlock()

	job, exists := jobs[videoID]
	if !exists {
		return false
	}
	job.Completed = true
	return true
}

// TakeCompleted removes and returns every completed job belonging to the
// given user. Scan and removal happen in one critical section, so a job is
// handed to at most one caller even with concurrent loops for the same
// user.
func TakeCompleted(userID int64) []models.Job {
	mu.Lock()
	defer mu.Unlock()

	var taken []models.Job
	for videoID, job := range jobs {
		if job.UserID == userID && job.Completed {
			taken = append(taken, *job)
			delete(jobs, videoID)
		}
	}
	// Map iteration order is random; video ids are monotonic, so sorting
	// restores upload order for delivery.
	sort.Slice(taken, func(i, j int) bool {
		return taken[i].VideoID < taken[j].VideoID
	})
	return taken
}

// Remove drops the job for the given video regardless of state
func Remove(videoID int64) {
	mu.Lock()
	defer mu.Unlock()
	delete(jobs, videoID)
}

// Contains reports whether a job is registered for the given video
func Contains(videoID int64) bool {
	mu.Lock()
	defer mu.Unlock()
	_, exists := jobs[videoID]
	return exists
}

// Pending returns the number of registered jobs
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(jobs)
}
