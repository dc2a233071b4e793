package notify

import (
	"encoding/json"
	"time"

	"cruxlog/logger"
	"cruxlog/models"
	"cruxlog/registry"
	"cruxlog/store"
)

// CompletionMessage is the payload pushed to a user when one of their
// clips finishes transcoding.
type CompletionMessage struct {
	Event   string `json:"event"`
	VideoID int64  `json:"video_id"`
	RouteID int64  `json:"route_id,omitempty"`
}

// Open registers the channel for the user and runs its notification loop
// until the peer disconnects or the connection is evicted. This is the
// blocking entry point the websocket handler calls.
func Open(userID int64, channel Channel, tick time.Duration) {
	conn := Register(userID, channel)
	Run(conn, tick)
}

// Run polls the job registry on every tick and delivers completed jobs for
// this connection's user. It exits on disconnect or cancellation; jobs not
// yet completed by then simply stay in the registry, never delivered.
func Run(conn *Connection, tick time.Duration) {
	defer Unregister(conn)

	logger.Debugf("Notification loop started for user %d (tick %v)", conn.UserID, tick)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-conn.ctx.Done():
			logger.Debugf("Notification loop cancelled for user %d", conn.UserID)
			return
		case <-conn.channel.Done():
			logger.Debugf("Notification channel closed for user %d", conn.UserID)
			return
		case <-ticker.C:
			if !deliver(conn) {
				return
			}
		}
	}
}

// deliver takes every completed job for the user and pushes one message
// per job, persisting a history record after each send. Returns false when
// the channel failed and the loop should exit.
//
// Taking the job and sending are not one atomic step: a crash between them
// loses the notification. Delivery is best effort across a crash.
func deliver(conn *Connection) bool {
	jobs := registry.TakeCompleted(conn.UserID)
	for _, job := range jobs {
		payload, err := json.Marshal(CompletionMessage{
			Event:   "video_completed",
			VideoID: job.VideoID,
			RouteID: job.RouteID,
		})
		if err != nil {
			logger.Errorf("Failed to marshal completion message for video %d: %v", job.VideoID, err)
			continue
		}

		if err := conn.channel.SendText(string(payload)); err != nil {
			logger.Errorf("Failed to push completion for video %d to user %d: %v", job.VideoID, conn.UserID, err)
			return false
		}

		record := &models.JobHistoryRecord{
			UserID:    job.UserID,
			VideoID:   job.VideoID,
			RouteID:   job.RouteID,
			Completed: true,
		}
		if err := store.AppendHistory(record); err != nil {
			// The message is already out; history is the audit trail,
			// not the delivery mechanism.
			logger.Errorf("Failed to append history for video %d: %v", job.VideoID, err)
		}
		logger.Infof("Delivered completion for video %d to user %d", job.VideoID, conn.UserID)
	}
	return true
}
