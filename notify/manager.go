// Package notify manages live per-user notification connections and the
// polling loop that delivers transcode completions over them.
package notify

import (
	"context"
	"sync"

	"cruxlog/logger"
)

// Connection is one registered notification channel. Its context is
// cancelled on eviction and on Unregister.
type Connection struct {
	UserID  int64
	channel Channel
	ctx     context.Context
	cancel  context.CancelFunc
}

var (
	active = make(map[int64]*Connection) // user id -> connection
	mu     sync.Mutex
)

// Register installs a connection for the user, evicting and closing any
// connection the user already had. One live connection per user is an
// invariant: the evicted channel observes a close, and its loop exits via
// the cancelled context.
func Register(userID int64, channel Channel) *Connection {
	mu.Lock()
	defer mu.Unlock()

	if old, exists := active[userID]; exists {
		logger.Infof("Evicting previous connection for user %d", userID)
		old.cancel()
		if err := old.channel.Close(); err != nil {
			logger.Debugf("Close of evicted channel for user %d: %v", userID, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	conn := &Connection{UserID: userID, channel: channel, ctx: ctx, cancel: cancel}
	active[userID] = conn
	return conn
}

// Unregister removes the connection from the active set. Idempotent: it is
// called from both the loop exit and transport error cleanup, and an
// evicted connection must not remove the successor that replaced it.
func Unregister(conn *Connection) {
	mu.Lock()
	defer mu.Unlock()

	conn.cancel()
	if active[conn.UserID] == conn {
		delete(active, conn.UserID)
	}
}

// IsActive reports whether the user currently has a registered connection
func IsActive(userID int64) bool {
	mu.Lock()
	defer mu.Unlock()
	_, exists := active[userID]
	return exists
}

// ActiveCount returns the number of live connections
func ActiveCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(active)
}
