// Package transport adapts websocket connections to the notify.Channel
// abstraction.
package transport

import (
	"sync"

	"cruxlog/logger"

	"github.com/gorilla/websocket"
)

// WSChannel wraps a websocket connection as a notification channel. A read
// pump goroutine drains incoming frames (clients send nothing meaningful)
// and closes Done when the peer goes away.
type WSChannel struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// NewWSChannel wraps the connection and starts its read pump.
func NewWSChannel(conn *websocket.Conn) *WSChannel {
	ch := &WSChannel{
		conn: conn,
		done: make(chan struct{}),
	}
	go ch.readPump()
	return ch
}

// SendText writes one text frame. gorilla/websocket allows a single
// concurrent writer, hence the mutex.
func (ch *WSChannel) SendText(text string) error {
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()
	return ch.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close tears the connection down. Safe to call more than once; the read
// pump then observes the closed connection and signals Done.
func (ch *WSChannel) Close() error {
	return ch.conn.Close()
}

// Done is closed when the peer disconnects or the connection is closed.
func (ch *WSChannel) Done() <-chan struct{} {
	return ch.done
}

// readPump blocks on reads until the connection dies. Any read error,
// including a normal close handshake, counts as disconnect.
func (ch *WSChannel) readPump() {
	defer ch.closeOnce.Do(func() { close(ch.done) })
	for {
		if _, _, err := ch.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("Websocket read ended: %v", err)
			}
			return
		}
	}
}
