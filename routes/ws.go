package routes

import (
	"net/http"

	"cruxlog/config"
	"cruxlog/logger"
	"cruxlog/notify"
	"cruxlog/transport"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens gate the socket; origin filtering is left to the proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades the request and blocks in the user's notification
// loop until the peer disconnects or a newer connection evicts this one.
// Browsers cannot set headers on websocket dials, so the token may also
// arrive as a query parameter.
func WSHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Websocket request: remoteAddr=%s", r.RemoteAddr)

	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		logger.Warnf("Websocket upgrade failed for user %d: %v", user.ID, err)
		return
	}

	logger.Infof("Websocket opened for user %d", user.ID)
	channel := transport.NewWSChannel(conn)
	notify.Open(user.ID, channel, config.GetNotifyTick())
	channel.Close()
	logger.Infof("Websocket closed for user %d", user.ID)
}
