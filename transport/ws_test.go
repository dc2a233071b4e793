package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{}

// dialTestChannel upgrades a loopback connection and returns the
// server-side channel plus the client connection.
func dialTestChannel(t *testing.T) (*WSChannel, *websocket.Conn, func()) {
	t.Helper()

	channelCh := make(chan *WSChannel, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		channelCh <- NewWSChannel(conn)
	}))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("Dial failed: %v", err)
	}

	channel := <-channelCh
	cleanup := func() {
		client.Close()
		channel.Close()
		server.Close()
	}
	return channel, client, cleanup
}

func TestSendTextReachesPeer(t *testing.T) {
	channel, client, cleanup := dialTestChannel(t)
	defer cleanup()

	if err := channel.SendText(`{"event":"video_completed","video_id":1}`); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	msgType, payload, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("Client read failed: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("Expected text frame, got type %d", msgType)
	}
	if !strings.Contains(string(payload), "video_completed") {
		t.Errorf("Unexpected payload: %s", payload)
	}
}

func TestDoneFiresOnPeerDisconnect(t *testing.T) {
	channel, client, cleanup := dialTestChannel(t)
	defer cleanup()

	client.Close()

	select {
	case <-channel.Done():
	case <-time.After(time.Second):
		t.Fatal("Done did not fire after peer disconnect")
	}
}

func TestDoneFiresOnLocalClose(t *testing.T) {
	channel, _, cleanup := dialTestChannel(t)
	defer cleanup()

	channel.Close()

	select {
	case <-channel.Done():
	case <-time.After(time.Second):
		t.Fatal("Done did not fire after local close")
	}

	// Closing again must not panic.
	channel.Close()
}
