package notify

// Channel is the duplex, message-oriented transport the notification loop
// pushes into. One channel is supplied per user session; the transport
// package adapts websocket connections to it and tests supply fakes.
type Channel interface {
	// SendText pushes one text message to the peer.
	SendText(text string) error
	// Close tears the underlying connection down. Safe to call more
	// than once.
	Close() error
	// Done is closed when the peer disconnects.
	Done() <-chan struct{}
}
