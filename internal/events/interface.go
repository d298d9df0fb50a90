package events

import "context"

// Publisher accepts committed events for fan-out. The server hub implements it.
type Publisher interface {
	Publish(event Event) error
}

// Listener defines the client side of the live update stream.
// This interface allows the watch console to be tested without a server.
type Listener interface {
	// Connect dials the event stream
	Connect(ctx context.Context) error

	// Listen starts reading events; the channel closes when ctx is done or reconnection gives up
	Listen(ctx context.Context) (<-chan Event, error)

	// Close closes the connection and stops all goroutines
	Close() error
}

// Compile-time verification that *Client implements Listener
var _ Listener = (*Client)(nil)
