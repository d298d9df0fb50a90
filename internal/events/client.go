package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a websocket connection to the relabel event stream.
// It handles receiving, reconnection with exponential backoff, ping replies
// and duplicate suppression.
type Client struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	conn   *websocket.Conn
	mu     sync.Mutex // Protects conn and writes
	closed bool

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration
	readWait   time.Duration

	// Event tracking
	lastSequence int64
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithRetries sets how many reconnection attempts are made and the first delay
func WithRetries(maxRetries int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
	}
}

// WithReadWait sets how long the client waits for any frame before treating
// the connection as dead
func WithReadWait(d time.Duration) ClientOption {
	return func(c *Client) {
		c.readWait = d
	}
}

// NewClient creates a new event client but does not connect.
// url is the websocket URL of the stream, e.g. ws://localhost:8080/api/events.
func NewClient(url, token string, opts ...ClientOption) *Client {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	c := &Client{
		url:        url,
		header:     header,
		dialer:     websocket.DefaultDialer,
		maxRetries: 5,
		baseDelay:  1 * time.Second,
		readWait:   90 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the event stream.
func (c *Client) Connect(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to dial event stream: %w", ClassifyStreamError(err, resp))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		_ = conn.Close()
		return errors.New("client closed")
	}
	c.conn = conn
	// Sequence numbers restart when the server does
	c.lastSequence = 0

	return nil
}

// Listen starts listening for events from the server.
// It returns a channel that receives events and handles reconnection automatically.
// The channel is closed when context is done or reconnection fails.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if !connected {
		return nil, errors.New("not connected to event stream")
	}

	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

// listenLoop reads events and handles reconnection.
func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		err := c.readEvents(ctx, eventChan)
		if ctx.Err() != nil || c.isClosed() {
			return
		}

		slog.Warn("event stream lost, reconnecting", "error", err)
		if !c.reconnect(ctx) {
			slog.Error("failed to reconnect to event stream, giving up", "attempts", c.maxRetries)
			return
		}
		slog.Info("reconnected to event stream")
	}
}

// readEvents reads frames from the connection and forwards events.
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("connection closed")
	}

	for {
		// Server pings well within readWait, so a silent connection is dead
		if err := conn.SetReadDeadline(time.Now().Add(c.readWait)); err != nil {
			return fmt.Errorf("failed to set read deadline: %w", err)
		}

		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		if msg.Version != 0 && msg.Version != ProtocolVersion {
			slog.Warn("unexpected protocol version", "got", msg.Version, "want", ProtocolVersion)
		}

		switch msg.Type {
		case MessageEvent:
			if msg.Event == nil || msg.Event.SequenceID <= c.lastSequence {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case MessagePing:
			if err := c.send(Message{Version: ProtocolVersion, Type: MessagePong}); err != nil {
				slog.Debug("failed to send pong", "error", err)
			}
		}
	}
}

// send writes a message to the connection
func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return errors.New("not connected to event stream")
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.conn.WriteJSON(msg)
}

// reconnect attempts to reconnect with exponential backoff.
// It tries up to maxRetries times, doubling the delay each time.
func (c *Client) reconnect(ctx context.Context) bool {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	delay := c.baseDelay
	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
			err := c.Connect(ctx)
			if err == nil {
				return true
			}
			slog.Debug("reconnection attempt failed",
				"attempt", i+1,
				"max_retries", c.maxRetries,
				"retry_delay", delay,
				"error", err)
			delay *= 2 // 1s, 2s, 4s, 8s, 16s
		}
	}

	return false
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close closes the connection and stops all goroutines.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.conn == nil {
		return nil
	}

	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
