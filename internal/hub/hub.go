// Package hub fans committed label events out to live subscribers.
package hub

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/relabel/internal/events"
)

// DefaultBufferSize is the per-subscriber queue length used when none is configured
const DefaultBufferSize = 64

// ErrHubClosed is returned by Publish after Close
var ErrHubClosed = errors.New("hub closed")

// EvictFunc is called when a subscriber is removed because its queue was full.
// event is the delivery that did not fit.
type EvictFunc func(sub *Subscription, event events.Event)

// Subscription is one subscriber's view of the hub
type Subscription struct {
	id        string
	send      chan events.Event
	closeOnce sync.Once // Ensures send channel is closed only once
	evicted   atomic.Bool
}

// ID returns the subscriber's unique identifier
func (s *Subscription) ID() string {
	return s.id
}

// Events returns the channel events are delivered on. It is closed on
// Unsubscribe or when the hub closes.
func (s *Subscription) Events() <-chan events.Event {
	return s.send
}

// Evicted reports whether the hub closed this subscription because it fell
// behind. Events published after the eviction were not delivered.
func (s *Subscription) Evicted() bool {
	return s.evicted.Load()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.send)
	})
}

// Hub is an in-process broadcaster. Publish delivers synchronously to every
// subscriber registered at that moment and never blocks on a slow one: a
// subscriber whose queue is full is evicted, so every event it does receive
// arrives in order with no gaps.
type Hub struct {
	subs            map[*Subscription]bool
	mu              sync.Mutex
	metrics         *Metrics
	sequenceCounter atomic.Int64
	bufferSize      int
	closed          bool
	onEvict         EvictFunc
}

// Option configures a Hub
type Option func(*Hub)

// WithBufferSize sets the per-subscriber queue length
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithEvictHook registers fn to be called for every evicted subscriber
func WithEvictHook(fn EvictFunc) Option {
	return func(h *Hub) {
		h.onEvict = fn
	}
}

// New creates a new hub
func New(opts ...Option) *Hub {
	h := &Hub{
		subs:       make(map[*Subscription]bool),
		metrics:    NewMetrics(),
		bufferSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers a new subscriber. It only receives events published after
// this call returns. Subscribing to a closed hub yields an already closed channel.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		id:   uuid.NewString(),
		send: make(chan events.Event, h.bufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.close()
		return sub
	}

	h.subs[sub] = true
	h.metrics.SetSubscribers(int32(len(h.subs)))
	slog.Debug("subscriber added", "subscriber", sub.id, "subscribers", len(h.subs))

	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.metrics.SetSubscribers(int32(len(h.subs)))
	h.mu.Unlock()

	sub.close()
	slog.Debug("subscriber removed", "subscriber", sub.id)
}

// Publish stamps event with the next sequence number and queues it for every
// current subscriber. A subscriber whose queue is full is unsubscribed and its
// channel closed; the others are unaffected.
func (h *Hub) Publish(event events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	event.SequenceID = h.sequenceCounter.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.metrics.IncEventsPublished()

	for sub := range h.subs {
		if !h.sendToSubscriber(sub, event) {
			h.evict(sub, event)
		}
	}

	return nil
}

// sendToSubscriber attempts a non-blocking send.
// Returns true if successful, false if the queue is full
func (h *Hub) sendToSubscriber(sub *Subscription, event events.Event) bool {
	select {
	case sub.send <- event:
		h.metrics.IncEventsDelivered()
		return true
	default:
		return false
	}
}

// evict removes a subscriber that cannot keep up. Caller holds h.mu.
func (h *Hub) evict(sub *Subscription, event events.Event) {
	delete(h.subs, sub)
	sub.evicted.Store(true)
	sub.close()

	h.metrics.IncSubscribersEvicted()
	h.metrics.SetSubscribers(int32(len(h.subs)))
	slog.Warn("subscriber queue full, subscriber evicted",
		"subscriber", sub.id,
		"sequence", event.SequenceID,
		"key", event.Key)

	if h.onEvict != nil {
		h.onEvict(sub, event)
	}
}

// Close stops the hub and closes every subscriber channel
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for sub := range h.subs {
		sub.close()
	}
	h.subs = make(map[*Subscription]bool)
	h.metrics.SetSubscribers(0)
}

// Metrics returns a point-in-time snapshot of hub statistics
func (h *Hub) Metrics() MetricsSnapshot {
	return h.metrics.GetSnapshot()
}

// Compile-time verification that *Hub implements events.Publisher
var _ events.Publisher = (*Hub)(nil)
