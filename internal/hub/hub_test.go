package hub

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/relabel/internal/events"
)

func labelEvent(key string) events.Event {
	return events.Event{Type: events.EventLabelUpdated, Key: key}
}

// drain reads everything currently queued on sub without blocking
func drain(sub *Subscription) []events.Event {
	var out []events.Event
	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPublishReachesCurrentSubscribersOnly(t *testing.T) {
	h := New()
	defer h.Close()

	early := h.Subscribe()
	if err := h.Publish(labelEvent("about")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	late := h.Subscribe()

	got := drain(early)
	if len(got) != 1 || got[0].Key != "about" {
		t.Fatalf("Early subscriber expected one event, got %+v", got)
	}
	if got[0].SequenceID != 1 {
		t.Errorf("Expected sequence 1, got %d", got[0].SequenceID)
	}
	if got[0].Timestamp.IsZero() {
		t.Error("Expected timestamp to be stamped")
	}

	if missed := drain(late); len(missed) != 0 {
		t.Errorf("Late subscriber should receive nothing, got %+v", missed)
	}
}

func TestPublishPreservesOrder(t *testing.T) {
	h := New()
	defer h.Close()
	sub := h.Subscribe()

	keys := []string{"a", "b", "c", "d"}
	for _, k := range keys {
		if err := h.Publish(labelEvent(k)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	got := drain(sub)
	if len(got) != len(keys) {
		t.Fatalf("Expected %d events, got %d", len(keys), len(got))
	}
	for i, ev := range got {
		if ev.Key != keys[i] {
			t.Errorf("Position %d: expected %s, got %s", i, keys[i], ev.Key)
		}
		if ev.SequenceID != int64(i+1) {
			t.Errorf("Position %d: expected sequence %d, got %d", i, i+1, ev.SequenceID)
		}
	}
}

func TestSlowSubscriberIsEvictedWithoutBlocking(t *testing.T) {
	var evicted []string
	h := New(WithBufferSize(1), WithEvictHook(func(sub *Subscription, ev events.Event) {
		evicted = append(evicted, sub.ID()+":"+ev.Key)
	}))
	defer h.Close()

	slow := h.Subscribe()
	fast := h.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Publish(labelEvent("first"))
		drain(fast)
		_ = h.Publish(labelEvent("second"))
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber queue")
	}

	if !slow.Evicted() {
		t.Error("Expected the slow subscriber to be evicted")
	}
	if fast.Evicted() {
		t.Error("Fast subscriber should stay subscribed")
	}

	// The slow subscriber keeps what it was given, then sees a closed channel
	ev, ok := <-slow.Events()
	if !ok || ev.Key != "first" {
		t.Fatalf("Expected 'first' before close, got %+v (ok=%v)", ev, ok)
	}
	if _, ok := <-slow.Events(); ok {
		t.Error("Expected the evicted subscriber's channel to be closed")
	}

	if got := drain(fast); len(got) != 1 || got[0].Key != "second" {
		t.Errorf("Fast subscriber should receive the second event, got %+v", got)
	}
	if len(evicted) != 1 || evicted[0] != slow.ID()+":second" {
		t.Errorf("Expected one eviction of the slow subscriber on 'second', got %v", evicted)
	}

	_ = h.Publish(labelEvent("third"))
	if got := drain(fast); len(got) != 1 || got[0].Key != "third" {
		t.Errorf("Fast subscriber should keep receiving after the eviction, got %+v", got)
	}

	m := h.Metrics()
	if m.EventsPublished != 3 || m.EventsDelivered != 4 || m.SubscribersEvicted != 1 || m.Subscribers != 1 {
		t.Errorf("Unexpected metrics: %+v", m)
	}
}

func TestSubscriberNeverSeesAGap(t *testing.T) {
	h := New()
	defer h.Close()

	sub := h.Subscribe()
	total := DefaultBufferSize + 6
	for i := 0; i < total; i++ {
		if err := h.Publish(labelEvent("about")); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}

	// Everything received arrives in sequence with no holes, and the stream
	// ends with a closed channel rather than silently skipping events
	var want int64 = 1
	for ev := range sub.Events() {
		if ev.SequenceID != want {
			t.Fatalf("Expected sequence %d, got %d", want, ev.SequenceID)
		}
		want++
	}

	received := int(want - 1)
	if received != DefaultBufferSize {
		t.Errorf("Expected %d events before eviction, got %d", DefaultBufferSize, received)
	}
	if !sub.Evicted() {
		t.Error("Expected an undrained subscriber to be evicted once its queue filled")
	}

	// Unsubscribing an evicted subscriber is harmless
	h.Unsubscribe(sub)
	if n := h.Metrics().Subscribers; n != 0 {
		t.Errorf("Expected 0 subscribers, got %d", n)
	}
}

func TestDrainingSubscriberReceivesEverything(t *testing.T) {
	h := New(WithBufferSize(4))
	defer h.Close()

	sub := h.Subscribe()
	total := 50
	var got []events.Event
	for i := 0; i < total; i++ {
		if err := h.Publish(labelEvent("about")); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
		got = append(got, drain(sub)...)
	}

	if len(got) != total {
		t.Fatalf("Expected exactly %d events, got %d", total, len(got))
	}
	for i, ev := range got {
		if ev.SequenceID != int64(i+1) {
			t.Fatalf("Event %d has sequence %d", i, ev.SequenceID)
		}
	}
	if sub.Evicted() {
		t.Error("A subscriber that keeps up must not be evicted")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New()
	defer h.Close()

	sub := h.Subscribe()
	if h.Metrics().Subscribers != 1 {
		t.Errorf("Expected 1 subscriber, got %d", h.Metrics().Subscribers)
	}

	h.Unsubscribe(sub)
	h.Unsubscribe(sub)

	if _, ok := <-sub.Events(); ok {
		t.Error("Expected channel to be closed")
	}
	if h.Metrics().Subscribers != 0 {
		t.Errorf("Expected 0 subscribers, got %d", h.Metrics().Subscribers)
	}
	if err := h.Publish(labelEvent("about")); err != nil {
		t.Errorf("Publish with no subscribers should succeed, got %v", err)
	}
}

func TestClose(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	h.Close()
	h.Close()

	if _, ok := <-sub.Events(); ok {
		t.Error("Expected subscriber channel to be closed")
	}
	if err := h.Publish(labelEvent("about")); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Expected ErrHubClosed, got %v", err)
	}

	after := h.Subscribe()
	if _, ok := <-after.Events(); ok {
		t.Error("Subscribing to a closed hub should yield a closed channel")
	}
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	h := New(WithBufferSize(1000))
	defer h.Close()

	var wg sync.WaitGroup
	subs := make([]*Subscription, 10)
	for i := range subs {
		subs[i] = h.Subscribe()
	}

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = h.Publish(labelEvent("k"))
			}
		}()
		go func() {
			defer wg.Done()
			h.Unsubscribe(h.Subscribe())
		}()
	}
	wg.Wait()

	for _, sub := range subs {
		got := drain(sub)
		if len(got) != 200 {
			t.Fatalf("Expected 200 events, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].SequenceID <= got[i-1].SequenceID {
				t.Fatalf("Sequence not increasing at %d", i)
			}
		}
	}
}
