package events

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// streamServer upgrades one connection and hands it to fn
func streamServer(t *testing.T, fn func(conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		fn(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func eventMsg(seq int64, key string) Message {
	return Message{
		Version: ProtocolVersion,
		Type:    MessageEvent,
		Event:   &Event{Type: EventLabelUpdated, Key: key, SequenceID: seq},
	}
}

func TestClientReceivesEventsAndDropsDuplicates(t *testing.T) {
	pong := make(chan Message, 1)
	srv := streamServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(eventMsg(1, "about"))
		_ = conn.WriteJSON(eventMsg(1, "about")) // duplicate
		_ = conn.WriteJSON(Message{Version: ProtocolVersion, Type: MessagePing})

		var reply Message
		if err := conn.ReadJSON(&reply); err == nil {
			pong <- reply
		}
		_ = conn.WriteJSON(eventMsg(2, "contact"))

		// Hold the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	})

	client := NewClient(wsURL(srv), "secret", WithRetries(0, time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ch, err := client.Listen(ctx)
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	var keys []string
	timeout := time.After(2 * time.Second)
	for len(keys) < 2 {
		select {
		case ev := <-ch:
			keys = append(keys, ev.Key)
		case <-timeout:
			t.Fatalf("Timed out, received %v", keys)
		}
	}
	if keys[0] != "about" || keys[1] != "contact" {
		t.Errorf("Expected [about contact], got %v", keys)
	}

	select {
	case reply := <-pong:
		if reply.Type != MessagePong {
			t.Errorf("Expected pong reply, got %q", reply.Type)
		}
	case <-time.After(time.Second):
		t.Error("Client did not answer ping")
	}
}

func TestClientConnectUnauthorized(t *testing.T) {
	srv := streamServer(t, func(*websocket.Conn) {})

	client := NewClient(wsURL(srv), "wrong")
	err := client.Connect(context.Background())

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("Expected StreamError, got %v", err)
	}
	if streamErr.Code != ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", streamErr.Code)
	}
}

func TestListenRequiresConnection(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/api/events", "")
	if _, err := client.Listen(context.Background()); err == nil {
		t.Error("Expected Listen to fail before Connect")
	}
}

func TestListenClosesChannelWhenServerGoesAway(t *testing.T) {
	srv := streamServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(eventMsg(1, "about"))
	})

	client := NewClient(wsURL(srv), "secret", WithRetries(1, time.Millisecond))
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ch, _ := client.Listen(context.Background())
	srv.Close()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("Channel was not closed after reconnection gave up")
		}
	}
}

func TestClassifyStreamError(t *testing.T) {
	if ClassifyStreamError(nil, nil) != nil {
		t.Error("nil error should classify as nil")
	}

	forbidden := ClassifyStreamError(websocket.ErrBadHandshake, &http.Response{StatusCode: http.StatusForbidden})
	if forbidden.Code != ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", forbidden.Code)
	}

	other := ClassifyStreamError(errors.New("dns failure"), nil)
	if other.Code != ErrServerUnreachable || other.Hint == "" {
		t.Errorf("Unexpected classification: %+v", other)
	}
}
