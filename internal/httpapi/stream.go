package httpapi

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/thenoetrevino/relabel/internal/events"
	"github.com/thenoetrevino/relabel/internal/metrics"
)

const writeWait = 5 * time.Second

// streamEvents serves GET /api/events. Each connection gets its own hub
// subscription; frames are written by this goroutine only.
func (s *Server) streamEvents(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("failed to upgrade the websocket", "error", err)
		return
	}
	defer ws.Close()

	sub := s.deps.Hub.Subscribe()
	defer s.deps.Hub.Unsubscribe(sub)

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	actor := getClaims(c).Actor()
	slog.Info("stream client connected", "subscriber", sub.ID(), "actor", actor)
	defer slog.Info("stream client disconnected", "subscriber", sub.ID(), "actor", actor)

	// A client that misses two pings in a row is considered gone
	pongWait := 2*s.opts.PingInterval + writeWait
	var (
		mu       sync.Mutex
		lastPong = time.Now()
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg events.Message
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == events.MessagePong {
				mu.Lock()
				lastPong = time.Now()
				mu.Unlock()
			}
		}
	}()

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return

		case <-c.Request.Context().Done():
			return

		case ev, ok := <-sub.Events():
			if !ok {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
				if sub.Evicted() {
					closeMsg = websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber fell behind")
				}
				_ = ws.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait))
				return
			}
			if err := writeMessage(ws, events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MessageEvent,
				Event:   &ev,
			}); err != nil {
				slog.Warn("failed to write event", "subscriber", sub.ID(), "error", err)
				return
			}

		case <-ping.C:
			mu.Lock()
			stale := time.Since(lastPong) > pongWait
			mu.Unlock()
			if stale {
				slog.Info("removing stale stream client", "subscriber", sub.ID())
				return
			}
			if err := writeMessage(ws, events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MessagePing,
			}); err != nil {
				return
			}
		}
	}
}

func writeMessage(ws *websocket.Conn, msg events.Message) error {
	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.WriteJSON(msg)
}

// checkOrigin allows non-browser clients and configured browser origins
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.opts.AllowedOrigins, "*") || slices.Contains(s.opts.AllowedOrigins, origin) {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
