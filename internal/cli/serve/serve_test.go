package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/relabel/internal/auth"
	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/events"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "relabel.db")
	cfg.Auth.Secret = "test-secret"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg, ln, true) }()

	base := "http://" + ln.Addr().String()
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server never became healthy: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	return base, cancel, done
}

func TestServeRequiresSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Secret = ""

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if err := Serve(context.Background(), cfg, ln, false); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Expected ErrNoSecret, got %v", err)
	}
}

func TestServeEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	base, cancel, done := startServer(t, cfg)
	defer cancel()

	issuer, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, err := issuer.Issue("alice", []string{auth.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	api := client.New(base, token)

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	// Seeded on startup
	labels, err := api.ListLabels(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(labels.RawLabels) == 0 {
		t.Fatal("Expected default labels to be provisioned")
	}

	listener := events.NewClient(api.EventsURL(), token)
	if err := listener.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer listener.Close()
	stream, err := listener.Listen(ctx)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := api.SendCommand(ctx, "rename home to Start")
	if err != nil {
		t.Fatalf("command: %v", err)
	}
	if resp.Type != "success" {
		t.Fatalf("Expected success, got %s: %s", resp.Type, resp.Response)
	}

	select {
	case ev := <-stream:
		if ev.NewValue != "Start" || ev.ChangedBy != "alice" || ev.ChangeType != "chatbot" {
			data, _ := json.Marshal(ev)
			t.Errorf("Unexpected event %s", data)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for label event")
	}

	entries, err := api.History(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].NewValue != "Start" {
		t.Errorf("Expected one history entry, got %+v", entries)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down")
	}
}
