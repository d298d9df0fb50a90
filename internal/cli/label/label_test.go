package label

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/relabel/internal/cli"
	"github.com/thenoetrevino/relabel/internal/config"
)

type recorder struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (r *recorder) add(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
}

func (r *recorder) all() []*http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*http.Request(nil), r.reqs...)
}

// fakeAPI answers the label endpoints with canned envelopes and records requests
func fakeAPI(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()

	seen := &recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/labels", func(w http.ResponseWriter, r *http.Request) {
		seen.add(r)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"labels":{},"rawLabels":[
			{"id":1,"label_key":"nav_home","label_value":"Home","page":"navbar"},
			{"id":2,"label_key":"home_title","label_value":"Welcome","page":"home"}]}}`))
	})
	mux.HandleFunc("PUT /api/labels/{key}", func(w http.ResponseWriter, r *http.Request) {
		seen.add(r)
		if r.PathValue("key") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Label not found"}`))
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		resp := map[string]any{
			"success": true,
			"message": "Label updated successfully",
			"data": map[string]any{
				"previousValue": "Home",
				"label":         map[string]any{"id": 1, "label_key": r.PathValue("key"), "label_value": body["value"]},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /api/labels/history", func(w http.ResponseWriter, r *http.Request) {
		seen.add(r)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"history":[{"id":3,"label_key":"nav_home"}]}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, seen
}

func run(t *testing.T, serverURL string, args ...string) (string, string, error) {
	t.Helper()

	root := &cobra.Command{Use: "relabel", SilenceErrors: true, SilenceUsage: true}
	root.PersistentFlags().Bool("json", false, "")
	root.PersistentFlags().Bool("quiet", false, "")
	root.AddCommand(Commands()...)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	cfg := config.Default()
	cfg.Client.Server = serverURL
	cfg.Client.Token = "tok"

	err := root.ExecuteContext(cli.WithConfig(context.Background(), cfg))
	return out.String(), errOut.String(), err
}

func TestListFiltersByPage(t *testing.T) {
	srv, _ := fakeAPI(t)

	out, _, err := run(t, srv.URL, "labels", "--page", "navbar", "--quiet")
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	if out != "1\n" {
		t.Errorf("Expected only the navbar label ID, got %q", out)
	}
}

func TestEditJoinsValueAndSendsToken(t *testing.T) {
	srv, seen := fakeAPI(t)

	out, _, err := run(t, srv.URL, "edit", "nav_home", "Start", "Here")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out, "✓ Label nav_home updated") || !strings.Contains(out, `"Start Here"`) {
		t.Errorf("Unexpected output: %q", out)
	}
	if got := seen.all()[0].Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Expected bearer token, got %q", got)
	}
}

func TestEditNotFoundExitCode(t *testing.T) {
	srv, _ := fakeAPI(t)

	_, errOut, err := run(t, srv.URL, "edit", "missing", "x")
	if cli.ExitCodeFor(err) != cli.ExitNotFound {
		t.Errorf("Expected exit %d, got %d (%v)", cli.ExitNotFound, cli.ExitCodeFor(err), err)
	}
	var statusErr *cli.StatusError
	if !errors.As(err, &statusErr) || !statusErr.Reported() {
		t.Error("Expected a reported status error")
	}
	if !strings.Contains(errOut, "Label not found") || !strings.Contains(errOut, "relabel search") {
		t.Errorf("Expected error and suggestion on stderr, got %q", errOut)
	}
}

func TestEditRejectsBadKeyLocally(t *testing.T) {
	srv, seen := fakeAPI(t)

	_, _, err := run(t, srv.URL, "edit", "bad key", "x")
	if cli.ExitCodeFor(err) != cli.ExitValidation {
		t.Errorf("Expected validation exit, got %v", err)
	}
	if len(seen.all()) != 0 {
		t.Error("Invalid key should not reach the server")
	}
}

func TestHistoryFlags(t *testing.T) {
	srv, seen := fakeAPI(t)

	out, _, err := run(t, srv.URL, "history", "--key", "nav_home", "--limit", "3", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	q := seen.all()[0].URL.Query()
	if q.Get("labelKey") != "nav_home" || q.Get("limit") != "3" {
		t.Errorf("Unexpected query %v", q)
	}
	if !strings.Contains(out, `"success":true`) {
		t.Errorf("Expected JSON output, got %q", out)
	}

	_, _, err = run(t, srv.URL, "history", "--limit", "0")
	if cli.ExitCodeFor(err) != cli.ExitValidation {
		t.Errorf("Expected validation exit for limit 0, got %v", err)
	}
}
