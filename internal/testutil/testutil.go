// Package testutil provides testing utilities for Showcase tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/config"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/storage"
)

// FakeServer is a scriptable stand-in for the Showcase backend. Routes are
// registered per method and path; unregistered paths return 404. Every
// request is counted, and a route can be scripted to walk through a
// sequence of status codes before settling on its handler, which is how
// retry behavior gets exercised.
type FakeServer struct {
	t   *testing.T
	srv *httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	hits     map[string]int
	scripted map[string][]int
}

// NewFakeServer starts a fake backend that shuts down with the test.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	f := &FakeServer{
		t:        t,
		mux:      http.NewServeMux(),
		hits:     make(map[string]int),
		scripted: make(map[string][]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

// URL returns the fake backend's base URL.
func (f *FakeServer) URL() string {
	return f.srv.URL
}

// Client builds an API client pointed at this server.
func (f *FakeServer) Client() *api.Client {
	cfg := config.APIConfig{
		BaseURL:        f.srv.URL,
		TimeoutSeconds: 5,
		Retry:          config.RetryConfig{MaxAttempts: 2, DelayMs: 0},
	}
	return api.NewClient(cfg, nil)
}

// Handle registers a handler for "METHOD /path".
func (f *FakeServer) Handle(method, path string, handler http.HandlerFunc) {
	f.mux.HandleFunc(method+" "+path, handler)
}

// RespondJSON registers a route that always answers with the JSON encoding
// of v.
func (f *FakeServer) RespondJSON(method, path string, v any) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		f.WriteJSON(w, v)
	})
}

// ScriptStatuses makes the next requests to "METHOD /path" answer with the
// given status codes, one per request, before the registered handler takes
// over. Used for 401-then-success retry scenarios.
func (f *FakeServer) ScriptStatuses(method, path string, statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripted[method+" "+path] = statuses
}

// Hits returns how many requests "METHOD /path" has received.
func (f *FakeServer) Hits(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[method+" "+path]
}

// WriteJSON encodes v onto the response.
func (f *FakeServer) WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("failed to encode response: %v", err)
	}
}

func (f *FakeServer) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.hits[key]++
	if script := f.scripted[key]; len(script) > 0 {
		status := script[0]
		f.scripted[key] = script[1:]
		f.mu.Unlock()
		w.WriteHeader(status)
		return
	}
	f.mu.Unlock()

	f.mux.ServeHTTP(w, r)
}

// NewFileStore creates a FileStore in a temp directory cleaned up with the
// test.
func NewFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	return fs
}

// SampleUser returns a plausible non-admin user.
func SampleUser() *model.User {
	return &model.User{
		ObjectID: "64f0c2a1b5e8d90012345678",
		Name:     "Jess Rivera",
		Email:    "jess@example.com",
		Role:     "User",
	}
}

// SampleAdmin returns a plausible admin user.
func SampleAdmin() *model.User {
	return &model.User{
		ObjectID: "64f0c2a1b5e8d90012345600",
		Name:     "Sam Admin",
		Email:    "admin@example.com",
		Role:     "Admin",
	}
}

// SampleProject returns a plausible project owned by SampleUser.
func SampleProject() model.Project {
	return model.Project{
		ObjectID:     "64f0c2a1b5e8d900123456aa",
		Title:        "Telemetry Explorer",
		Description:  "Dashboards over fleet telemetry",
		Status:       "In Progress",
		Category:     "Web Development",
		Technologies: []string{"Cursor"},
		Tags:         []string{"telemetry"},
		Creator:      SampleUser(),
	}
}
