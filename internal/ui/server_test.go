package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/flowlens/internal/testutil"
	"github.com/leapstack-labs/flowlens/pkg/source"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Loader == nil {
		src, err := source.New(context.Background(), source.Config{Type: source.PlaceholderName}, nil)
		require.NoError(t, err)
		cfg.Loader = src
	}
	cfg.SessionSecret = "test-secret-key-32-bytes-long!!"
	cfg.Logger = testutil.NewTestLogger(t)
	return NewServer(cfg)
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t, Config{Port: 8765})
	handler, err := s.Handler()
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(srv.URL + "/components")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	assert.Equal(t, "http://localhost:8765", s.URL())
	assert.False(t, s.IsDev())
}

func TestNewServer_WatchRequiresPath(t *testing.T) {
	s := newTestServer(t, Config{Watch: true})
	assert.False(t, s.watch, "watching without a path is disabled")

	s = newTestServer(t, Config{Watch: true, WatchPath: "components.yaml"})
	assert.True(t, s.watch)
}

func TestIsRelevantChange(t *testing.T) {
	target := filepath.Join("data", "state.db")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to target", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"create target", fsnotify.Event{Name: target, Op: fsnotify.Create}, true},
		{"wal sibling", fsnotify.Event{Name: filepath.Join("data", "state.db-wal"), Op: fsnotify.Write}, true},
		{"other file", fsnotify.Event{Name: filepath.Join("data", "other.yaml"), Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantChange(tt.event, target))
		})
	}
}

func TestServer_WatchFileBroadcasts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.yaml")
	require.NoError(t, os.WriteFile(path, []byte("components: []\n"), 0600))

	s := newTestServer(t, Config{Watch: true, WatchPath: path})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchFile(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("components:\n  - id: a.b.c\n"), 0600))

	assert.Eventually(t, func() bool {
		return s.Notifier().Seq() > 0
	}, 2*time.Second, 10*time.Millisecond, "change should be broadcast")

	cancel()
	assert.NoError(t, <-done)
}
