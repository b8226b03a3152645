package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServer_RoutesAreWired(t *testing.T) {
	srv, err := New(Config{DBPath: ":memory:", HeatmapDays: 30, Location: time.UTC}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/moods",
		bytes.NewBufferString(`{"moodValue":7,"note":"Had coffee today"}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/moods?search=coffee", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"moodValue":7`)

	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestServer_CreatesDatabaseDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "moodlog.db")

	srv, err := New(Config{DBPath: path}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })

	assert.FileExists(t, path)
}

func TestServer_ServeStopsOnContextCancel(t *testing.T) {
	srv, err := New(Config{DBPath: ":memory:"}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { srv.db.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/healthz", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServer_RunFailsOnBadAddress(t *testing.T) {
	srv, err := New(Config{DBPath: ":memory:", Addr: "not-an-address"}, quietLogger())
	require.NoError(t, err)

	err = srv.Run(context.Background())

	assert.Error(t, err)
}
