package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"elklog/src/internal/core"
	"elklog/src/internal/format"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

type capturedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        map[string]any
}

// logStore is a minimal stand-in for the HTTP log store.
type logStore struct {
	mu       sync.Mutex
	status   int
	delay    time.Duration
	requests []capturedRequest
}

func newLogStore(t *testing.T, status int) (*logStore, *httptest.Server) {
	t.Helper()
	ls := &logStore{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ls.delay > 0 {
			time.Sleep(ls.delay)
		}
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(data, &body)

		ls.mu.Lock()
		ls.requests = append(ls.requests, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Body:        body,
		})
		ls.mu.Unlock()
		w.WriteHeader(ls.status)
	}))
	t.Cleanup(srv.Close)
	return ls, srv
}

func (ls *logStore) captured() []capturedRequest {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return append([]capturedRequest(nil), ls.requests...)
}

func newRemote(t *testing.T, url string, timeout time.Duration) *RemoteSink {
	t.Helper()
	logger := newTestLogger()
	r, err := NewRemoteSink(RemoteSinkOptions{
		URL:      url,
		Index:    "app-logs",
		Timeout:  timeout,
		MinLevel: core.LevelInfo,
	}, logger, format.NewJSONFormatter(logger))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRemoteSink_Success(t *testing.T) {
	store, srv := newLogStore(t, http.StatusOK)
	r := newRemote(t, srv.URL+"/", time.Second)

	rec := core.NewRecord(core.LevelInfo, "svc", "msg", core.Fields{Status: 100, Function: "f", Variable: "x2", Value: 1e-6})
	require.NoError(t, r.Write(context.Background(), rec))

	reqs := store.captured()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/app-logs", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.NotEmpty(t, reqs[0].RequestID)
	assert.Equal(t, "msg", reqs[0].Body["message"])
	assert.Equal(t, "INFO", reqs[0].Body["level"])
	assert.Equal(t, "svc", reqs[0].Body["logger_name"])
	assert.Equal(t, float64(100), reqs[0].Body["status"])
	assert.InDelta(t, 1e-6, reqs[0].Body["value"], 1e-12)

	stats := r.GetStats()
	assert.Equal(t, uint64(1), stats.TotalProcessed)
	assert.Equal(t, uint64(0), stats.TotalFailed)
	assert.Equal(t, srv.URL+"/app-logs", stats.Details["endpoint"])
}

func TestRemoteSink_Failures(t *testing.T) {
	t.Run("Non200Status", func(t *testing.T) {
		for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusInternalServerError} {
			_, srv := newLogStore(t, status)
			r := newRemote(t, srv.URL, time.Second)

			err := r.Write(context.Background(), core.NewRecord(core.LevelError, "svc", "x", core.Fields{}))
			require.Error(t, err, "status %d", status)

			var de *DeliveryError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, status, de.StatusCode)
			assert.Nil(t, de.Err)
			assert.Contains(t, de.Reason(), "status")
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		_, srv := newLogStore(t, http.StatusOK)
		url := srv.URL
		srv.Close()

		r := newRemote(t, url, time.Second)
		err := r.Write(context.Background(), core.NewRecord(core.LevelError, "svc", "x", core.Fields{}))

		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Error(t, de.Err)
		assert.Equal(t, 0, de.StatusCode)
		assert.Equal(t, uint64(1), r.GetStats().TotalFailed)
	})

	t.Run("Timeout", func(t *testing.T) {
		store, srv := newLogStore(t, http.StatusOK)
		store.delay = 300 * time.Millisecond
		r := newRemote(t, srv.URL, 50*time.Millisecond)

		start := time.Now()
		err := r.Write(context.Background(), core.NewRecord(core.LevelError, "svc", "x", core.Fields{}))
		assert.Less(t, time.Since(start), 250*time.Millisecond)

		var de *DeliveryError
		require.True(t, errors.As(err, &de))
		assert.Contains(t, de.Error(), "timeout")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		store, srv := newLogStore(t, http.StatusOK)
		r := newRemote(t, srv.URL, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := r.Write(ctx, core.NewRecord(core.LevelError, "svc", "x", core.Fields{}))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, store.captured())
	})
}

func TestRemoteSink_Threshold(t *testing.T) {
	r := newRemote(t, "http://127.0.0.1:1", time.Second)
	assert.False(t, r.Accepts(core.LevelDebug))
	assert.True(t, r.Accepts(core.LevelInfo))
	assert.True(t, r.Accepts(core.LevelCritical))
}

func TestNewRemoteSink_Defaults(t *testing.T) {
	logger := newTestLogger()
	_, err := NewRemoteSink(RemoteSinkOptions{}, logger, format.NewJSONFormatter(logger))
	assert.Error(t, err)

	r, err := NewRemoteSink(RemoteSinkOptions{URL: "http://elk:8080"}, logger, format.NewJSONFormatter(logger))
	require.NoError(t, err)
	assert.Equal(t, "http://elk:8080/logs", r.Endpoint())
	assert.Equal(t, "5s", r.GetStats().Details["timeout"])
}

func TestFileSink(t *testing.T) {
	logger := newTestLogger()
	path := filepath.Join(t.TempDir(), "app.log")

	fs, err := NewFileSink(FileSinkOptions{
		Path:        path,
		MaxSize:     1 << 20,
		BackupCount: 2,
		MinLevel:    core.LevelWarning,
	}, logger, format.NewJSONFormatter(logger))
	require.NoError(t, err)
	defer fs.Close()

	assert.False(t, fs.Accepts(core.LevelInfo))
	assert.True(t, fs.Accepts(core.LevelWarning))

	require.NoError(t, fs.Write(context.Background(), core.NewRecord(core.LevelWarning, "svc", "one", core.Fields{})))
	require.NoError(t, fs.Write(context.Background(), core.NewRecord(core.LevelError, "svc", "two", core.Fields{Variable: "v"})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "two", second["message"])
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "v", second["variable"])

	stats := fs.GetStats()
	assert.Equal(t, uint64(2), stats.TotalProcessed)
	assert.Equal(t, path, fs.Path())
}

func TestRemoteSink_UnusableURL(t *testing.T) {
	for _, raw := range []string{"localhost:9200", "ftp://elk", "http://"} {
		r := newRemote(t, raw, time.Second)

		err := r.Write(context.Background(), core.NewRecord(core.LevelError, "svc", "x", core.Fields{}))
		var de *DeliveryError
		require.True(t, errors.As(err, &de), raw)
		assert.Equal(t, 0, de.StatusCode)
		assert.Contains(t, de.Reason(), "URL", raw)
		assert.Equal(t, uint64(1), r.GetStats().TotalFailed)
	}
}

func TestFileSink_FailedRolloverKeepsRecord(t *testing.T) {
	logger := newTestLogger()
	path := filepath.Join(t.TempDir(), "app.log")

	fs, err := NewFileSink(FileSinkOptions{Path: path, MaxSize: 10, BackupCount: 1}, logger, format.NewJSONFormatter(logger))
	require.NoError(t, err)
	defer fs.Close()

	require.NoError(t, os.MkdirAll(filepath.Join(path+".1", "x"), 0o755))

	require.NoError(t, fs.Write(context.Background(), core.NewRecord(core.LevelInfo, "svc", "one", core.Fields{})))
	require.NoError(t, fs.Write(context.Background(), core.NewRecord(core.LevelInfo, "svc", "two", core.Fields{})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.Equal(t, uint64(0), fs.GetStats().TotalFailed)
}

func TestFileSink_WriteAfterClose(t *testing.T) {
	logger := newTestLogger()
	fs, err := NewFileSink(FileSinkOptions{Path: filepath.Join(t.TempDir(), "app.log")}, logger, format.NewJSONFormatter(logger))
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	err = fs.Write(context.Background(), core.NewRecord(core.LevelInfo, "svc", "late", core.Fields{}))
	assert.Error(t, err)
	assert.Equal(t, uint64(1), fs.GetStats().TotalFailed)
}

func TestConsoleSink(t *testing.T) {
	logger := newTestLogger()
	formatter, err := format.NewTextFormatter(nil, logger)
	require.NoError(t, err)

	t.Run("WritesText", func(t *testing.T) {
		var buf bytes.Buffer
		cs, err := NewConsoleSink(ConsoleSinkOptions{Writer: &buf, MinLevel: core.LevelDebug}, logger, formatter)
		require.NoError(t, err)

		require.NoError(t, cs.Write(context.Background(), core.NewRecord(core.LevelInfo, "svc", "hello", core.Fields{Status: "ok"})))
		assert.Contains(t, buf.String(), "[INFO] svc - hello status=ok\n")
		assert.NotContains(t, buf.String(), "\033[", "buffers never get colour")
		assert.Equal(t, false, cs.GetStats().Details["color"])
	})

	t.Run("InvalidTarget", func(t *testing.T) {
		_, err := NewConsoleSink(ConsoleSinkOptions{Target: "printer"}, logger, formatter)
		assert.Error(t, err)
	})

	t.Run("DefaultsToStderr", func(t *testing.T) {
		cs, err := NewConsoleSink(ConsoleSinkOptions{}, logger, formatter)
		require.NoError(t, err)
		assert.Equal(t, "stderr", cs.GetStats().Details["target"])
	})
}
