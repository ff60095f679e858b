package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, opts)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	handler := loggingMiddleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purification/purify", nil)
	req.Header.Set("X-API-Key", "secret-key-123")
	req.Header.Set("Authorization", "Bearer mytoken")
	req.Header.Set("User-Agent", "TestAgent")

	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	logOutput := buf.String()

	if !strings.Contains(logOutput, LogMsgRequestHeaders) {
		t.Fatalf("Log output missing headers log: %s", logOutput)
	}

	if strings.Contains(logOutput, "secret-key-123") {
		t.Errorf("log output leaks X-API-Key value: %s", logOutput)
	}

	if strings.Contains(logOutput, "Bearer mytoken") {
		t.Errorf("log output leaks Authorization value: %s", logOutput)
	}

	if !strings.Contains(logOutput, "TestAgent") {
		t.Errorf("Log output missing non-sensitive header: %s", logOutput)
	}
}

func TestLoggingMiddleware_SkipsHealthChecks(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if strings.Contains(buf.String(), LogMsgRequestStarted) {
		t.Errorf("health check request was logged: %s", buf.String())
	}
}
