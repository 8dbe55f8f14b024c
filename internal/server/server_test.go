package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"salestrack/internal/api"
	"salestrack/internal/config"
	"salestrack/internal/importer"
	"salestrack/internal/source"
)

func newTestServer(t *testing.T, logs *bytes.Buffer) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Server.DevMode = true
	logger := zerolog.New(logs)
	coordinator := importer.NewCoordinator(cfg, source.NewMemory(), nil, logger)
	return NewServer(cfg, api.NewHandler(cfg, coordinator, nil, logger), logger)
}

func TestServerRoutesAndRequestLog(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, &logs)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get(RequestIDHeader); got != "req-1" {
		t.Fatalf("request id header = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("missing CORS header, got %q", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", logs.String(), err)
	}
	if entry["request_id"] != "req-1" || entry["path"] != "/api/status" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Fatalf("unexpected status in log: %v", entry["status"])
	}
}

func TestServerPreflight(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, &logs)

	req := httptest.NewRequest(http.MethodOptions, "/api/runs", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestServerGeneratesRequestID(t *testing.T) {
	var logs bytes.Buffer
	srv := newTestServer(t, &logs)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}
}
