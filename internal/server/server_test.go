package server

import (
	"net/http/httptest"
	"testing"

	"github.com/joeyShea/travel-map/internal/config"
)

func newTestServer() *Server {
	return NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil, nil)
}

func TestHealthRoute(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestProtectedRoutesRejectAnonymousWrites(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("POST", "/trips/", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMapSessionRouteRequiresUpgrade(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest("GET", "/map/ws/session-1", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode == 200 {
		t.Fatalf("expected non-200 for non-websocket request")
	}
}
