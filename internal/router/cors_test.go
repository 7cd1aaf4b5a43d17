package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ListableAPI/internal/config"
)

func TestWithCORSAllowsSingleOrigin(t *testing.T) {
	h := withCORS(config.CORSConfig{AllowOrigin: "http://localhost:3000"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected vary: %q", got)
	}
}

func TestWithCORSAllowsFromCSVList(t *testing.T) {
	h := withCORS(config.CORSConfig{AllowOrigin: "http://10.0.0.5:3000, http://cbs:3000"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	req.Header.Set("Origin", "http://cbs:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://cbs:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestWithCORSBlocksUnknownOrigin(t *testing.T) {
	h := withCORS(config.CORSConfig{AllowOrigin: "http://10.0.0.5:3000, http://cbs:3000"}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin for blocked origin: %q", got)
	}
}

func TestWithCORSPreflight(t *testing.T) {
	called := false
	h := withCORS(config.CORSConfig{AllowOrigin: "*", AllowCredentials: true}, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/list", nil)
	req.Header.Set("Origin", "http://cbs:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if called {
		t.Fatalf("preflight reached the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	// credentials forbid "*", so the request origin is echoed
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://cbs:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}
