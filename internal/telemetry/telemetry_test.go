package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDisabledIsPassthrough(t *testing.T) {
	shutdown, err := Setup(false)
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	shutdown()

	client := HTTPClient(false, 5*time.Second)
	if client.Transport != nil {
		t.Fatalf("expected default transport, got %T", client.Transport)
	}
	if client.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", client.Timeout)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if got := Handler(false, h, "op"); got == nil {
		t.Fatal("expected handler")
	}
}

func TestEnabledWrapsTransportAndHandler(t *testing.T) {
	client := HTTPClient(true, time.Second)
	if client.Transport == nil {
		t.Fatal("expected instrumented transport")
	}

	called := false
	h := Handler(true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}), "op")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if !called || rr.Code != http.StatusNoContent {
		t.Fatalf("expected wrapped handler to run, got %d", rr.Code)
	}
}
