package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"forensai-backend/internal/handlers"
	"forensai-backend/internal/metrics"
	"forensai-backend/internal/models"
	"forensai-backend/internal/services"
)

// newTestServer wires the real router and Ollama client against a fake
// backend that records every generate request.
func newTestServer(t *testing.T, backend http.HandlerFunc) *httptest.Server {
	t.Helper()
	ollama := httptest.NewServer(backend)
	t.Cleanup(ollama.Close)

	gen := services.NewOllamaService(ollama.URL+"/api/generate", 0)
	h := New(
		handlers.NewChatHandler(gen, "llama3"),
		handlers.NewAnalyzeHandler(gen, services.NewFileExtractService(), "llama3", 1<<20),
		http.NotFoundHandler(),
		[]string{"*"},
	)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("health check must not call the backend")
	})

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestRouter_ChatEndToEnd(t *testing.T) {
	var calls int
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected backend path %s", r.URL.Path)
		}
		var req models.GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != "hello" || req.Stream || req.Model != "llama3" {
			t.Errorf("Unexpected backend request %+v", req)
		}
		io.WriteString(w, `{"response":"hi there","done":true}`)
	})

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var result models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if string(result.Response) != `"hi there"` || result.Model != "llama3" {
		t.Errorf("Unexpected reply %+v", result)
	}
	if calls != 1 {
		t.Errorf("Expected one backend call, got %d", calls)
	}
}

func TestRouter_UnreachableBackendAsymmetry(t *testing.T) {
	ollama := httptest.NewServer(http.NotFoundHandler())
	url := ollama.URL + "/api/generate"
	ollama.Close()

	gen := services.NewOllamaService(url, 0)
	srv := httptest.NewServer(New(
		handlers.NewChatHandler(gen, "llama3"),
		handlers.NewAnalyzeHandler(gen, services.NewFileExtractService(), "llama3", 1<<20),
		nil,
		[]string{"*"},
	))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected chat to return 503, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/analyze-log", "application/x-www-form-urlencoded", strings.NewReader("content=log"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected analyze-log to return 500, got %d", resp.StatusCode)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodOptions, srv.URL+"/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard allow-origin, got %q", got)
	}
}

func TestRouter_UnknownMethod(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Get(srv.URL + "/api/chat")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestRouter_HeadHealth(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Head(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestRouter_UnknownPathsShareOneMetricSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	before, err := testutil.GatherAndCount(reg, "forensai_http_requests_total")
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	for i := 0; i < 30; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/scan-%d/wp-login.php", srv.URL, i))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d", resp.StatusCode)
		}
	}

	after, err := testutil.GatherAndCount(reg, "forensai_http_requests_total")
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if after-before > 1 {
		t.Errorf("Expected unknown paths to share one series, got %d new series", after-before)
	}
}
