package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/llmvitals/llmvitals/internal/domain"
)

func TestChatProbe_Complete(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(200)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer s.Close()

	p := NewChatProbe(s.URL, "gpt-4")
	out := p.Probe(context.Background())

	if out.State != domain.StateComplete || out.StatusCode != 200 {
		t.Fatalf("want complete/200, got %+v", out)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("wrong path: %s", gotPath)
	}
	if gotBody["model"] != "gpt-4" || gotBody["max_tokens"] != float64(1) {
		t.Fatalf("wrong payload: %+v", gotBody)
	}
	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("wrong messages: %+v", gotBody["messages"])
	}
}

func TestChatProbe_HTTP500(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, 500)
	}))
	defer s.Close()

	out := NewChatProbe(s.URL, "gpt-4").Probe(context.Background())
	if out.State != domain.StateFail || out.StatusCode != 500 {
		t.Fatalf("want fail/500, got %+v", out)
	}
	if out.Message == "" {
		t.Fatalf("want non-empty message")
	}
}

func TestChatProbe_MalformedBody(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer s.Close()

	out := NewChatProbe(s.URL, "gpt-4").Probe(context.Background())
	if out.State != domain.StateFail || out.StatusCode != 200 {
		t.Fatalf("want fail/200 for empty choices, got %+v", out)
	}
	if out.Message != "malformed completion body" {
		t.Fatalf("unexpected message: %q", out.Message)
	}
}

func TestChatProbe_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := NewChatProbe(s.URL, "gpt-4").Probe(ctx)
	if out.State != domain.StateFail || out.StatusCode != StatusTimeout {
		t.Fatalf("want fail/124 on timeout, got %+v", out)
	}
	if out.Message != "request timeout" {
		t.Fatalf("unexpected timeout message: %q", out.Message)
	}
}

func TestChatProbe_TransportError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	s.Close() // refuse connections

	out := NewChatProbe(s.URL, "gpt-4").Probe(context.Background())
	if out.State != domain.StateFail || out.StatusCode != 0 {
		t.Fatalf("want fail/0 on transport error, got %+v", out)
	}
	if out.Message == "" {
		t.Fatalf("want non-empty error message")
	}
}
