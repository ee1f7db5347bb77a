package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vocahire/vocahire/pkg/eval"
	"github.com/vocahire/vocahire/pkg/llm"
	"github.com/vocahire/vocahire/pkg/session"
	"github.com/vocahire/vocahire/pkg/stt"
	"github.com/vocahire/vocahire/pkg/tts"
)

func newTestServer(t *testing.T) (*Server, *session.Registry) {
	t.Helper()
	registry := session.NewRegistry(nil)
	summarizer := session.NewSummarizer(registry, &eval.Mock{}, nil)
	srv := New(Config{Port: 0}, registry, summarizer, stt.NewMock(), llm.NewMock("hi"), tts.NewMock())
	return srv, registry
}

func finishedSession(t *testing.T, registry *session.Registry, id string) {
	t.Helper()
	registry.Create(id)
	registry.AppendTurn(id, session.SpeakerAI, "Tell me about yourself?")
	registry.AppendTurn(id, session.SpeakerCandidate, "I have plenty of experience.")
	registry.MarkEnded(id)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, srv, "GET", "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status field = %q", payload["status"])
	}
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, srv, "GET", "/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(string(body), "VocaHire Backend is running!") {
		t.Errorf("landing page body = %q", body)
	}
}

func TestGenerateSummary(t *testing.T) {
	t.Run("missing session id", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, _ := doJSON(t, srv, "POST", "/api/interview/summary", map[string]string{})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, _ := doJSON(t, srv, "POST", "/api/interview/summary",
			map[string]string{"session_id": "ghost"})
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		srv, registry := newTestServer(t)
		registry.Create("empty")
		registry.MarkEnded("empty")
		resp, _ := doJSON(t, srv, "POST", "/api/interview/summary",
			map[string]string{"session_id": "empty"})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("finished session", func(t *testing.T) {
		srv, registry := newTestServer(t)
		finishedSession(t, registry, "s1")

		resp, body := doJSON(t, srv, "POST", "/api/interview/summary",
			map[string]string{"session_id": "s1"})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
		}

		var summary session.Summary
		if err := json.Unmarshal(body, &summary); err != nil {
			t.Fatalf("unmarshal summary: %v", err)
		}
		if summary.SessionID != "s1" {
			t.Errorf("session_id = %q", summary.SessionID)
		}
		if len(summary.FullTranscript) != 2 {
			t.Errorf("transcript has %d turns, want 2", len(summary.FullTranscript))
		}
		if summary.Evaluation.OverallScore <= 0 {
			t.Errorf("overall score = %v, want > 0", summary.Evaluation.OverallScore)
		}

		status, _ := registry.Status("s1")
		if status != session.StatusSummarized {
			t.Errorf("status = %v, want summarized", status)
		}
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		srv, _ := newTestServer(t)
		resp, _ := doJSON(t, srv, "GET", "/api/interview/ghost/summary", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("empty transcript", func(t *testing.T) {
		srv, registry := newTestServer(t)
		registry.Create("empty")
		registry.MarkEnded("empty")
		resp, _ := doJSON(t, srv, "GET", "/api/interview/empty/summary", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404 for a session with no transcript", resp.StatusCode)
		}
	})

	t.Run("computes on demand", func(t *testing.T) {
		srv, registry := newTestServer(t)
		finishedSession(t, registry, "s1")

		resp, body := doJSON(t, srv, "GET", "/api/interview/s1/summary", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
		}
		var summary session.Summary
		if err := json.Unmarshal(body, &summary); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if summary.SessionID != "s1" {
			t.Errorf("session_id = %q", summary.SessionID)
		}
		if status, _ := registry.Status("s1"); status != session.StatusSummarized {
			t.Errorf("status = %v, want summarized after on-demand generation", status)
		}
	})

	t.Run("returns the cache afterwards", func(t *testing.T) {
		srv, registry := newTestServer(t)
		finishedSession(t, registry, "s2")

		if resp, _ := doJSON(t, srv, "POST", "/api/interview/summary",
			map[string]string{"session_id": "s2"}); resp.StatusCode != http.StatusOK {
			t.Fatalf("generate status = %d", resp.StatusCode)
		}

		resp, body := doJSON(t, srv, "GET", "/api/interview/s2/summary", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		var summary session.Summary
		if err := json.Unmarshal(body, &summary); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if summary.SessionID != "s2" {
			t.Errorf("session_id = %q", summary.SessionID)
		}
	})
}
