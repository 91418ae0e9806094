package api

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adaora/maison/internal/proxy"
)

func TestChatValidation(t *testing.T) {
	e := newTestEnv(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/chat", strings.NewReader(`not json`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("no user content", func(t *testing.T) {
		for _, body := range []string{
			`{"messages":[]}`,
			`{"messages":[{"role":"system","content":"x"}]}`,
			`{"messages":[{"role":"user","content":"   "}]}`,
		} {
			rec := e.do(t, http.MethodPost, "/chat", strings.NewReader(body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %s: status = %d, want 400", body, rec.Code)
			}
		}
	})

	t.Run("unconfigured assistant", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/chat",
			strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "not configured") {
			t.Errorf("body = %s", rec.Body.String())
		}
	})
}

func TestChatStreamsUpstream(t *testing.T) {
	sseData := "data: {\"choices\":[{\"delta\":{\"content\":\"Within 2-4 days.\"}}]}\n\ndata: [DONE]\n\n"
	var gotBody string

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseData)
	}))
	defer upstream.Close()

	e := newTestEnv(t)
	e.deps.Chat = proxy.NewClientWithBaseURL("test-key", upstream.URL)
	e.handler = NewHandler(e.deps)

	rec := e.do(t, http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"how long is delivery to Lagos?"}]}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != sseData {
		t.Errorf("body = %q, want upstream stream passed through", rec.Body.String())
	}

	// The upstream request was enriched with the grounding context.
	if !strings.Contains(gotBody, "Lagos deliveries arrive") {
		t.Errorf("upstream request missing retrieval context: %s", gotBody)
	}
	if !strings.Contains(gotBody, `"role":"system"`) {
		t.Errorf("upstream request missing system message: %s", gotBody)
	}
}

// TestChatFallback verifies an unreachable upstream degrades to a single
// SSE event pointing the customer at the concierge.
func TestChatFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	upstream.Close() // connection refused from here on

	e := newTestEnv(t)
	e.deps.Chat = proxy.NewClientWithBaseURL("test-key", upstream.URL)
	e.handler = NewHandler(e.deps)

	rec := e.do(t, http.MethodPost, "/chat",
		strings.NewReader(`{"messages":[{"role":"user","content":"hello"}]}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "WhatsApp") {
		t.Errorf("fallback body missing concierge pointer: %q", body)
	}
	if !strings.Contains(body, "data: [DONE]") {
		t.Errorf("fallback stream not terminated: %q", body)
	}
}
