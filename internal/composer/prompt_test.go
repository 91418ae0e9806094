package composer

import (
	"strings"
	"testing"

	"github.com/adaora/maison/internal/proxy"
)

func TestComposeAddsSystemMessage(t *testing.T) {
	c := New("anthropic/claude-sonnet-4")
	messages := []proxy.Message{{Role: "user", Content: "do you deliver to Abuja?"}}

	req := c.Compose(messages, "[faq] Nationwide courier delivery takes 3-7 business days.")

	if req.Model != "anthropic/claude-sonnet-4" {
		t.Errorf("Model = %q", req.Model)
	}
	if !req.Stream {
		t.Error("Stream should be true")
	}
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}
	sys := req.Messages[0]
	if sys.Role != "system" {
		t.Fatalf("first message role = %q, want system", sys.Role)
	}
	if !strings.Contains(sys.Content, "Reference material") {
		t.Errorf("system message missing context block:\n%s", sys.Content)
	}
	if !strings.Contains(sys.Content, "Nationwide courier delivery") {
		t.Errorf("system message missing retrieved text:\n%s", sys.Content)
	}
	if req.Messages[1].Content != "do you deliver to Abuja?" {
		t.Errorf("user message altered: %q", req.Messages[1].Content)
	}
}

// TestComposeEmptyContext verifies the instructions still go out alone when
// retrieval found nothing; they tell the model to ask instead of invent.
func TestComposeEmptyContext(t *testing.T) {
	c := New("m")
	req := c.Compose([]proxy.Message{{Role: "user", Content: "hi"}}, "")

	sys := req.Messages[0]
	if strings.Contains(sys.Content, "Reference material") {
		t.Errorf("system message has context block for empty context:\n%s", sys.Content)
	}
	if !strings.Contains(sys.Content, "Never invent prices") {
		t.Errorf("instructions missing:\n%s", sys.Content)
	}
}

// TestComposeMergesLeadingSystem verifies an incoming system message is
// kept behind the enrichment rather than duplicated or dropped.
func TestComposeMergesLeadingSystem(t *testing.T) {
	c := New("m")
	messages := []proxy.Message{
		{Role: "system", Content: "reply in French"},
		{Role: "user", Content: "bonjour"},
	}

	req := c.Compose(messages, "")
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(req.Messages))
	}
	sys := req.Messages[0]
	if !strings.Contains(sys.Content, "reply in French") {
		t.Errorf("client system message dropped:\n%s", sys.Content)
	}
	if !strings.Contains(sys.Content, "concierge assistant") {
		t.Errorf("enrichment missing:\n%s", sys.Content)
	}
}

func TestLatestUserContent(t *testing.T) {
	tests := []struct {
		name     string
		messages []proxy.Message
		want     string
	}{
		{
			name: "last user wins",
			messages: []proxy.Message{
				{Role: "user", Content: "first"},
				{Role: "assistant", Content: "reply"},
				{Role: "user", Content: "second"},
			},
			want: "second",
		},
		{
			name: "skips blank user message",
			messages: []proxy.Message{
				{Role: "user", Content: "real question"},
				{Role: "user", Content: "   "},
			},
			want: "real question",
		},
		{
			name:     "no user messages",
			messages: []proxy.Message{{Role: "system", Content: "x"}},
			want:     "",
		},
		{name: "empty", messages: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatestUserContent(tt.messages); got != tt.want {
				t.Errorf("LatestUserContent = %q, want %q", got, tt.want)
			}
		})
	}
}
