// Package composer assembles the system prompt for the concierge
// assistant from retrieved knowledge context.
package composer

import (
	"strings"

	"github.com/adaora/maison/internal/proxy"
)

const instructions = `You are the concierge assistant for a luxury fashion and event house.
Answer questions about orders, payment, delivery, sizing, bespoke commissions, and event services
using only the reference material provided below. Be warm, precise, and brief.
If the reference material does not cover the question, say so, ask a clarifying question,
and direct the customer to the WhatsApp concierge for anything you cannot answer.
Never invent prices, timelines, or policies.`

// Composer builds enriched chat requests for the upstream model.
type Composer struct {
	Model string
}

// New creates a Composer that targets the given upstream model.
func New(model string) *Composer {
	return &Composer{Model: model}
}

// Compose prepends a system message carrying the concierge instructions and
// the grounding context. If the incoming request already has a leading
// system message, the enrichment is merged in front of it. When context is
// empty the instructions alone are sent; they direct the model to ask
// clarifying questions rather than fabricate.
func (c *Composer) Compose(messages []proxy.Message, context string) proxy.ChatRequest {
	system := instructions
	if context != "" {
		system += "\n\n[Reference material]\n" + context
	}

	out := make([]proxy.Message, 0, len(messages)+1)
	if len(messages) > 0 && messages[0].Role == "system" {
		merged := system + "\n\n---\n\n" + messages[0].Content
		out = append(out, proxy.Message{Role: "system", Content: merged})
		out = append(out, messages[1:]...)
	} else {
		out = append(out, proxy.Message{Role: "system", Content: system})
		out = append(out, messages...)
	}

	return proxy.ChatRequest{
		Model:    c.Model,
		Messages: out,
		Stream:   true,
	}
}

// LatestUserContent returns the content of the most recent user message, or
// "" when none exists.
func LatestUserContent(messages []proxy.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && strings.TrimSpace(messages[i].Content) != "" {
			return messages[i].Content
		}
	}
	return ""
}
