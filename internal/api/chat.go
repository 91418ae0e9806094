package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/adaora/maison/internal/composer"
	"github.com/adaora/maison/internal/proxy"
)

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req struct {
			Messages []proxy.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		query := composer.LatestUserContent(req.Messages)
		if query == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "messages must contain user content")
			return
		}

		if !deps.Chat.Configured() {
			httpError(w, http.StatusInternalServerError, "api_error", "assistant is not configured")
			return
		}

		// Retrieval context may be empty; the assistant is still invoked
		// and instructed to ask clarifying questions instead of guessing.
		context := deps.Corpus.Context(query)
		upstream := deps.Composer.Compose(req.Messages, context)

		rc, err := deps.Chat.Chat(r.Context(), upstream)
		if err != nil {
			slog.Error("chat upstream failed", "error", err)
			streamFallback(w)
			return
		}
		defer rc.Close()

		streamResponse(w, rc)
	}
}

func streamResponse(w http.ResponseWriter, rc io.Reader) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusInternalServerError, "api_error", "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	reader := bufio.NewReader(rc)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			w.Write(line)
			flusher.Flush()
		}
		if err != nil {
			if err != io.EOF {
				slog.Error("upstream stream read error", "error", err)
				errPayload, marshalErr := json.Marshal(map[string]any{
					"error": map[string]any{
						"message": "upstream read error",
						"type":    "server_error",
					},
				})
				if marshalErr == nil {
					fmt.Fprintf(w, "data: %s\n\n", errPayload)
					flusher.Flush()
				}
			}
			break
		}
	}
}

const fallbackText = "I'm having trouble reaching the assistant right now. " +
	"Please message our concierge on WhatsApp and we'll take care of you directly."

// streamFallback emits a single SSE event carrying the human-contact
// fallback so the widget degrades gracefully when the upstream model is
// unavailable.
func streamFallback(w http.ResponseWriter) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusBadGateway, "api_error", "assistant unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	payload, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"role": "assistant", "content": fallbackText}},
		},
	})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
