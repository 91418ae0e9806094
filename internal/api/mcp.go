package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/adaora/maison/internal/knowledge"
	"github.com/adaora/maison/internal/order"
)

// MCPDeps holds dependencies for the concierge tool server.
type MCPDeps struct {
	Orders *order.Service
	Corpus *knowledge.Corpus
}

// NewMCPServer exposes the order lookup and knowledge search tools the
// concierge operator's assistant uses.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"maison",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("maison — concierge tools: order status lookup and knowledge base search."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("lookup_order",
			mcp.WithDescription("Fetch an order by its reference and return its status and summary."),
			mcp.WithString("order_id", mcp.Description("The order reference"), mcp.Required()),
		),
		mcpLookupOrder(deps),
	)

	s.AddTool(
		mcp.NewTool("search_knowledge",
			mcp.WithDescription("Search the house knowledge base (FAQ, services, policies) for relevant entries."),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 4)")),
		),
		mcpSearchKnowledge(deps),
	)

	return s
}

func mcpLookupOrder(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("order_id")
		if err != nil {
			return mcpError("order_id is required"), nil
		}

		o, err := deps.Orders.Get(ctx, id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				return mcpError(fmt.Sprintf("order %s not found", id)), nil
			}
			return mcpError(fmt.Sprintf("lookup failed: %v", err)), nil
		}

		result := map[string]any{
			"orderId":           o.ID,
			"createdAt":         o.CreatedAt.Format(time.RFC3339),
			"status":            o.Status,
			"itemCount":         len(o.Items),
			"displayedSubtotal": o.DisplayedSubtotal,
			"proofCount":        len(o.Proof.URLs),
		}
		if o.RejectReason != "" {
			result["rejectReason"] = o.RejectReason
		}
		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchKnowledge(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		limit := req.GetInt("limit", 4)
		if limit <= 0 {
			limit = 4
		}
		if limit > 20 {
			limit = 20
		}

		matches := deps.Corpus.Search(query, limit)
		if len(matches) == 0 {
			return mcpText("[]"), nil
		}

		type matchResult struct {
			ID      string  `json:"id"`
			Section string  `json:"section"`
			Text    string  `json:"text"`
			Score   float64 `json:"score"`
		}
		results := make([]matchResult, len(matches))
		for i, m := range matches {
			results[i] = matchResult{
				ID:      m.Entry.ID,
				Section: m.Entry.Section,
				Text:    m.Entry.Text,
				Score:   m.Score,
			}
		}

		b, err := json.Marshal(results)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
