package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/adaora/maison/internal/api"
	"github.com/adaora/maison/internal/config"
	"github.com/adaora/maison/internal/knowledge"
	"github.com/adaora/maison/internal/order"
	"github.com/adaora/maison/internal/storage"
)

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve concierge tools over MCP (stdio transport)",
	Long: `Serve the concierge tools over the Model Context Protocol on
stdin/stdout, for use by agent hosts. Exposes order lookup and
knowledge search against the same data directory the server uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		corpus, err := buildCorpus(cfg.Knowledge.DocsDir)
		if err != nil {
			return err
		}

		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Orders: order.NewService(store),
			Corpus: corpus,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		stdioSrv := server.NewStdioServer(mcpSrv)
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge corpus",
	Long: `Search the knowledge corpus from the command line. Useful for
checking what the chat assistant would be grounded on for a given
question before it goes live.

Examples:
  maison search "do you ship to Abuja"
  maison search --docs ./docs "bespoke fitting"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docsDir, _ := cmd.Flags().GetString("docs")
		limit, _ := cmd.Flags().GetInt("limit")

		var extra []knowledge.Document
		if docsDir != "" {
			var err error
			extra, err = knowledge.LoadDir(docsDir)
			if err != nil {
				return fmt.Errorf("loading knowledge documents: %w", err)
			}
		}
		corpus := knowledge.Init(extra...)

		query := strings.Join(args, " ")
		matches := corpus.Search(query, limit)
		if len(matches) == 0 {
			printWarning("No matches for %q", query)
			return nil
		}

		for _, m := range matches {
			head := fmt.Sprintf("[%s] %s", m.Entry.Section, m.Entry.ID)
			fmt.Printf("%s  %.3f\n", colorize(colorBold, head), m.Score)
			fmt.Printf("  %s\n", excerpt(m.Entry.Text, 160))
		}
		return nil
	},
}

func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

func init() {
	searchCmd.Flags().String("docs", "", "directory of extra knowledge documents")
	searchCmd.Flags().Int("limit", 4, "maximum number of matches")
}
