package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adaora/maison/internal/api"
	"github.com/adaora/maison/internal/blob"
	"github.com/adaora/maison/internal/composer"
	"github.com/adaora/maison/internal/config"
	"github.com/adaora/maison/internal/knowledge"
	"github.com/adaora/maison/internal/order"
	"github.com/adaora/maison/internal/proxy"
	"github.com/adaora/maison/internal/session"
	"github.com/adaora/maison/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the maison server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "maison version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the knowledge corpus, merging any operator-supplied documents
	// over the built-in set.
	corpus, err := buildCorpus(cfg.Knowledge.DocsDir)
	if err != nil {
		return err
	}
	slog.Info("knowledge corpus ready", "entries", corpus.Len())

	// Blob storage for payment proofs. The fs backend also gets a file
	// server mounted under /uploads so stored proofs stay reachable.
	blobs, uploads, err := buildBlobStore(ctx, cfg)
	if err != nil {
		return err
	}

	orders := order.NewService(store)
	guard := session.NewGuard(cfg.Admin.Password, cfg.Admin.SessionSecret)
	chatClient := proxy.NewClient(cfg.Chat.OpenRouterAPIKey)
	if !chatClient.Configured() {
		slog.Warn("OpenRouter API key not set, chat assistant will answer with the fallback message")
	}

	handler := api.NewHandler(api.Deps{
		Orders:          orders,
		Guard:           guard,
		Corpus:          corpus,
		Chat:            chatClient,
		Composer:        composer.New(cfg.Chat.Model),
		Blobs:           blobs,
		ConciergeNumber: cfg.Contact.WhatsAppNumber,
		DevMode:         cfg.Server.DevMode,
		Uploads:         uploads,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("maison listening", "addr", addr, "public_url", cfg.Server.PublicURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildCorpus(docsDir string) (*knowledge.Corpus, error) {
	var extra []knowledge.Document
	if docsDir != "" {
		var err error
		extra, err = knowledge.LoadDir(docsDir)
		if err != nil {
			return nil, fmt.Errorf("loading knowledge documents: %w", err)
		}
		slog.Info("loaded knowledge documents", "dir", docsDir, "count", len(extra))
	}
	return knowledge.Init(extra...), nil
}

func buildBlobStore(ctx context.Context, cfg config.Config) (blob.Store, http.Handler, error) {
	switch cfg.Blob.Backend {
	case "s3":
		store, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:   cfg.Blob.S3Bucket,
			Region:   cfg.Blob.S3Region,
			Endpoint: cfg.Blob.S3Endpoint,
			Prefix:   cfg.Blob.S3Prefix,
			BaseURL:  cfg.Blob.S3BaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configuring s3 blob store: %w", err)
		}
		return store, nil, nil
	default:
		root := filepath.Join(cfg.Storage.DataDir, "uploads")
		store := blob.NewFSStore(root, cfg.Server.PublicURL+"/uploads")
		return store, http.FileServer(http.Dir(root)), nil
	}
}
