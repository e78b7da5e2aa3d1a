// Package main is the entry point for the zanist HTTP server.
// In Go, the `main` package with a `main()` function is what gets
// executed. Go compiles to a single static binary — no runtime needed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/config"
	"github.com/rebeen/zanist/internal/llm"
	"github.com/rebeen/zanist/internal/server"
	"github.com/rebeen/zanist/internal/service"
	"github.com/rebeen/zanist/internal/storage"
)

func main() {
	// os.Exit ensures the process exits with a non-zero code on failure.
	// We call run() separately so deferred cleanup functions execute
	// properly (deferred functions don't run when os.Exit is called
	// directly).
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("ZANIST_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging with zap.
	// zap is a high-performance structured logger — it outputs JSON in
	// production and human-readable format in development.
	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync flushes buffered log entries. We intentionally ignore the
	// error because Sync commonly fails on stdout/stderr (not a real
	// problem).
	defer func() { _ = logger.Sync() }()

	// Open the provider-call audit database.
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	calls := storage.NewProviderCallRepository(db)

	// Build the provider clients. A missing API key is not an error:
	// the client stays nil and the pipeline treats that provider as
	// permanently unavailable. Only both missing makes every request
	// fail, and even that is a per-request 502, not a startup crash.
	openaiClient, anthropicClient := buildClients(cfg, logger)

	svc := service.NewAnalysisService(
		openaiClient,
		anthropicClient,
		refineClient(cfg, openaiClient, anthropicClient),
		cfg.LLM.RatePerMinute,
		calls,
		logger,
	)

	// Create and start the HTTP server
	srv := server.New(cfg, server.Deps{Analysis: svc, Calls: calls}, logger)

	// Graceful shutdown: listen for SIGINT (Ctrl+C) or SIGTERM (docker
	// stop). Channels are Go's primary concurrency primitive —
	// goroutines communicate through channels instead of sharing memory.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine (lightweight thread managed by the Go
	// runtime). The `go` keyword spawns a goroutine.
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Block until we receive a signal or the server errors out.
	// select is like a switch for channels — it waits until one is ready.
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// buildClients constructs whichever provider clients have credentials.
// Interface-typed nils matter here: we only assign through a concrete
// constructor when the key exists, so a nil stays a true nil interface.
func buildClients(cfg *config.Config, logger *zap.Logger) (llm.Client, llm.Client) {
	var openaiClient, anthropicClient llm.Client

	if cfg.LLM.OpenAI.APIKey != "" {
		openaiClient = llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model)
		logger.Info("openai provider configured", zap.String("model", cfg.LLM.OpenAI.Model))
	} else {
		logger.Warn("openai provider unavailable: no API key configured")
	}

	if cfg.LLM.Anthropic.APIKey != "" {
		anthropicClient = llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model)
		logger.Info("anthropic provider configured", zap.String("model", cfg.LLM.Anthropic.Model))
	} else {
		logger.Warn("anthropic provider unavailable: no API key configured")
	}

	return openaiClient, anthropicClient
}

// refineClient picks which backend polishes merged chat answers: the
// configured preference when available, else whichever one exists.
func refineClient(cfg *config.Config, openaiClient, anthropicClient llm.Client) llm.Client {
	preferred, fallback := openaiClient, anthropicClient
	if cfg.LLM.RefineProvider == "anthropic" {
		preferred, fallback = anthropicClient, openaiClient
	}
	if preferred != nil {
		return preferred
	}
	return fallback
}
