// Package main provides the CLI tool for zanist.
// Uses Cobra for command parsing — Cobra is the standard Go CLI
// framework (used by kubectl, docker, hugo, and many others).
//
// Run with: go run ./cmd/cli ask "چۆنیت؟"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rebeen/zanist/internal/config"
	"github.com/rebeen/zanist/internal/llm"
	"github.com/rebeen/zanist/internal/model"
	"github.com/rebeen/zanist/internal/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootCmd creates the root command. Cobra builds a tree of commands:
// zanist-cli ask "question"
// zanist-cli analyze --file data.json
func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zanist-cli",
		Short: "Run the zanist reconciliation pipeline from the terminal",
	}

	root.AddCommand(askCmd())
	root.AddCommand(analyzeCmd())
	return root
}

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask both providers a question and print the merged answer",
		Args:  cobra.ExactArgs(1),
		// RunE returns an error (vs Run which doesn't). Cobra prints the
		// error automatically.
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, svc *service.AnalysisService) error {
				result, err := svc.Chat(ctx, model.ChatRequest{Message: args[0]})
				if err != nil {
					return err
				}
				fmt.Printf("%s\n\n(%d provider(s) contributed)\n", result.Message, result.Providers)
				return nil
			})
		},
	}
	return cmd
}

func analyzeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the structured analysis pipeline on a JSON request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading request file: %w", err)
			}

			var req model.AnalysisRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parsing request file: %w", err)
			}

			return withPipeline(func(ctx context.Context, svc *service.AnalysisService) error {
				result, err := svc.AnalyzeStructured(ctx, req)
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			})
		},
	}

	// Cobra flags: --file with no default (required)
	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON file with tables/texts/notes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// withPipeline wires the same pipeline the server uses, minus the audit
// database (one-off CLI calls aren't worth tracking), runs fn, and tears
// down cleanly on Ctrl+C.
func withPipeline(fn func(context.Context, *service.AnalysisService) error) error {
	cfg, err := config.Load(os.Getenv("ZANIST_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	var openaiClient, anthropicClient llm.Client
	if cfg.LLM.OpenAI.APIKey != "" {
		openaiClient = llm.NewOpenAIClient(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model)
	}
	if cfg.LLM.Anthropic.APIKey != "" {
		anthropicClient = llm.NewAnthropicClient(cfg.LLM.Anthropic.APIKey, cfg.LLM.Anthropic.Model)
	}

	refine := openaiClient
	if cfg.LLM.RefineProvider == "anthropic" && anthropicClient != nil {
		refine = anthropicClient
	}
	if refine == nil {
		refine = anthropicClient
	}

	svc := service.NewAnalysisService(
		openaiClient,
		anthropicClient,
		refine,
		cfg.LLM.RatePerMinute,
		nil,
		logger,
	)

	// signal.NotifyContext cancels the context on Ctrl+C so an
	// interrupted CLI call doesn't hang on a slow provider.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return fn(ctx, svc)
}
