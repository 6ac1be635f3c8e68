// Package cmd provides the CLI commands for wandering-rag.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wanderingrag/internal/app"
	"wanderingrag/internal/config"
	"wanderingrag/internal/logger"
)

const Version = "0.1.0"

var debugMode bool

// NewRootCmd creates the root command for the wandering-rag CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wandering-rag",
		Short: "Personal RAG over Markdown notes and Notion pages",
		Long: `wandering-rag indexes your Markdown folders and Notion workspace into a
Qdrant collection and makes them searchable, either directly from the
command line or through an MCP server your AI assistant can call.

Re-running an index command only re-embeds documents whose content
actually changed.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("wandering-rag version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logger.Setup(debugMode)
	}

	cmd.AddCommand(newMdCmd())
	cmd.AddCommand(newNotionCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// bootstrap loads configuration and wires the shared dependencies. validate
// runs config checks specific to the calling command before anything
// connects out.
func bootstrap(ctx context.Context, validate func(*config.Config) error) (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return app.Bootstrap(ctx, cfg)
}
