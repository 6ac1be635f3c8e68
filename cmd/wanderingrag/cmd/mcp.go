package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wanderingrag/internal/logger"
	"wanderingrag/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server",
	}
	cmd.AddCommand(newMCPRunServerCmd())
	return cmd
}

func newMCPRunServerCmd() *cobra.Command {
	var transport string
	var addr string

	cmd := &cobra.Command{
		Use:   "run-server",
		Short: "Serve qdrant-find and qdrant-store to MCP clients",
		Long: `Starts the MCP server. The stdio transport is for clients that spawn the
server themselves; the http transport listens on --addr for streamable
HTTP connections.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithRunID(cmd.Context())

			deps, err := bootstrap(ctx, nil)
			if err != nil {
				return err
			}
			defer deps.Close()

			server, err := mcp.NewServer(deps.Retrieval, deps.Embedder, deps.Store, mcp.Options{
				QueryLimit: deps.Config.MCPQueryLimit,
				Threshold:  deps.Config.SearchThreshold,
			})
			if err != nil {
				return err
			}

			switch transport {
			case "stdio":
				slog.InfoContext(ctx, "mcp server starting", "transport", "stdio")
				return server.Run(ctx)
			case "http":
				if addr == "" {
					addr = deps.Config.MCPHTTPAddr
				}
				slog.InfoContext(ctx, "mcp server starting", "transport", "http", "addr", addr)
				return server.RunHTTP(ctx, addr)
			default:
				return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
			}
		},
	}

	cmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "Transport: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address for the http transport")

	return cmd
}
