package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wanderingrag/internal/config"
	"wanderingrag/internal/logger"
	"wanderingrag/internal/source/markdown"
)

func newMdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md",
		Short: "Index local Markdown folders",
	}
	cmd.AddCommand(newMdIndexCmd())
	cmd.AddCommand(newMdWatchCmd())
	return cmd
}

func newMdIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index every Markdown file under the configured folders",
		Long: `Walks the folders listed in MARKDOWN_FOLDERS and indexes each .md file.
Files whose content is unchanged since the last run are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithRunID(cmd.Context())

			deps, err := bootstrap(ctx, (*config.Config).ValidateMarkdown)
			if err != nil {
				return err
			}
			defer deps.Close()

			reader := markdown.NewReader(deps.Config.MarkdownFolders)
			report, err := deps.MarkdownPipeline().Run(ctx, reader)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}
}

func newMdWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the configured folders and index changes as they happen",
		Long: `Runs a full index pass, then keeps watching the folders. Edited and
created files are re-indexed; deleted files are removed from the
collection. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithRunID(cmd.Context())

			deps, err := bootstrap(ctx, (*config.Config).ValidateMarkdown)
			if err != nil {
				return err
			}
			defer deps.Close()

			reader := markdown.NewReader(deps.Config.MarkdownFolders)
			pipeline := deps.MarkdownPipeline()

			report, err := pipeline.Run(ctx, reader)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())

			watcher := markdown.NewWatcher(reader, pipeline, deps.Store)
			return watcher.Run(ctx)
		},
	}
}
