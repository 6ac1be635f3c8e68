package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wanderingrag/internal/config"
	"wanderingrag/internal/logger"
	"wanderingrag/internal/source/notion"
)

func newNotionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notion",
		Short: "Index Notion pages",
	}
	cmd.AddCommand(newNotionIndexCmd())
	return cmd
}

func newNotionIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Index every Notion page the integration token can see",
		Long: `Searches the Notion workspace for pages shared with the integration and
indexes their content. Pages whose content is unchanged since the last
run are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithRunID(cmd.Context())

			deps, err := bootstrap(ctx, (*config.Config).ValidateNotion)
			if err != nil {
				return err
			}
			defer deps.Close()

			reader := notion.NewReader(deps.Config.NotionToken)
			report, err := deps.NotionPipeline().Run(ctx, reader)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}
}
