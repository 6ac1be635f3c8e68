package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"wanderingrag/internal/app"
	"wanderingrag/internal/logger"
	"wanderingrag/internal/retrieval"
)

type searchOptions struct {
	limit        int
	threshold    float32
	thresholdSet bool
	format       string
}

// retrievalOptions maps the flags onto search options. The threshold is
// passed through whenever the flag was given, so an explicit zero still
// cuts off negative-similarity matches instead of falling back to the
// configured default.
func (o searchOptions) retrievalOptions() *retrieval.SearchOptions {
	searchOpts := &retrieval.SearchOptions{}
	if o.limit > 0 {
		searchOpts.Limit = &o.limit
	}
	if o.thresholdSet {
		searchOpts.Threshold = &o.threshold
	}
	return searchOpts
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("154"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	contentStyle = lipgloss.NewStyle().PaddingLeft(3)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
)

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the indexed notes",
		Long: `Searches the collection by semantic similarity. With a query argument it
prints the results and exits; without one it starts an interactive
prompt that keeps answering queries until EOF.

Examples:
  wandering-rag search "kubernetes ingress debugging"
  wandering-rag search "trip to kyoto" --limit 3
  wandering-rag search "meeting notes" --format json
  wandering-rag search`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithRunID(cmd.Context())
			opts.thresholdSet = cmd.Flags().Changed("threshold")

			deps, err := bootstrap(ctx, nil)
			if err != nil {
				return err
			}
			defer deps.Close()

			if len(args) > 0 {
				return runSearch(ctx, cmd.OutOrStdout(), deps, strings.Join(args, " "), opts)
			}
			return runInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), deps, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float32Var(&opts.threshold, "threshold", 0, "Minimum similarity score (default from config, negative disables the cutoff)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, out io.Writer, deps *app.Deps, query string, opts searchOptions) error {
	results, err := deps.Retrieval.Search(ctx, query, opts.retrievalOptions())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No results for %q\n", query)
		return nil
	}

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.DocID
		}
		fmt.Fprintf(out, "%s %s\n", titleStyle.Render(fmt.Sprintf("%d. %s", i+1, title)),
			scoreStyle.Render(fmt.Sprintf("(score: %.2f)", r.Score)))

		meta := fmt.Sprintf("%s · %s · chunk %d/%d", r.Source, r.DocID, r.ChunkIndex+1, r.TotalChunks)
		if r.DocURL != "" {
			meta += " · " + r.DocURL
		}
		fmt.Fprintln(out, contentStyle.Render(metaStyle.Render(meta)))

		fmt.Fprintln(out, contentStyle.Render(snippet(r.Content, 3)))
		fmt.Fprintln(out)
	}
	return nil
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer, deps *app.Deps, opts searchOptions) error {
	fmt.Fprintln(out, promptStyle.Render("wandering-rag interactive search, empty line or Ctrl-D to quit"))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, promptStyle.Render("query> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return nil
		}
		if err := runSearch(ctx, out, deps, query, opts); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// snippet returns the first n non-empty lines of a chunk.
func snippet(content string, n int) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == n {
			break
		}
	}
	return strings.Join(lines, "\n")
}
