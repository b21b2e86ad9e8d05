package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/search"
	"github.com/runoshun/taskboard/internal/tui"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newSearchCommand creates the search command.
func newSearchCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Limit       int
		Interactive bool
		JSON        bool
	}

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Fuzzy search tasks",
		Long: `Rank tasks against a free-text query.

Titles, descriptions, tags, subtasks, notes, attachments, status and priority
are matched case-insensitively by substring, prefix, token, edit distance and
acronym. Results are ordered by weighted score; matches are highlighted.

--limit defaults to [search] limit from the configuration; a negative limit
shows every match.

Examples:
  taskboard search login bug
  taskboard search --limit 5 fxi       # typo-tolerant
  taskboard search -i                  # interactive search`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			limit := opts.Limit
			if !cmd.Flags().Changed("limit") {
				limit = c.AppConfig.Search.Limit
			}

			if opts.Interactive {
				return launchSearchFunc(c.SearchTasksUseCase(), limit, query)
			}

			out, err := c.SearchTasksUseCase().Execute(cmd.Context(), usecase.SearchTasksInput{
				Query: query,
				Limit: limit,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"total": out.Total, "results": out.Hits})
			}

			printSearchHits(cmd, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().BoolVarP(&opts.Interactive, "interactive", "i", false, "Open the interactive search")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printSearchHits prints ranked hits with highlighted matches. Styles are
// bound to the command output so that pipes get plain text.
func printSearchHits(cmd *cobra.Command, out *usecase.SearchTasksOutput) {
	w := cmd.OutOrStdout()
	if len(out.Hits) == 0 {
		_, _ = fmt.Fprintln(w, "No matching tasks")
		return
	}

	r := lipgloss.NewRenderer(w)
	plain := r.NewStyle()
	match := r.NewStyle().Bold(true).Foreground(tui.Colors.Highlight)
	muted := r.NewStyle().Foreground(tui.Colors.Muted)

	for i, hit := range out.Hits {
		title := plain.Render(hit.Task.Title)
		for _, fm := range hit.Matches {
			if fm.Field == search.FieldTitle {
				title = tui.RenderSegments(search.Segments(fm.Value, fm.Ranges), plain, match)
				break
			}
		}
		_, _ = fmt.Fprintf(w, "%2d. %s  %s\n", i+1, title,
			muted.Render(fmt.Sprintf("[%s] %s %s score=%d", hit.ColumnTitle, shortID(hit.TaskID), hit.Task.Status, hit.Score)))

		if hit.Best.Field != search.FieldTitle && hit.Preview != "" {
			_, _ = fmt.Fprintf(w, "    %s: %s\n", hit.Best.Field, muted.Render(hit.Preview))
		}
	}

	if out.Total > len(out.Hits) {
		_, _ = fmt.Fprintf(w, "\nShowing %d of %d matches (use --limit to see more)\n", len(out.Hits), out.Total)
	}
}
