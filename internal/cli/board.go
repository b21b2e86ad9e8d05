package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

// shortIDLen is the length of IDs in list output. Every command accepts
// ID prefixes.
const shortIDLen = 8

// shortID truncates an ID for display.
func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// newBoardCommand creates the board command for displaying the board.
func newBoardCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Column string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board",
		Long: `Display every column with its tasks in order.

Output is one section per column with tab-separated rows:
  ID, PRIORITY, STATUS, SUBTASKS, TAGS, TITLE

Examples:
  # Show the whole board
  taskboard board

  # Show one column
  taskboard board --column "In Progress"

  # Machine-readable output
  taskboard board --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowBoardUseCase().Execute(cmd.Context(), usecase.ShowBoardInput{
				Column: opts.Column,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				type columnJSON struct {
					domain.Column
					Tasks []domain.Task `json:"tasks"`
				}
				cols := make([]columnJSON, len(out.Columns))
				for i, ct := range out.Columns {
					cols[i] = columnJSON{Column: ct.Column, Tasks: ct.Tasks}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"columns": cols, "tags": out.Board.Tags})
			}

			w := cmd.OutOrStdout()
			for i, ct := range out.Columns {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				_, _ = fmt.Fprintf(w, "## %s (%d)\n", ct.Column.Title, len(ct.Tasks))
				printTaskRows(w, out.Board, ct.Tasks)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Column, "column", "c", "", "Show only this column (ID, title or ID prefix)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

// printTaskRows prints tasks in TSV format.
func printTaskRows(w io.Writer, board domain.Board, tasks []domain.Task) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "(no tasks)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tPRIORITY\tSTATUS\tSUBTASKS\tTAGS\tTITLE")
	for _, task := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			task.Priority,
			task.Status,
			subtaskProgress(task),
			formatTags(board.TagNames(task)),
			task.Title,
		)
	}
}

// subtaskProgress returns "done/total", or "-" without subtasks.
func subtaskProgress(t domain.Task) string {
	if len(t.Subtasks) == 0 {
		return "-"
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}

func formatTags(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return "[" + strings.Join(names, ",") + "]"
}

// printTaskDetails prints a task with its nested records.
func printTaskDetails(w io.Writer, out *usecase.ShowTaskOutput) {
	task := out.Task

	// Header
	_, _ = fmt.Fprintf(w, "# %s\n\n", task.Title)

	// Description
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	// Fields
	_, _ = fmt.Fprintf(w, "ID: %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Column: %s\n", out.Column.Title)
	_, _ = fmt.Fprintf(w, "Status: %s\n", task.Status)
	_, _ = fmt.Fprintf(w, "Priority: %s\n", task.Priority)
	if len(out.TagNames) > 0 {
		_, _ = fmt.Fprintf(w, "Tags: [%s]\n", strings.Join(out.TagNames, ", "))
	} else {
		_, _ = fmt.Fprintln(w, "Tags: none")
	}
	_, _ = fmt.Fprintf(w, "Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}

	if len(task.Subtasks) > 0 {
		_, _ = fmt.Fprintf(w, "\nSubtasks (%s):\n", subtaskProgress(task))
		for _, s := range task.Subtasks {
			mark := " "
			if s.Completed {
				mark = "x"
			}
			_, _ = fmt.Fprintf(w, "  [%s] %s  (%s)\n", mark, s.Title, shortID(s.ID))
		}
	}

	if len(task.Notes) > 0 {
		_, _ = fmt.Fprintln(w, "\nNotes:")
		separator := "  ─────────────────"
		for _, n := range task.Notes {
			_, _ = fmt.Fprintln(w, separator)
			_, _ = fmt.Fprintf(w, "  [%s] %s\n", n.CreatedAt.Format(time.RFC3339), shortID(n.ID))
			for _, line := range strings.Split(strings.TrimSpace(n.Content), "\n") {
				_, _ = fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}

	if len(task.Attachments) > 0 {
		_, _ = fmt.Fprintln(w, "\nAttachments:")
		for _, a := range task.Attachments {
			target := a.URL
			if a.Type != domain.AttachmentLink {
				target = fmt.Sprintf("%s, %d bytes", a.MimeType, a.Size)
			}
			_, _ = fmt.Fprintf(w, "  %s [%s] %s (%s)\n", shortID(a.ID), a.Type, a.Name, target)
		}
	}
}
