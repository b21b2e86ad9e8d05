package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newColumnCommand creates the column command group.
func newColumnCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"col"},
		Short:   "Manage columns",
	}

	cmd.AddCommand(
		newColumnLsCommand(c),
		&cobra.Command{
			Use:   "add <title>",
			Short: "Add a column at the right end",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				col, err := c.AddColumnUseCase().Execute(cmd.Context(), usecase.AddColumnInput{Title: args[0]})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created column %s: %s\n", shortID(col.ID), col.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename <column> <title>",
			Short: "Rename a column",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				col, err := c.RenameColumnUseCase().Execute(cmd.Context(), usecase.RenameColumnInput{
					Column: args[0],
					Title:  args[1],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed column %s to %s\n", shortID(col.ID), col.Title)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <column>",
			Short: "Delete a column and its tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.DeleteColumnUseCase().Execute(cmd.Context(), usecase.DeleteColumnInput{Column: args[0]})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted column %s and %d task(s)\n", out.Column.Title, out.DeletedTasks)
				return nil
			},
		},
		&cobra.Command{
			Use:   "order <column>...",
			Short: "Reorder columns",
			Long: `Set the left-to-right order of the columns. Every column must be listed.

Example:
  taskboard column order Done "In Progress" "To Do"`,
			Args: cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cols, err := c.OrderColumnsUseCase().Execute(cmd.Context(), usecase.OrderColumnsInput{Columns: args})
				if err != nil {
					return err
				}
				for _, col := range cols {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", col.Order+1, col.Title)
				}
				return nil
			},
		},
		newColumnSetCommand(c),
	)

	return cmd
}

// newColumnLsCommand creates the column ls subcommand.
func newColumnLsCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowBoardUseCase().Execute(cmd.Context(), usecase.ShowBoardInput{})
			if err != nil {
				return err
			}

			if jsonOutput {
				cols := make([]any, len(out.Columns))
				for i, ct := range out.Columns {
					cols[i] = map[string]any{"id": ct.Column.ID, "title": ct.Column.Title, "order": ct.Column.Order, "tasks": len(ct.Tasks)}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(cols)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tTASKS\tTITLE")
			for _, ct := range out.Columns {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\n", shortID(ct.Column.ID), len(ct.Tasks), ct.Column.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

// newColumnSetCommand creates the column set subcommand.
func newColumnSetCommand(c *app.Container) *cobra.Command {
	var status, priority string

	cmd := &cobra.Command{
		Use:   "set <column>",
		Short: "Set status or priority of every task in a column",
		Example: `  taskboard column set Done --status done
  taskboard column set "To Do" --priority low`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.SetColumnTasksInput{Column: args[0]}
			if cmd.Flags().Changed("status") {
				in.Status = &status
			}
			if cmd.Flags().Changed("priority") {
				in.Priority = &priority
			}

			n, err := c.SetColumnTasksUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %d task(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Status for every task")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority for every task")

	return cmd
}
