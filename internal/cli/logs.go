package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the application log",
		Long: `Show the application log from the data directory.

Storage failures never interrupt board commands; they are logged here.

Examples:
  taskboard logs
  taskboard logs -n 50`,
		Args:        cobra.NoArgs,
		Annotations: noBoard(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{Lines: lines})
			if errors.Is(err, domain.ErrNotFound) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No log file yet (%s)\n", domain.LogPath(c.Config.DataDir))
				return nil
			}
			if err != nil {
				return err
			}

			if out.Content != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to show from the end (default: all)")

	return cmd
}
