package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/recovery"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the board to a file",
		Long: `Write the board to a gzip-compressed JSON export file.

Without a path, or with a directory, the file is named
taskboard-YYYY-MM-DD.json.gz. A file path gets the .json.gz extension if it
does not have it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			out, err := c.ExportBoardUseCase().Execute(cmd.Context(), usecase.ExportBoardInput{Path: path})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported board to %s (%d bytes)\n", out.Path, out.Bytes)
			return nil
		},
	}
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with an export file",
		Long: `Replace the whole board with the content of an export file.

The file is validated before anything is changed; a rejected file leaves the
board untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ImportBoardUseCase().Execute(cmd.Context(), usecase.ImportBoardInput{Path: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d column(s), %d task(s), %d tag(s)\n", out.Columns, out.Tasks, out.Tags)
			return nil
		},
	}
}

// newBackupCommand creates the backup command group. Without a subcommand
// it runs a backup.
func newBackupCommand(c *app.Container) *cobra.Command {
	runBackup := func(cmd *cobra.Command, _ []string) error {
		outcome, err := c.RunBackupUseCase().Execute(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, r := range outcome.Results {
			if r.OK() {
				_, _ = fmt.Fprintf(w, "%s: ok\n", r.Tier)
			} else {
				_, _ = fmt.Fprintf(w, "%s: failed: %v\n", r.Tier, r.Err)
			}
		}
		if !outcome.Success {
			return fmt.Errorf("backup failed on every tier")
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the board to every storage tier",
		Long: `Back up the board, compressed and checksummed, to the structured, flat and
tiny storage tiers. A tier that rejects the backup (for example because it is
over capacity) does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: runBackup,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run a backup (default)",
			Args:  cobra.NoArgs,
			RunE:  runBackup,
		},
		&cobra.Command{
			Use:         "status",
			Short:       "Show the backup held by each tier",
			Args:        cobra.NoArgs,
			Annotations: noBoard(),
			RunE: func(cmd *cobra.Command, _ []string) error {
				printTierStatus(cmd.OutOrStdout(), c.BackupStatusUseCase().Execute(cmd.Context()))
				return nil
			},
		},
		&cobra.Command{
			Use:         "clear",
			Short:       "Delete the backup from every tier",
			Args:        cobra.NoArgs,
			Annotations: noBoard(),
			RunE: func(cmd *cobra.Command, _ []string) error {
				c.ClearBackupsUseCase().Execute(cmd.Context())
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared backups")
				return nil
			},
		},
	)

	return cmd
}

// printTierStatus prints tier statuses in TSV format.
func printTierStatus(w io.Writer, statuses []recovery.TierStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "TIER\tPRESENT\tCHECKSUM\tVALID\tSIZE\tTIMESTAMP\tERROR")
	for _, st := range statuses {
		ts, errStr := "-", "-"
		if !st.Timestamp.IsZero() {
			ts = st.Timestamp.Format(time.RFC3339)
		}
		if st.Err != nil {
			errStr = st.Err.Error()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			st.Tier,
			yesNo(st.Present),
			yesNo(st.ChecksumOK),
			yesNo(st.Valid),
			st.Size,
			ts,
			errStr,
		)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// newRecoverCommand creates the recover command.
func newRecoverCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Replace the board with the newest valid backup",
		Long: `Replace the board with the newest backup that passes integrity checks.

Tiers are tried in order (structured, flat, tiny); a missing, corrupt or
checksum-mismatched backup is skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.RecoverBoardUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Recovered board from %s backup of %s: %d column(s), %d task(s), %d tag(s)\n",
				out.Source, out.Timestamp.Format(time.RFC3339), out.Summary.Columns, out.Summary.Tasks, out.Summary.Tags)
			return nil
		},
	}
}
