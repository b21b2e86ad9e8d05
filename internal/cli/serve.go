package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/server"
)

// newServeCommand creates the serve command.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over a local JSON HTTP API",
		Long: `Serve the board over a JSON HTTP API for a local UI.

While serving, the board is also backed up on the [backup] schedule
(cron syntax, default "@every 5m"). An empty schedule disables it.
Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.AppConfig.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if spec := c.AppConfig.Backup.Schedule; spec != "" {
				sched := c.NewScheduler()
				if _, err := sched.ScheduleBackup(spec, c.Store); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backing up on schedule %q\n", spec)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving board on http://%s\n", addr)
			return server.New(c).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: [server] addr)")

	return cmd
}
