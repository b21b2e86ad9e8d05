// Package cli provides the command-line interface for taskboard.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/tui"
)

// Command group IDs.
const (
	groupBoard = "board"
	groupData  = "data"
	groupSetup = "setup"
)

// annotationNoBoard marks commands that run without loading the board.
const annotationNoBoard = "taskboard/no-board"

// launchSearchFunc is a function variable for launching the interactive
// search, allowing it to be mocked in tests.
var launchSearchFunc = tui.Run

// NewRootCommand creates the root command for taskboard.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Local task board with multi-tier backup and fuzzy search",
		Long: `taskboard is a local task board (columns, tasks, tags).

Every change is written to the primary store and backed up, compressed and
checksummed, to three independent storage tiers. When the primary store is
lost, the board is recovered from the newest surviving backup.

Run without arguments to open the interactive search.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}

			if !needsBoard(cmd) {
				return nil
			}
			src := c.Open(cmd.Context())
			if src.IsRecovery() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Notice: primary store was empty or unreadable; board restored from %s\n", src)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if c == nil {
				return nil
			}
			return launchSearchFunc(c.SearchTasksUseCase(), c.AppConfig.Search.Limit, "")
		},
	}

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupBoard, Title: "Board Commands:"},
		&cobra.Group{ID: groupData, Title: "Data Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	// Board commands
	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupBoard

	columnCmd := newColumnCommand(c)
	columnCmd.GroupID = groupBoard

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupBoard

	tagCmd := newTagCommand(c)
	tagCmd.GroupID = groupBoard

	searchCmd := newSearchCommand(c)
	searchCmd.GroupID = groupBoard

	// Data commands
	exportCmd := newExportCommand(c)
	exportCmd.GroupID = groupData

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupData

	backupCmd := newBackupCommand(c)
	backupCmd.GroupID = groupData

	recoverCmd := newRecoverCommand(c)
	recoverCmd.GroupID = groupData

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupData

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	logsCmd := newLogsCommand(c)
	logsCmd.GroupID = groupSetup

	root.AddCommand(
		boardCmd,
		columnCmd,
		taskCmd,
		tagCmd,
		searchCmd,
		exportCmd,
		importCmd,
		backupCmd,
		recoverCmd,
		serveCmd,
		configCmd,
		logsCmd,
	)

	return root
}

// needsBoard reports whether cmd or one of its parents requires the loaded
// board. Help and completion never do.
func needsBoard(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if _, ok := p.Annotations[annotationNoBoard]; ok {
			return false
		}
		if p.Name() == "help" || p.Name() == cobra.ShellCompRequestCmd || p.Name() == "completion" {
			return false
		}
	}
	return true
}

// noBoard returns the annotations of a command that runs without the board.
func noBoard() map[string]string {
	return map[string]string{annotationNoBoard: "true"}
}
