package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newSubtaskCommand creates the task subtask command group.
func newSubtaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Manage the checklist of a task",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task> <title>",
			Short: "Add a subtask",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.AddTaskItemUseCase().Execute(cmd.Context(), usecase.AddTaskItemInput{
					TaskID: args[0],
					Kind:   usecase.ItemSubtask,
					Text:   args[1],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %s to task %s\n", shortID(out.ID), shortID(out.Task.ID))
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle <task> <subtask>",
			Short: "Check or uncheck a subtask",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				sub, err := c.ToggleSubtaskUseCase().Execute(cmd.Context(), usecase.TaskItemInput{
					TaskID: args[0],
					Kind:   usecase.ItemSubtask,
					Item:   args[1],
				})
				if err != nil {
					return err
				}
				state := "open"
				if sub.Completed {
					state = "done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Subtask %q is %s\n", sub.Title, state)
				return nil
			},
		},
		newItemRmCommand(c, usecase.ItemSubtask, "<task> <subtask>", "Delete a subtask"),
	)

	return cmd
}

// newNoteCommand creates the task note command group.
func newNoteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage the notes of a task",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task> <text>",
			Short: "Add a note",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := c.AddTaskItemUseCase().Execute(cmd.Context(), usecase.AddTaskItemInput{
					TaskID: args[0],
					Kind:   usecase.ItemNote,
					Text:   args[1],
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added note %s to task %s\n", shortID(out.ID), shortID(out.Task.ID))
				return nil
			},
		},
		newItemRmCommand(c, usecase.ItemNote, "<task> <note>", "Delete a note"),
	)

	return cmd
}

// newAttachCommand creates the task attach command group.
func newAttachCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Manage the attachments of a task",
		Long: `Attach links or local files to a task.

Files are embedded in the board as data URLs, so they travel with every
backup and export. Files larger than 1 MiB are rejected.`,
	}

	var linkName string
	linkCmd := &cobra.Command{
		Use:   "link <task> <url>",
		Short: "Attach a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddTaskItemUseCase().Execute(cmd.Context(), usecase.AddTaskItemInput{
				TaskID: args[0],
				Kind:   usecase.ItemAttachment,
				Text:   args[1],
				Name:   linkName,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Attached link %s to task %s\n", shortID(out.ID), shortID(out.Task.ID))
			return nil
		},
	}
	linkCmd.Flags().StringVar(&linkName, "name", "", "Display name (default: the URL)")

	var fileName string
	fileCmd := &cobra.Command{
		Use:   "file <task> <path>",
		Short: "Embed a local file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.AttachFileUseCase().Execute(cmd.Context(), usecase.AttachFileInput{
				TaskID: args[0],
				Path:   args[1],
				Name:   fileName,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Attached %s %q (%s, %d bytes)\n", a.Type, a.Name, a.MimeType, a.Size)
			return nil
		},
	}
	fileCmd.Flags().StringVar(&fileName, "name", "", "Display name (default: the file name)")

	cmd.AddCommand(
		linkCmd,
		fileCmd,
		newItemRmCommand(c, usecase.ItemAttachment, "<task> <attachment>", "Delete an attachment"),
	)

	return cmd
}

// newItemRmCommand creates the rm subcommand of a nested record kind.
func newItemRmCommand(c *app.Container, kind usecase.ItemKind, usage, short string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm " + usage,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.RemoveTaskItemUseCase().Execute(cmd.Context(), usecase.TaskItemInput{
				TaskID: args[0],
				Kind:   kind,
				Item:   args[1],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind, shortID(id))
			return nil
		},
	}
}
