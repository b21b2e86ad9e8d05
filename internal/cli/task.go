package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long: `Create, edit, move and delete tasks and their subtasks, notes and attachments.

Tasks, columns, tags and nested records are referenced by ID, unique ID prefix,
or title/name where they have one.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(
		newTaskAddCommand(c),
		newTaskEditCommand(c),
		newTaskRmCommand(c),
		newTaskMvCommand(c),
		newTaskShowCommand(c),
		newSubtaskCommand(c),
		newNoteCommand(c),
		newAttachCommand(c),
	)

	return cmd
}

// newTaskAddCommand creates the task add subcommand.
func newTaskAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Column      string
		Description string
		Priority    string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Long: `Create a new task at the end of a column.

The task is created with status 'not-started' and priority 'medium' unless
--priority is given. Without --column the task goes to the first column.

Examples:
  # Create a task in the first column
  taskboard task add "Fix login bug"

  # Create a task with description, priority and tags
  taskboard task add "Fix login bug" --desc "Safari only" --priority high --tag Bug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Column:      opts.Column,
				Title:       args[0],
				Description: opts.Description,
				Priority:    opts.Priority,
				Tags:        opts.Tags,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s in %s\n", shortID(out.Task.ID), out.Column.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Column, "column", "c", "", "Target column (default: first column)")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "Task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority: urgent, high, medium, low")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Tag ID or name (can specify multiple)")

	return cmd
}

// newTaskEditCommand creates the task edit subcommand.
func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Status      string
		Priority    string
		AddTags     []string
		RemoveTags  []string
	}

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Edit a task",
		Long: `Edit the fields of a task. Only flags that are given are changed.

Setting status 'done' records the completion time; leaving 'done' clears it.

Examples:
  taskboard task edit 3f2a --title "New title"
  taskboard task edit 3f2a --status in-progress --priority urgent
  taskboard task edit 3f2a --add-tag Bug --rm-tag Feature`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.EditTaskInput{
				TaskID:     args[0],
				AddTags:    opts.AddTags,
				RemoveTags: opts.RemoveTags,
			}
			if cmd.Flags().Changed("title") {
				in.Title = &opts.Title
			}
			if cmd.Flags().Changed("desc") {
				in.Description = &opts.Description
			}
			if cmd.Flags().Changed("status") {
				in.Status = &opts.Status
			}
			if cmd.Flags().Changed("priority") {
				in.Priority = &opts.Priority
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(out.Task.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "New description")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "New status: not-started, in-progress, paused, done")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority: urgent, high, medium, low")
	cmd.Flags().StringArrayVar(&opts.AddTags, "add-tag", nil, "Tag to add (can specify multiple)")
	cmd.Flags().StringArrayVar(&opts.RemoveTags, "rm-tag", nil, "Tag to remove (can specify multiple)")

	return cmd
}

// newTaskRmCommand creates the task rm subcommand.
func newTaskRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", shortID(out.Task.ID), out.Task.Title)
			return nil
		},
	}
}

// newTaskMvCommand creates the task mv subcommand.
func newTaskMvCommand(c *app.Container) *cobra.Command {
	var position int

	cmd := &cobra.Command{
		Use:   "mv <task> <column>",
		Short: "Move a task to a column",
		Long: `Move a task to a column, at the end or at a zero-based position.

Examples:
  # Move to the end of "Done"
  taskboard task mv 3f2a Done

  # Move to the top of "In Progress"
  taskboard task mv 3f2a "In Progress" --position 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.MoveTaskInput{TaskID: args[0], Column: args[1]}
			if cmd.Flags().Changed("position") {
				if position < 0 {
					return fmt.Errorf("position must not be negative: %d", position)
				}
				in.Position = &position
			}

			out, err := c.MoveTaskUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", shortID(out.Task.ID), out.Column.Title)
			return nil
		},
	}

	cmd.Flags().IntVar(&position, "position", 0, "Zero-based position in the target column (default: end)")

	return cmd
}

// newTaskShowCommand creates the task show subcommand.
func newTaskShowCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"task":   out.Task,
					"column": out.Column,
					"tags":   out.TagNames,
				})
			}

			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
