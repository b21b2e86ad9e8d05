package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newTagCommand creates the tag command group.
func newTagCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
		Long: `Manage the colored tags tasks can carry.

Colors: ` + strings.Join(domain.TagColors(), ", "),
	}

	var color string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := c.AddTagUseCase().Execute(cmd.Context(), usecase.AddTagInput{Name: args[0], Color: color})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", tag.Name, tag.Color)
			return nil
		},
	}
	addCmd.Flags().StringVar(&color, "color", "", "Tag color (default: gray)")

	var editOpts struct {
		Name  string
		Color string
	}
	editCmd := &cobra.Command{
		Use:   "edit <tag>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.EditTagInput{Tag: args[0]}
			if cmd.Flags().Changed("name") {
				in.Name = &editOpts.Name
			}
			if cmd.Flags().Changed("color") {
				in.Color = &editOpts.Color
			}
			tag, err := c.EditTagUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated tag %s (%s)\n", tag.Name, tag.Color)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editOpts.Name, "name", "", "New name")
	editCmd.Flags().StringVar(&editOpts.Color, "color", "", "New color")

	rmCmd := &cobra.Command{
		Use:   "rm <tag>",
		Short: "Delete a tag and remove it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := c.DeleteTagUseCase().Execute(cmd.Context(), usecase.DeleteTagInput{Tag: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", tag.Name)
			return nil
		},
	}

	cmd.AddCommand(newTagLsCommand(c), addCmd, editCmd, rmCmd)

	return cmd
}

// newTagLsCommand creates the tag ls subcommand.
func newTagLsCommand(c *app.Container) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tags with usage counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			usage, err := c.ListTagsUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				type tagJSON struct {
					domain.Tag
					Tasks int `json:"tasks"`
				}
				tags := make([]tagJSON, len(usage))
				for i, u := range usage {
					tags[i] = tagJSON{Tag: u.Tag, Tasks: u.Tasks}
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(tags)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tCOLOR\tTASKS\tNAME")
			for _, u := range usage {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", shortID(u.Tag.ID), u.Tag.Color, u.Tasks, u.Tag.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
