package main

import (
	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/types"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage global tags",
}

func init() {
	tagCmd.AddCommand(tagCreateCmd, tagListCmd, tagDeleteCmd)
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag, assigning the next palette color",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := mgr.CreateTag(rootCtx, args[0])
		if err != nil {
			return err
		}
		renderTag(tag)
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := mgr.ListTags(rootCtx)
		if err != nil {
			return err
		}
		rows := make([][]string, len(tags))
		for i, t := range tags {
			rows[i] = []string{t.Name, t.Color}
		}
		printOutput([]string{"name", "color"}, rows, "tags", tags)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.DeleteTag(rootCtx, args[0])
		return err
	},
}

func renderTag(t *types.Tag) {
	printOutput([]string{"name", "color"}, [][]string{{t.Name, t.Color}}, "tag", t)
}
