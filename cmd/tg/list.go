package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage task lists",
}

func init() {
	listCmd.AddCommand(listCreateCmd, listShowCmd, listAllCmd, listDeleteCmd,
		listArchiveCmd, listUnarchiveCmd, listLinkCmd, listUnlinkCmd, listTagCmd)

	listCreateCmd.Flags().String("type", string(types.ListTypeSequential), "list ordering discipline")
	listAllCmd.Flags().Int("limit", 0, "maximum number of lists to return (0 = unlimited)")
}

var listCreateCmd = &cobra.Command{
	Use:   "create <key> <title>",
	Short: "Create a new list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		listType, _ := cmd.Flags().GetString("type")
		list, err := mgr.CreateList(rootCtx, args[0], args[1], types.ListType(listType), nil, actor)
		if err != nil {
			return err
		}
		renderList(list)
		return nil
	},
}

var listShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mgr.GetList(rootCtx, args[0])
		if err != nil {
			return err
		}
		renderList(list)
		return nil
	},
}

var listAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every visible list",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		lists, err := mgr.ListLists(rootCtx, limit)
		if err != nil {
			return err
		}
		renderLists(lists)
		return nil
	},
}

var listDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a list and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.DeleteList(rootCtx, args[0], actor)
		return err
	},
}

var listArchiveCmd = &cobra.Command{
	Use:   "archive <key>",
	Short: "Archive a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mgr.ArchiveList(rootCtx, args[0], actor)
		if err != nil {
			return err
		}
		renderList(list)
		return nil
	},
}

var listUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <key>",
	Short: "Unarchive a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mgr.UnarchiveList(rootCtx, args[0], actor)
		if err != nil {
			return err
		}
		renderList(list)
		return nil
	},
}

var listLinkCmd = &cobra.Command{
	Use:   "link <key> <tag>",
	Short: "Attach a tag to a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.LinkTag(rootCtx, args[0], args[1], actor)
		return err
	},
}

var listUnlinkCmd = &cobra.Command{
	Use:   "unlink <key> <tag>",
	Short: "Detach a tag from a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.UnlinkTag(rootCtx, args[0], args[1], actor)
		return err
	},
}

var listTagCmd = &cobra.Command{
	Use:   "tag <key>",
	Short: "Show the tags attached to a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := mgr.GetList(rootCtx, args[0])
		if err != nil {
			return err
		}
		printOutput([]string{"tag"}, tagRows(list.Tags), "tags", list.Tags)
		return nil
	},
}

func tagRows(tags []string) [][]string {
	rows := make([][]string, len(tags))
	for i, t := range tags {
		rows[i] = []string{t}
	}
	return rows
}

func listHeaders() []string {
	return []string{"key", "title", "type", "status", "tags"}
}

func listRow(l *types.List) []string {
	return []string{l.ListKey, l.Title, string(l.ListType), string(l.Status), strings.Join(l.Tags, ",")}
}

func renderList(l *types.List) {
	printOutput(listHeaders(), [][]string{listRow(l)}, "list", l)
}

func renderLists(lists []*types.List) {
	rows := make([][]string, len(lists))
	for i, l := range lists {
		rows[i] = listRow(l)
	}
	printOutput(listHeaders(), rows, "lists", lists)
}

// itemStatusArg parses a CLI status argument, defaulting to an empty
// (unfiltered) value when blank.
func itemStatusArg(raw string) *types.ItemStatus {
	if raw == "" {
		return nil
	}
	s := types.ItemStatus(raw)
	return &s
}
