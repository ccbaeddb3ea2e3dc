package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/types"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items within a list",
}

func init() {
	itemCmd.AddCommand(itemAddCmd, itemStatusCmd, itemNextCmd, itemEditCmd, itemMoveCmd, itemDeleteCmd,
		itemTreeCmd, itemSubtasksCmd, itemFindCmd, itemFindStatusCmd, itemStateCmd, itemReorderCmd)

	itemAddCmd.Flags().String("parent", "", "parent item key")
	itemReorderCmd.Flags().String("parent", "", "parent item key (omit for root-level items)")
	itemNextCmd.Flags().Bool("simple", false, "use the simple (non-hierarchy-aware) selection algorithm")
	itemTreeCmd.Flags().String("status", "", "filter by status")
	itemSubtasksCmd.Flags().Int("limit", 0, "maximum groups to return")
	itemFindCmd.Flags().Int("limit", 0, "maximum items to return")

	itemStateCmd.AddCommand(itemStateListCmd, itemStateClearCmd, itemStateRemoveCmd)
}

var itemAddCmd = &cobra.Command{
	Use:   "add <list> <item-key> <content>",
	Short: "Add an item to a list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")
		var parentPtr *string
		if parent != "" {
			parentPtr = &parent
		}
		item, err := mgr.AddItem(rootCtx, args[0], args[1], args[2], parentPtr, nil, actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

var itemStatusCmd = &cobra.Command{
	Use:   "status <list> <item-key> <status>",
	Short: "Set an item's status (pending|in_progress|completed|failed)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := mgr.SetItemStatus(rootCtx, args[0], args[1], types.ItemStatus(args[2]), actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

var itemNextCmd = &cobra.Command{
	Use:   "next <list>",
	Short: "Show the next actionable pending item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simple, _ := cmd.Flags().GetBool("simple")
		item, err := mgr.NextPending(rootCtx, args[0], simple)
		if err != nil {
			return err
		}
		if item == nil {
			printOutput(itemHeaders(), nil, "item", nil)
			return nil
		}
		renderItem(item)
		return nil
	},
}

var itemEditCmd = &cobra.Command{
	Use:   "edit <list> <item-key> <content>",
	Short: "Edit an item's content",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := mgr.EditItemContent(rootCtx, args[0], args[1], args[2], actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

var itemMoveCmd = &cobra.Command{
	Use:   "move <list> <item-key> <new-parent-key>",
	Short: "Move an item to be a child of a different item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := mgr.MoveItem(rootCtx, args[0], args[1], args[2], actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

var itemReorderCmd = &cobra.Command{
	Use:   "reorder <list> <item-key>...",
	Short: "Reassign sibling positions in the given order",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")
		var parentPtr *string
		if parent != "" {
			parentPtr = &parent
		}
		return mgr.Reorder(rootCtx, args[0], parentPtr, args[1:])
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <list> <item-key>",
	Short: "Delete a leaf item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.DeleteItem(rootCtx, args[0], args[1], actor)
		return err
	},
}

var itemTreeCmd = &cobra.Command{
	Use:   "tree <list>",
	Short: "Show every item of a list in hierarchical order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		items, err := mgr.ListItems(rootCtx, args[0], itemStatusArg(status), 0)
		if err != nil {
			return err
		}
		renderItems(items)
		return nil
	},
}

var itemSubtasksCmd = &cobra.Command{
	Use:   "subtasks <list> <key=status,...>",
	Short: "Find parents whose named children all match given statuses (key=status,...)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		conditions, err := parseConditions(args[1])
		if err != nil {
			return err
		}
		groups, err := mgr.FindSubitemsByStatus(rootCtx, args[0], conditions, limit)
		if err != nil {
			return err
		}
		renderSubitemGroups(groups)
		return nil
	},
}

var itemFindCmd = &cobra.Command{
	Use:   "find <list> <property-key> <property-value>",
	Short: "Find items by an exact property match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		items, err := mgr.FindItemsByProperty(rootCtx, args[0], args[1], args[2], limit)
		if err != nil {
			return err
		}
		renderItems(items)
		return nil
	},
}

var itemFindStatusCmd = &cobra.Command{
	Use:   "find-status <list> <status>",
	Short: "Find items in a list by status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := types.ItemStatus(args[1])
		items, err := mgr.ListItems(rootCtx, args[0], &status, 0)
		if err != nil {
			return err
		}
		renderItems(items)
		return nil
	},
}

var itemStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Manage an item's multi-state completion map",
}

var itemStateListCmd = &cobra.Command{
	Use:   "list <list> <item-key>",
	Short: "List completion-state entries",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		states, err := mgr.CompletionStates(rootCtx, args[0], args[1])
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(states))
		for k, v := range states {
			rows = append(rows, []string{k, toDisplay(v)})
		}
		printOutput([]string{"key", "value"}, rows, "states", states)
		return nil
	},
}

var itemStateClearCmd = &cobra.Command{
	Use:   "clear <list> <item-key>",
	Short: "Clear all completion-state entries",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := mgr.ClearCompletionStates(rootCtx, args[0], args[1], actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

var itemStateRemoveCmd = &cobra.Command{
	Use:   "remove <list> <item-key> <state-key>",
	Short: "Remove one completion-state entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := mgr.RemoveCompletionState(rootCtx, args[0], args[1], args[2], actor)
		if err != nil {
			return err
		}
		renderItem(item)
		return nil
	},
}

func itemHeaders() []string {
	return []string{"key", "content", "status", "position", "parent"}
}

func itemRow(it *types.Item) []string {
	parent := ""
	if it.ParentItemID != nil {
		parent = toDisplay(*it.ParentItemID)
	}
	return []string{it.ItemKey, it.Content, string(it.Status), toDisplay(it.Position), parent}
}

func renderItem(it *types.Item) {
	printOutput(itemHeaders(), [][]string{itemRow(it)}, "item", it)
}

func renderItems(items []*types.Item) {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = itemRow(it)
	}
	printOutput(itemHeaders(), rows, "items", items)
}

func renderSubitemGroups(groups []manager.SubitemGroup) {
	var rows [][]string
	for _, g := range groups {
		for _, s := range g.MatchingSubitems {
			rows = append(rows, []string{g.Parent.ItemKey, s.ItemKey, string(s.Status)})
		}
	}
	printOutput([]string{"parent", "child", "status"}, rows, "groups", groups)
}

// parseConditions turns "key=status,key2=status2" into a status map.
func parseConditions(raw string) (map[string]types.ItemStatus, error) {
	out := map[string]types.ItemStatus{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[parts[0]] = types.ItemStatus(parts[1])
	}
	return out, nil
}

func toDisplay(v any) string {
	return fmt.Sprintf("%v", v)
}
