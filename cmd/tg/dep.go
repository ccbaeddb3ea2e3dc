package main

import (
	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/types"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage cross-item dependencies",
}

func init() {
	depCmd.AddCommand(depAddCmd, depRemoveCmd, depShowCmd, depGraphCmd)
	depAddCmd.Flags().String("type", string(types.DependencyRequires), "dependency type: blocks|requires|related")
}

func parseRef(listKey, itemKey string) manager.ItemRef {
	return manager.ItemRef{ListKey: listKey, ItemKey: itemKey}
}

var depAddCmd = &cobra.Command{
	Use:   "add <list> <item> <required-list> <required-item>",
	Short: "Add a dependency edge",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		depType, _ := cmd.Flags().GetString("type")
		dep, err := mgr.AddDependency(rootCtx,
			parseRef(args[0], args[1]), parseRef(args[2], args[3]),
			types.DependencyType(depType), nil, actor)
		if err != nil {
			return err
		}
		printOutput([]string{"dependent", "required", "type"},
			[][]string{{args[1], args[3], string(dep.DependencyType)}}, "dependency", dep)
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <list> <item> <required-list> <required-item>",
	Short: "Remove a dependency edge",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.RemoveDependency(rootCtx, parseRef(args[0], args[1]), parseRef(args[2], args[3]), actor)
		return err
	},
}

var depShowCmd = &cobra.Command{
	Use:   "show <list> <item>",
	Short: "Show an item's dependencies and blockers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := parseRef(args[0], args[1])
		deps, err := mgr.ItemDependencies(rootCtx, ref)
		if err != nil {
			return err
		}
		blockers, err := mgr.Blockers(rootCtx, ref)
		if err != nil {
			return err
		}
		rows := make([][]string, len(deps))
		for i, d := range deps {
			rows[i] = []string{toDisplay(d.RequiredItemID), string(d.DependencyType)}
		}
		printOutput([]string{"required_item_id", "type"}, rows, "dependencies", struct {
			Dependencies []*types.ItemDependency `json:"dependencies"`
			Blockers     []*types.Item            `json:"blockers"`
		}{deps, blockers})
		return nil
	},
}

var depGraphCmd = &cobra.Command{
	Use:   "graph <list> <item>",
	Short: "Show everything that depends on an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dependents, err := mgr.ItemDependents(rootCtx, parseRef(args[0], args[1]))
		if err != nil {
			return err
		}
		rows := make([][]string, len(dependents))
		for i, d := range dependents {
			rows[i] = []string{toDisplay(d.DependentItemID), string(d.DependencyType)}
		}
		printOutput([]string{"dependent_item_id", "type"}, rows, "dependents", dependents)
		return nil
	},
}
