package main

import (
	"github.com/spf13/cobra"
)

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage key-value properties on lists and items",
}

var propertyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage properties on a list",
}

var propertyItemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage properties on an item",
}

func init() {
	propertyCmd.AddCommand(propertyListCmd, propertyItemCmd)
	propertyListCmd.AddCommand(propertyListSetCmd, propertyListGetCmd, propertyListAllCmd, propertyListDeleteCmd)
	propertyItemCmd.AddCommand(propertyItemSetCmd, propertyItemGetCmd, propertyItemAllCmd, propertyItemDeleteCmd)
}

var propertyListSetCmd = &cobra.Command{
	Use:   "set <list> <key> <value>",
	Short: "Set a property on a list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		prop, err := mgr.SetListProperty(rootCtx, args[0], args[1], args[2], actor)
		if err != nil {
			return err
		}
		renderProp(prop.PropertyKey, prop.PropertyValue)
		return nil
	},
}

var propertyListGetCmd = &cobra.Command{
	Use:   "get <list> <key>",
	Short: "Get a property from a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prop, err := mgr.GetListProperty(rootCtx, args[0], args[1])
		if err != nil {
			return err
		}
		renderProp(prop.PropertyKey, prop.PropertyValue)
		return nil
	},
}

var propertyListAllCmd = &cobra.Command{
	Use:   "list <list>",
	Short: "List every property on a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := mgr.ListListProperties(rootCtx, args[0])
		if err != nil {
			return err
		}
		rows := make([][]string, len(props))
		for i, p := range props {
			rows[i] = []string{p.PropertyKey, p.PropertyValue}
		}
		printOutput([]string{"key", "value"}, rows, "properties", props)
		return nil
	},
}

var propertyListDeleteCmd = &cobra.Command{
	Use:   "delete <list> <key>",
	Short: "Delete a property from a list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.DeleteListProperty(rootCtx, args[0], args[1], actor)
		return err
	},
}

var propertyItemSetCmd = &cobra.Command{
	Use:   "set <list> <item> <key> <value>",
	Short: "Set a property on an item",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		prop, err := mgr.SetItemProperty(rootCtx, args[0], args[1], args[2], args[3], actor)
		if err != nil {
			return err
		}
		renderProp(prop.PropertyKey, prop.PropertyValue)
		return nil
	},
}

var propertyItemGetCmd = &cobra.Command{
	Use:   "get <list> <item> <key>",
	Short: "Get a property from an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		prop, err := mgr.GetItemProperty(rootCtx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		renderProp(prop.PropertyKey, prop.PropertyValue)
		return nil
	},
}

var propertyItemAllCmd = &cobra.Command{
	Use:   "list <list> <item>",
	Short: "List every property on an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := mgr.ListItemProperties(rootCtx, args[0], args[1])
		if err != nil {
			return err
		}
		rows := make([][]string, len(props))
		for i, p := range props {
			rows[i] = []string{p.PropertyKey, p.PropertyValue}
		}
		printOutput([]string{"key", "value"}, rows, "properties", props)
		return nil
	},
}

var propertyItemDeleteCmd = &cobra.Command{
	Use:   "delete <list> <item> <key>",
	Short: "Delete a property from an item",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := mgr.DeleteItemProperty(rootCtx, args[0], args[1], args[2], actor)
		return err
	},
}

func renderProp(key, value string) {
	printOutput([]string{"key", "value"}, [][]string{{key, value}}, "property", map[string]string{key: value})
}
