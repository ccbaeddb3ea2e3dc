package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/storage/sqlite"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics",
}

func init() {
	statsCmd.AddCommand(statsProgressCmd)
	ioCmd.AddCommand(ioExportCmd, ioImportCmd)
	ioImportCmd.Flags().String("as", "", "import under a new list key instead of the exported one")
	reportsCmd.AddCommand(reportsErrorsCmd)
}

var statsProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show list/item/tag counts and blocked-item totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := mgr.Statistics(rootCtx)
		if err != nil {
			return err
		}
		rows := [][]string{
			{"total_lists", toDisplay(stats.TotalLists)},
			{"active_lists", toDisplay(stats.ActiveLists)},
			{"archived_lists", toDisplay(stats.ArchivedLists)},
			{"total_items", toDisplay(stats.TotalItems)},
			{"blocked_items", toDisplay(stats.BlockedItems)},
			{"total_tags", toDisplay(stats.TotalTags)},
		}
		for status, count := range stats.ByStatus {
			rows = append(rows, []string{"items_" + string(status), toDisplay(count)})
		}
		printOutput([]string{"metric", "value"}, rows, "statistics", stats)
		return nil
	},
}

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Import and export lists",
}

var ioExportCmd = &cobra.Command{
	Use:   "export <list>",
	Short: "Export a list, its properties, and its items as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := mgr.ExportList(rootCtx, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	},
}

var ioImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import a previously exported list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var data manager.ExportedList
		if err := json.NewDecoder(f).Decode(&data); err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		asKey, _ := cmd.Flags().GetString("as")
		list, err := mgr.ImportList(rootCtx, &data, asKey, actor)
		if err != nil {
			return err
		}
		renderList(list)
		return nil
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Diagnostic reports",
}

var reportsErrorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Report items whose stored status has drifted from its children",
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := mgr.DiagnosticErrors(rootCtx)
		if err != nil {
			return err
		}
		rows := make([][]string, len(issues))
		for i, iss := range issues {
			rows[i] = []string{iss.ListKey, iss.ItemKey, iss.StoredStatus, iss.ExpectedStatus}
		}
		printOutput([]string{"list", "item", "stored_status", "expected_status"}, rows, "issues", issues)
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sqlite.SchemaSQL())
		return nil
	},
}
