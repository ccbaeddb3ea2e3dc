// Package main implements the tg CLI: a thin cobra layer over
// internal/manager.Manager.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskgraph-dev/tg/internal/access"
	"github.com/taskgraph-dev/tg/internal/apperr"
	"github.com/taskgraph-dev/tg/internal/config"
	"github.com/taskgraph-dev/tg/internal/logging"
	"github.com/taskgraph-dev/tg/internal/manager"
	"github.com/taskgraph-dev/tg/internal/storage/sqlite"
	"github.com/taskgraph-dev/tg/internal/ui"
)

var (
	rootCtx      = context.Background()
	mgr          *manager.Manager
	outputFormat ui.Format
	actor        string
)

var rootCmd = &cobra.Command{
	Use:           "tg",
	Short:         "tg manages hierarchical, dependency-aware task lists",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if mgr != nil {
			return mgr.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "path to the task database (overrides TG_DB)")
	rootCmd.PersistentFlags().String("force-tags", "", "comma-separated tags every visible list must carry")
	rootCmd.PersistentFlags().String("filter-tags", "", "comma-separated tags used to filter visible lists")
	rootCmd.PersistentFlags().String("output", "", "output format: table|vertical|json|yaml|xml")
	rootCmd.PersistentFlags().String("actor", "", "name recorded against history entries")

	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("force-tags", rootCmd.PersistentFlags().Lookup("force-tags"))
	_ = viper.BindPFlag("filter-tags", rootCmd.PersistentFlags().Lookup("filter-tags"))
	_ = viper.BindPFlag("output-format", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))

	rootCmd.AddCommand(listCmd, itemCmd, depCmd, tagCmd, propertyCmd, statsCmd, ioCmd, reportsCmd, schemaCmd)
}

func setup(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return apperr.Wrap(apperr.StorageFailure, err, "loading configuration")
	}
	flags := rootCmd.PersistentFlags()
	for key, name := range map[string]string{"db": "db", "force-tags": "force-tags", "filter-tags": "filter-tags", "output-format": "output", "actor": "actor"} {
		if err := config.Get().BindPFlag(key, flags.Lookup(name)); err != nil {
			return err
		}
	}

	log := logging.New(config.LogLevel(), config.LogFile())

	store, err := sqlite.New(rootCtx, config.DBPath(), log)
	if err != nil {
		return apperr.Wrap(apperr.StorageFailure, err, "opening database %q", config.DBPath())
	}

	scope := access.New(config.ForceTags(), config.FilterTags())
	mgr = manager.New(store, scope)
	outputFormat = ui.ParseFormat(config.OutputFormat())
	actor = config.Actor()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}

// fail prints err and exits with the code mapped from its apperr.Kind,
// mirroring the status-code table used by the HTTP adapter.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return 2
	case apperr.AccessDenied:
		return 3
	case apperr.StorageFailure:
		return 4
	case "":
		return 1
	default:
		return 1
	}
}

func printOutput(headers []string, rows [][]string, xmlRoot string, structured any) {
	out, err := ui.Render(outputFormat, headers, rows, xmlRoot, structured)
	if err != nil {
		fail(err)
		return
	}
	fmt.Println(out)
}
