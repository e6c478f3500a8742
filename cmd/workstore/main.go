// Command workstore is a maintenance and inspection CLI for the work
// store. It is a collaborator of the store core: everything it does
// goes through the public storage surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arclight/workstore/internal/config"
	"github.com/arclight/workstore/internal/storage"
)

var (
	store storage.Store

	configPath string
	dbPath     string
	legacyPath string
)

var rootCmd = &cobra.Command{
	Use:   "workstore",
	Short: "Inspect and maintain the work store database",
	Long: `workstore opens the local work store (tasks, issues, events,
artifacts, conversations) and provides inspection and maintenance
commands against it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if legacyPath != "" {
			cfg.LegacyDBPath = legacyPath
		}

		store = storage.NewStore(storage.Config{
			Path:       cfg.DBPath,
			LegacyPath: cfg.LegacyDBPath,
		})
		return store.Open(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		return store.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&legacyPath, "legacy-db", "", "legacy database file checked by recovery (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
