package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show store location, schema version, and row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Work Store ==="))

		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Schema version: %d\n", version)
		fmt.Printf("Last recovery:  %s\n", store.LastRecovery())

		stats, err := store.Statistics(ctx)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Tasks:              %d\n", stats.Tasks)
		fmt.Printf("Issues:             %d\n", stats.Issues)
		fmt.Printf("Dependencies:       %d\n", stats.Dependencies)
		fmt.Printf("Events:             %d\n", stats.Events)
		fmt.Printf("Artifacts:          %d\n", stats.Artifacts)
		fmt.Printf("Conversation turns: %d\n", stats.ConversationTurns)
		fmt.Println()
		fmt.Printf("%s\n", gray("All operations are serialized through a single connection."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
