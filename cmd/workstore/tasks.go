package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arclight/workstore/internal/types"
)

var tasksStatus string

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := types.TaskFilter{}
		if tasksStatus != "" {
			status := types.TaskStatus(tasksStatus)
			if !status.IsValid() {
				return fmt.Errorf("invalid task status: %s", tasksStatus)
			}
			filter.Status = &status
		}

		tasks, err := store.ListTasks(cmd.Context(), filter)
		if err != nil {
			return err
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(tasks) == 0 {
			fmt.Println(gray("No tasks"))
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%s  %-10s  %s\n", t.ID, statusColor(string(t.Status)), t.Title)
			fmt.Printf("  %s\n", gray(t.Query))
		}
		return nil
	},
}

func statusColor(status string) string {
	switch status {
	case "active", "open", "in_progress":
		return color.GreenString(status)
	case "failed", "blocked":
		return color.RedString(status)
	case "completed", "closed":
		return color.New(color.FgHiBlack).Sprint(status)
	default:
		return status
	}
}

func init() {
	tasksCmd.Flags().StringVar(&tasksStatus, "status", "", "filter by status")
	rootCmd.AddCommand(tasksCmd)
}
