package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arclight/workstore/internal/types"
)

var (
	issuesTask   string
	issuesStatus string
	issuesEvents bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List issues, optionally with their event trails",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter := types.IssueFilter{}
		if issuesTask != "" {
			filter.TaskID = &issuesTask
		}
		if issuesStatus != "" {
			status := types.IssueStatus(issuesStatus)
			if !status.IsValid() {
				return fmt.Errorf("invalid status: %s", issuesStatus)
			}
			filter.Status = &status
		}

		issues, err := store.ListIssues(ctx, filter)
		if err != nil {
			return err
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		if len(issues) == 0 {
			fmt.Println(gray("No issues"))
			return nil
		}

		for _, i := range issues {
			fmt.Printf("%s  P%d  %-12s  %s\n", i.ID, i.Priority, statusColor(string(i.Status)), i.Title)
			if !issuesEvents {
				continue
			}
			events, err := store.GetEvents(ctx, i.ID, 0)
			if err != nil {
				return err
			}
			for _, e := range events {
				fmt.Printf("  %s  %s\n", gray(e.CreatedAt.Format("2006-01-02 15:04:05")), e.EventType)
			}
		}
		return nil
	},
}

func init() {
	issuesCmd.Flags().StringVar(&issuesTask, "task", "", "filter by task id")
	issuesCmd.Flags().StringVar(&issuesStatus, "status", "", "filter by status")
	issuesCmd.Flags().BoolVar(&issuesEvents, "events", false, "show each issue's event trail")
	rootCmd.AddCommand(issuesCmd)
}
