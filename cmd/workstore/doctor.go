package main

import (
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check store integrity",
	Long: `Runs the engine's integrity and foreign-key checks against the
store and reports anything broken.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		healthy := true

		var integrity string
		err := store.Query(ctx, "PRAGMA integrity_check", func(rows *sql.Rows) error {
			if !rows.Next() {
				return rows.Err()
			}
			return rows.Scan(&integrity)
		})
		if err != nil {
			return err
		}
		if integrity == "ok" {
			fmt.Printf("%s integrity check\n", green("✓"))
		} else {
			healthy = false
			fmt.Printf("%s integrity check: %s\n", red("✗"), integrity)
		}

		violations := 0
		err = store.Query(ctx, "PRAGMA foreign_key_check", func(rows *sql.Rows) error {
			for rows.Next() {
				var table string
				var rowid sql.NullInt64
				var parent string
				var fkid int
				if err := rows.Scan(&table, &rowid, &parent, &fkid); err != nil {
					return err
				}
				violations++
				fmt.Printf("%s foreign key violation: %s row %d references missing %s\n",
					red("✗"), table, rowid.Int64, parent)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if violations == 0 {
			fmt.Printf("%s foreign keys\n", green("✓"))
		} else {
			healthy = false
		}

		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s schema version %d\n", green("✓"), version)

		if !healthy {
			return fmt.Errorf("store has problems")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
