package main

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive SQL shell against the store",
	Long: `Opens a read-eval loop that runs SQL statements through the
store's serialized executor. SELECT statements print their rows;
anything else reports completion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rl, err := readline.New(color.CyanString("workstore> "))
		if err != nil {
			return err
		}
		defer rl.Close()

		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Println(gray("Type SQL statements; \"exit\" to quit."))

		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}

			stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
			if stmt == "" {
				continue
			}
			if strings.EqualFold(stmt, "exit") || strings.EqualFold(stmt, "quit") {
				return nil
			}

			if err := runStatement(cmd, stmt); err != nil {
				fmt.Println(color.RedString("Error: %v", err))
			}
		}
	},
}

func runStatement(cmd *cobra.Command, stmt string) error {
	ctx := cmd.Context()

	keyword := strings.ToUpper(strings.Fields(stmt)[0])
	if keyword != "SELECT" && keyword != "PRAGMA" && keyword != "WITH" && keyword != "EXPLAIN" {
		if err := store.Exec(ctx, stmt); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	}

	return store.Query(ctx, stmt, func(rows *sql.Rows) error {
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		fmt.Println(color.YellowString(strings.Join(cols, " | ")))

		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(sql.NullString)
		}
		count := 0
		for rows.Next() {
			if err := rows.Scan(values...); err != nil {
				return err
			}
			fields := make([]string, len(cols))
			for i, v := range values {
				ns := v.(*sql.NullString)
				if ns.Valid {
					fields[i] = ns.String
				} else {
					fields[i] = "NULL"
				}
			}
			fmt.Println(strings.Join(fields, " | "))
			count++
		}
		fmt.Printf("(%d rows)\n", count)
		return rows.Err()
	})
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
