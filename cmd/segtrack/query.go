package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func PrintQuery(ctx context.Context, w io.Writer, db *sql.Tx, query string, args ...interface{}) error {
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	result, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return err
	}
	defer result.Close()
	columns, err := result.Columns()
	if err != nil {
		return err
	}
	if len(columns) > 1 {
		fmt.Fprintln(w, strings.Join(columns, "\t"))
	}
	pointers := make([]interface{}, len(columns))
	container := make([]sql.NullString, len(columns))
	for i := 0; i < len(columns); i++ {
		pointers[i] = &container[i]
	}
	row := make([]string, len(columns))
	for result.Next() {
		if err := result.Scan(pointers...); err != nil {
			return err
		}
		for i, v := range container {
			row[i] = v.String
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return result.Err()
}

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [frames|history]",
	Short: "Queries the segtrack database",
	Long: `Print tab separated summaries of the database.

Without arguments every stack is listed with its number of frames. With
--stack, "frames" lists the frames of the stack and "history" the size of
its saved histories.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"frames", "history"},
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		tx, err := db.BeginTx(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return PrintQuery(cmd.Context(), out, tx, `
select s.name, count(f.id) as frames, s.created_at
from stacks s left join frames f on f.stack_id = s.id
group by s.id order by s.name`)
		}
		if stackName == "" {
			return fmt.Errorf("--stack is required")
		}
		switch args[0] {
		case "frames":
			return PrintQuery(cmd.Context(), out, tx, `
select f.frame_index, f.path, f.width, f.height, f.sha256
from frames f join stacks s on s.id = f.stack_id
where s.name = ? order by f.frame_index`, stackName)
		case "history":
			return PrintQuery(cmd.Context(), out, tx, `
select l.store, json_array_length(l.payload, '$.actions') as actions,
       json_extract(l.payload, '$.currentActionPointer') as pointer, l.updated_at
from action_logs l join stacks s on s.id = l.stack_id
where s.name = ? order by l.store`, stackName)
		}
		return fmt.Errorf("unknown query '%s'", args[0])
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
