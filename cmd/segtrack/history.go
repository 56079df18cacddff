package main

import (
	"fmt"

	"github.com/lewtec/segtrack/annotation"
	"github.com/spf13/cobra"
)

var historySteps int

func historyCommand(use, short, verb string, step func(*annotation.Session, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:       use + " [segmentation|tracking]",
		Short:     short,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{annotation.StoreSegmentation, annotation.StoreTracking},
		RunE: func(cmd *cobra.Command, args []string) error {
			store := annotation.StoreSegmentation
			if len(args) == 1 {
				store = args[0]
			}
			session, db, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			done := 0
			for ; done < historySteps; done++ {
				ok, err := step(session, store)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %d steps of %s\n", verb, done, store)
			return session.Save(cmd.Context())
		},
	}
}

var undoCmd = historyCommand("undo", "Undo the last steps of a history", "Undid", (*annotation.Session).Undo)

var redoCmd = historyCommand("redo", "Redo undone steps of a history", "Redid", (*annotation.Session).Redo)

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
	for _, cmd := range []*cobra.Command{undoCmd, redoCmd} {
		cmd.Flags().IntVarP(&historySteps, "steps", "n", 1, "Number of steps")
	}
}
