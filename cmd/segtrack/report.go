package main

import (
	"fmt"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/lewtec/segtrack/annotation"
	"github.com/spf13/cobra"
)

var reportOut string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the histories and an HTML report of a stack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, db, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		written, err := annotation.NewExporter(osfs.New(reportOut)).Export(session, session.Stack.Name)
		if err != nil {
			return err
		}
		for _, name := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", ".", "Folder the report is written to")
}
