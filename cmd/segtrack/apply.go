package main

import (
	"fmt"

	"github.com/lewtec/segtrack/annotation"
	"github.com/spf13/cobra"
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <script.yaml>...",
	Short: "Apply a script of tool gestures to a stack",
	Long: `Apply scripted gestures (brush strokes, taps, rectangle selections,
tracking clicks, label commands, undo and redo) to a stack and save the
resulting history.

Example script:
  steps:
    - tool: brush
      frame: 0
      path: [[20, 20], [40, 20]]
    - tool: tracker
      frame: 0
      tap: [30, 20]
    - undo: segmentation`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, db, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		runner := annotation.NewScriptRunner(session)
		for _, filename := range args {
			script, err := annotation.LoadScript(filename)
			if err != nil {
				return fmt.Errorf("failed to load script '%s': %w", filename, err)
			}
			if err := runner.Run(cmd.Context(), script); err != nil {
				return fmt.Errorf("while running '%s': %w", filename, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Applied %d steps from %s\n", len(script.Steps), filename)
		}
		return session.Save(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
