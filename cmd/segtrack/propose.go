package main

import (
	"fmt"
	"os"

	"github.com/lewtec/segtrack/annotation"
	"github.com/spf13/cobra"
)

var (
	proposeFrame      int
	proposeDetections string
)

// proposeCmd represents the propose command
var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Add polygons proposed by a segmentation model",
	Long: `Filter the detections a segmentation model produced for a frame and add
the survivors to the frame as one undoable step. Detections are read from a
JSON array of {"label", "contour", "score"} objects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if proposeDetections == "" {
			return fmt.Errorf("--detections is required")
		}
		session, db, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if proposeFrame < 0 || proposeFrame >= len(session.Frames) {
			return fmt.Errorf("frame %d is out of range", proposeFrame)
		}
		image, err := os.ReadFile(session.Frames[proposeFrame].Path)
		if err != nil {
			return fmt.Errorf("while reading frame %d: %w", proposeFrame, err)
		}
		flexible := session.Flexible(annotation.FileProposalService{Filename: proposeDetections})
		added, err := flexible.Run(cmd.Context(), proposeFrame, image)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %d polygons to frame %d\n", added, proposeFrame)
		return session.Save(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(proposeCmd)
	proposeCmd.Flags().IntVarP(&proposeFrame, "frame", "f", 0, "Frame to segment")
	proposeCmd.Flags().StringVar(&proposeDetections, "detections", "", "JSON file with the model detections")
}
