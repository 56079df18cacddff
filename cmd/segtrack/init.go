package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lewtec/segtrack/annotation"
	"github.com/lewtec/segtrack/internal/repository"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <frames-dir>",
	Short: "Register a folder of frames as a new stack",
	Long: `Register a folder of frames as a new image stack by:
- Creating a sample configuration file if there is none
- Creating the database and its schema
- Registering every image of the folder, in name order, as a frame

Example:
  segtrack init ./embryo-01
  segtrack init ./embryo-01 --stack embryo --config project.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		framesDir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve frames path: %w", err)
		}
		if stat, err := os.Stat(framesDir); err != nil || !stat.IsDir() {
			return fmt.Errorf("frames directory does not exist: %s", framesDir)
		}
		if stackName == "" {
			stackName = filepath.Base(framesDir)
		}

		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			fmt.Fprintf(out, "Creating sample configuration file: %s\n", configFile)
			if err := annotation.WriteSampleConfig(configFile); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
		} else {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configFile)
		}
		config, err := annotation.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		defer db.Close()

		stack, frames, err := annotation.IngestFrames(cmd.Context(), repository.NewStackRepository(db), stackName, framesDir, jobs)
		if err != nil {
			return fmt.Errorf("failed to register frames: %w", err)
		}
		fmt.Fprintf(out, "✓ Stack %s registered with %d frames\n", stack.Name, len(frames))

		session := annotation.NewSession(stack, frames, config, repository.NewActionLogRepository(db), annotation.NewTerminalPrompter(assumeYes))
		if err := session.Load(cmd.Context()); err != nil {
			return err
		}
		if err := session.Save(cmd.Context()); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		fmt.Fprintf(out, "✓ History created with %d labels\n", len(config.Labels))
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintf(out, "  segtrack apply --stack %s script.yaml\n", stack.Name)
		return nil
	},
}

var jobs int

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Amount of concurrent frame readers")
}
