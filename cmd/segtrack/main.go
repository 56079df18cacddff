package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/lewtec/segtrack/annotation"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	databaseFile string
	stackName    string
	assumeYes    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "segtrack",
	Short: "Segment and track objects across image stacks",
	Long: strings.TrimSpace(`
Draw polygons on the frames of an image stack, link them across frames and
keep every edit in an undoable history stored next to the stack.
    `),
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error executing command: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "segtrack.yaml", "Config file for the project")
	rootCmd.PersistentFlags().StringVarP(&databaseFile, "database", "d", "", "Database file path (default is in the XDG data folder)")
	rootCmd.PersistentFlags().StringVarP(&stackName, "stack", "s", "", "Name of the image stack")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes when a question cannot be asked")
}

func databasePath() (string, error) {
	if databaseFile != "" {
		return databaseFile, nil
	}
	path, err := xdg.DataFile("segtrack/segtrack.db")
	if err != nil {
		return "", fmt.Errorf("while resolving the default database path: %w", err)
	}
	return path, nil
}

func openDatabase() (*sql.DB, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	log.Printf("Database: %s", path)
	return annotation.GetDatabase(path)
}

// openSession loads the config, the database and the history of the
// selected stack. The caller closes the database.
func openSession(ctx context.Context) (*annotation.Session, *sql.DB, error) {
	if stackName == "" {
		return nil, nil, fmt.Errorf("--stack is required")
	}
	config, err := annotation.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := openDatabase()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	session, err := annotation.OpenSession(ctx, db, config, stackName, annotation.NewTerminalPrompter(assumeYes))
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return session, db, nil
}
